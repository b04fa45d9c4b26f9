package billing

import (
	"boardinghouse/internal/apperr"
)

// Status is the payment state of a billing.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusPaid     Status = "PAID"
	StatusVerified Status = "VERIFIED"
)

// ParseStatus accepts the three persisted status names.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusPaid, StatusVerified:
		return st, nil
	}
	return "", apperr.Validation("unknown billing status %q", s)
}

// CanTransition reports whether a billing may move from one status to
// another. PAID -> PENDING is the only backwards edge.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusPaid
	case StatusPaid:
		return to == StatusPaid || to == StatusVerified || to == StatusPending
	default:
		return false
	}
}

// SubmitPayment is the status after a tenant uploads a payment proof.
func SubmitPayment(current Status) (Status, error) {
	if !CanTransition(current, StatusPaid) {
		return current, apperr.Conflict("billing is already %s", current)
	}
	return StatusPaid, nil
}

// VerifyPayment is the status after the landlord accepts a proof.
func VerifyPayment(current Status) (Status, error) {
	if !CanTransition(current, StatusVerified) {
		return current, apperr.Conflict("cannot verify a billing that is %s", current)
	}
	return StatusVerified, nil
}

// RejectPayment is the status after the landlord discards a proof, given
// how many proofs the billing still has.
func RejectPayment(current Status, remainingProofs int) (Status, error) {
	if current == StatusVerified {
		return current, apperr.Conflict("cannot reject a payment on a verified billing")
	}
	if remainingProofs > 0 || current == StatusPending {
		return current, nil
	}
	return StatusPending, nil
}
