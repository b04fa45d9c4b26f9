package model

import (
	"time"

	"boardinghouse/internal/apperr"
)

// PaymentMethod is how a tenant paid.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentOnline PaymentMethod = "ONLINE"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentCash, PaymentOnline:
		return m, nil
	}
	return "", apperr.Validation("unknown payment method %q", s)
}

// PaymentProof is the receipt a tenant submits for a billing.
type PaymentProof struct {
	ID              string        `db:"id" json:"id"`
	BillingID       string        `db:"billing_id" json:"billing_id"`
	PaymentMethod   PaymentMethod `db:"payment_method" json:"payment_method"`
	ReceiptPhotoURL string        `db:"receipt_photo_url" json:"receipt_photo_url"`
	UploadedByID    string        `db:"uploaded_by" json:"uploaded_by"`
	VerifiedByID    *string       `db:"verified_by" json:"verified_by,omitempty"`
	VerifiedAt      *time.Time    `db:"verified_at" json:"verified_at,omitempty"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`

	// Filled by listing queries.
	UploadedByName string  `db:"uploaded_by_name" json:"uploaded_by_name,omitempty"`
	VerifiedByName *string `db:"verified_by_name" json:"verified_by_name,omitempty"`
	RoomNumber     string  `db:"room_number" json:"room_number,omitempty"`
	BillingMonth   string  `db:"billing_month" json:"billing_month,omitempty"`
}

// IsVerified reports whether a landlord has accepted the proof.
func (p *PaymentProof) IsVerified() bool {
	return p.VerifiedByID != nil
}
