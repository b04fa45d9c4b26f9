package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"boardinghouse/internal/apperr"
	"boardinghouse/internal/auth"
	"boardinghouse/internal/billing"
	"boardinghouse/internal/model"
	"boardinghouse/internal/pubsub"
	"boardinghouse/internal/repository"
	"boardinghouse/internal/storage"
)

// UploadProofInput is a tenant's payment submission.
type UploadProofInput struct {
	BillingID  string
	Method     model.PaymentMethod
	ReceiptURL string
}

type PaymentService interface {
	UploadProof(ctx context.Context, p auth.Principal, in UploadProofInput) (*model.PaymentProof, error)
	VerifyProof(ctx context.Context, p auth.Principal, proofID string) (*model.PaymentProof, error)
	RejectProof(ctx context.Context, p auth.Principal, proofID string) error
	ListByBilling(ctx context.Context, p auth.Principal, billingID string) ([]model.PaymentProof, error)
	ListPending(ctx context.Context, p auth.Principal) ([]model.PaymentProof, error)
	ReceiptURL(ctx context.Context, p auth.Principal, proofID string) (string, error)
}

type paymentService struct {
	store  repository.Store
	images Images
	events pubsub.Emitter
	clock  Clock
	logger zerolog.Logger
}

func NewPaymentService(store repository.Store, images Images, events pubsub.Emitter, clock Clock, logger zerolog.Logger) PaymentService {
	return &paymentService{
		store:  store,
		images: images,
		events: events,
		clock:  clock,
		logger: logger.With().Str("service", "PaymentService").Logger(),
	}
}

// UploadProof records a proof and marks the billing PAID. A billing has at
// most one proof awaiting verification and a VERIFIED billing takes none.
func (s *paymentService) UploadProof(ctx context.Context, p auth.Principal, in UploadProofInput) (*model.PaymentProof, error) {
	if err := auth.Require(p, auth.RoleTenant); err != nil {
		return nil, err
	}
	if _, err := model.ParsePaymentMethod(string(in.Method)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ReceiptURL) == "" {
		return nil, apperr.Validation("receipt photo is required")
	}
	if err := storedImage(s.images, in.ReceiptURL, storage.PaymentReceipts); err != nil {
		return nil, err
	}

	var (
		proof *model.PaymentProof
		b     *model.Billing
	)
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		var err error
		b, err = lockBilling(ctx, r, in.BillingID)
		if err != nil {
			return err
		}
		if b.TenantID != p.UserID {
			return apperr.Forbidden("billing %s belongs to another tenant", b.ID)
		}
		next, err := billing.SubmitPayment(b.Status)
		if err != nil {
			return err
		}
		proof = &model.PaymentProof{
			BillingID:       b.ID,
			PaymentMethod:   in.Method,
			ReceiptPhotoURL: in.ReceiptURL,
			UploadedByID:    p.UserID,
		}
		if err := r.Proofs.CreateProof(ctx, proof); err != nil {
			return err
		}
		if err := r.Billings.UpdateStatus(ctx, b.ID, next); err != nil {
			return err
		}
		b.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("billing_id", b.ID).Str("proof_id", proof.ID).Str("method", string(proof.PaymentMethod)).Msg("Payment proof uploaded")
	s.events.Emit(ctx, proofEvent(pubsub.PaymentSubmitted, b, proof.ID, p.UserID, s.clock.now()))
	return proof, nil
}

// VerifyProof accepts a proof and marks its billing VERIFIED.
func (s *paymentService) VerifyProof(ctx context.Context, p auth.Principal, proofID string) (*model.PaymentProof, error) {
	if err := auth.Require(p, auth.RoleLandlord); err != nil {
		return nil, err
	}

	var (
		verified *model.PaymentProof
		b        *model.Billing
	)
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		var (
			proof *model.PaymentProof
			err   error
		)
		proof, b, err = s.landlordProof(ctx, r, p, proofID)
		if err != nil {
			return err
		}
		if proof.IsVerified() {
			return apperr.Conflict("payment proof already verified")
		}
		next, err := billing.VerifyPayment(b.Status)
		if err != nil {
			return err
		}
		verified, err = r.Proofs.MarkVerified(ctx, proof.ID, p.UserID, s.clock.now())
		if err != nil {
			return err
		}
		if err := r.Billings.UpdateStatus(ctx, b.ID, next); err != nil {
			return err
		}
		b.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("billing_id", b.ID).Str("proof_id", verified.ID).Msg("Payment proof verified")
	s.events.Emit(ctx, proofEvent(pubsub.PaymentVerified, b, verified.ID, p.UserID, s.clock.now()))
	return verified, nil
}

// RejectProof deletes an unverified proof. The billing returns to PENDING
// once it has no proofs left.
func (s *paymentService) RejectProof(ctx context.Context, p auth.Principal, proofID string) error {
	if err := auth.Require(p, auth.RoleLandlord); err != nil {
		return err
	}

	var (
		proof *model.PaymentProof
		b     *model.Billing
	)
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		var err error
		proof, b, err = s.landlordProof(ctx, r, p, proofID)
		if err != nil {
			return err
		}
		if proof.IsVerified() {
			return apperr.Conflict("verified payment proofs cannot be rejected")
		}
		if err := r.Proofs.DeleteUnverified(ctx, proof.ID); err != nil {
			return err
		}
		remaining, err := r.Proofs.CountByBilling(ctx, b.ID)
		if err != nil {
			return err
		}
		next, err := billing.RejectPayment(b.Status, remaining)
		if err != nil {
			return err
		}
		if next != b.Status {
			if err := r.Billings.UpdateStatus(ctx, b.ID, next); err != nil {
				return err
			}
			b.Status = next
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("billing_id", b.ID).Str("proof_id", proof.ID).Str("status", string(b.Status)).Msg("Payment proof rejected")
	if err := s.images.DeleteImage(ctx, proof.ReceiptPhotoURL); err != nil {
		s.logger.Warn().Err(err).Str("proof_id", proof.ID).Msg("Failed to delete receipt image")
	}
	s.events.Emit(ctx, proofEvent(pubsub.PaymentRejected, b, proof.ID, p.UserID, s.clock.now()))
	return nil
}

func (s *paymentService) ListByBilling(ctx context.Context, p auth.Principal, billingID string) ([]model.PaymentProof, error) {
	if err := auth.Require(p, auth.RoleLandlord, auth.RoleTenant); err != nil {
		return nil, err
	}
	repos := s.store.Repos()
	b, err := repos.Billings.GetBillingByID(ctx, billingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound("billing %s", billingID)
	}
	if err := canViewBilling(p, b); err != nil {
		return nil, err
	}
	return repos.Proofs.ListByBilling(ctx, billingID)
}

func (s *paymentService) ListPending(ctx context.Context, p auth.Principal) ([]model.PaymentProof, error) {
	if err := auth.Require(p, auth.RoleLandlord); err != nil {
		return nil, err
	}
	return s.store.Repos().Proofs.ListPendingByLandlord(ctx, p.UserID)
}

// ReceiptURL returns a short-lived download link for a proof's receipt.
// The owning landlord and the billed tenant may fetch it.
func (s *paymentService) ReceiptURL(ctx context.Context, p auth.Principal, proofID string) (string, error) {
	if err := auth.Require(p, auth.RoleLandlord, auth.RoleTenant); err != nil {
		return "", err
	}
	repos := s.store.Repos()
	proof, err := repos.Proofs.GetProofByID(ctx, proofID)
	if err != nil {
		return "", err
	}
	if proof == nil {
		return "", apperr.NotFound("payment proof %s", proofID)
	}
	b, err := repos.Billings.GetBillingByID(ctx, proof.BillingID)
	if err != nil {
		return "", err
	}
	if b == nil {
		return "", apperr.NotFound("billing %s", proof.BillingID)
	}
	if err := canViewBilling(p, b); err != nil {
		return "", err
	}
	key, err := s.images.KeyFromURL(proof.ReceiptPhotoURL)
	if err != nil {
		return "", err
	}
	return s.images.PresignGet(ctx, key)
}

// landlordProof loads a proof with its billing, locking the billing's
// room, and checks the landlord owns it.
func (s *paymentService) landlordProof(ctx context.Context, r repository.Repositories, p auth.Principal, proofID string) (*model.PaymentProof, *model.Billing, error) {
	proof, err := r.Proofs.GetProofByID(ctx, proofID)
	if err != nil {
		return nil, nil, err
	}
	if proof == nil {
		return nil, nil, apperr.NotFound("payment proof %s", proofID)
	}
	b, err := lockBilling(ctx, r, proof.BillingID)
	if err != nil {
		return nil, nil, err
	}
	if b.LandlordID != p.UserID {
		return nil, nil, apperr.Forbidden("payment proof %s belongs to another landlord", proofID)
	}
	// Re-read under the lock so a concurrent verify or reject is seen.
	proof, err = r.Proofs.GetProofByID(ctx, proofID)
	if err != nil {
		return nil, nil, err
	}
	if proof == nil {
		return nil, nil, apperr.NotFound("payment proof %s", proofID)
	}
	return proof, b, nil
}

// lockBilling serializes status changes of a billing on its room row and
// returns the billing as seen under that lock.
func lockBilling(ctx context.Context, r repository.Repositories, billingID string) (*model.Billing, error) {
	b, err := r.Billings.GetBillingByID(ctx, billingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound("billing %s", billingID)
	}
	if _, err := r.Rooms.GetRoomForUpdate(ctx, b.RoomID); err != nil {
		return nil, err
	}
	b, err = r.Billings.GetBillingByID(ctx, billingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound("billing %s", billingID)
	}
	return b, nil
}
