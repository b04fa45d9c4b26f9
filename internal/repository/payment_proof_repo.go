package repository

import (
	"context"
	"fmt"
	"time"

	"boardinghouse/internal/apperr"
	"boardinghouse/internal/model"
)

// PaymentProofRepository defines access to payment proofs.
type PaymentProofRepository interface {
	CreateProof(ctx context.Context, p *model.PaymentProof) error
	GetProofByID(ctx context.Context, id string) (*model.PaymentProof, error)
	// MarkVerified sets the verifier of a proof that is not verified yet.
	MarkVerified(ctx context.Context, id, verifierID string, at time.Time) (*model.PaymentProof, error)
	// DeleteUnverified removes a proof that is not verified yet.
	DeleteUnverified(ctx context.Context, id string) error
	CountByBilling(ctx context.Context, billingID string) (int, error)
	ListByBilling(ctx context.Context, billingID string) ([]model.PaymentProof, error)
	ListPendingByLandlord(ctx context.Context, landlordID string) ([]model.PaymentProof, error)
}

type paymentProofRepo struct {
	db DBTX
}

func NewPaymentProofRepo(db DBTX) PaymentProofRepository {
	return &paymentProofRepo{db: db}
}

const proofColumns = `p.id, p.billing_id, p.payment_method, p.receipt_photo_url, p.uploaded_by,
	p.verified_by, p.verified_at, p.created_at`

func proofDest(p *model.PaymentProof) []any {
	return []any{
		&p.ID, &p.BillingID, &p.PaymentMethod, &p.ReceiptPhotoURL, &p.UploadedByID,
		&p.VerifiedByID, &p.VerifiedAt, &p.CreatedAt,
	}
}

func (r *paymentProofRepo) CreateProof(ctx context.Context, p *model.PaymentProof) error {
	query := `
		INSERT INTO payment_proofs AS p (billing_id, payment_method, receipt_photo_url, uploaded_by)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + proofColumns
	err := r.db.QueryRow(ctx, query, p.BillingID, p.PaymentMethod, p.ReceiptPhotoURL, p.UploadedByID).Scan(proofDest(p)...)
	if err != nil {
		return conflictOr(err, "inserting payment proof", "a payment proof is already awaiting verification")
	}
	return nil
}

func (r *paymentProofRepo) GetProofByID(ctx context.Context, id string) (*model.PaymentProof, error) {
	var p model.PaymentProof
	err := r.db.QueryRow(ctx, `SELECT `+proofColumns+` FROM payment_proofs p WHERE p.id = $1`, id).Scan(proofDest(&p)...)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch payment proof %s: %w", id, err)
	}
	return &p, nil
}

func (r *paymentProofRepo) MarkVerified(ctx context.Context, id, verifierID string, at time.Time) (*model.PaymentProof, error) {
	query := `
		UPDATE payment_proofs AS p
		SET verified_by = $2, verified_at = $3
		WHERE p.id = $1 AND p.verified_by IS NULL
		RETURNING ` + proofColumns
	var p model.PaymentProof
	if err := r.db.QueryRow(ctx, query, id, verifierID, at).Scan(proofDest(&p)...); err != nil {
		if isNoRows(err) {
			return nil, apperr.Conflict("payment proof already verified")
		}
		return nil, fmt.Errorf("verify payment proof %s: %w", id, err)
	}
	return &p, nil
}

func (r *paymentProofRepo) DeleteUnverified(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM payment_proofs WHERE id = $1 AND verified_by IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete payment proof %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("verified payment proofs cannot be rejected")
	}
	return nil
}

func (r *paymentProofRepo) CountByBilling(ctx context.Context, billingID string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payment_proofs WHERE billing_id = $1`, billingID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count payment proofs of billing %s: %w", billingID, err)
	}
	return n, nil
}

func (r *paymentProofRepo) ListByBilling(ctx context.Context, billingID string) ([]model.PaymentProof, error) {
	query := `
		SELECT ` + proofColumns + `, up.name, vb.name
		FROM payment_proofs p
		JOIN users up ON up.id = p.uploaded_by
		LEFT JOIN users vb ON vb.id = p.verified_by
		WHERE p.billing_id = $1
		ORDER BY p.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, billingID)
	if err != nil {
		return nil, fmt.Errorf("query payment proofs of billing %s: %w", billingID, err)
	}
	defer rows.Close()

	out := []model.PaymentProof{}
	for rows.Next() {
		var p model.PaymentProof
		if err := rows.Scan(append(proofDest(&p), &p.UploadedByName, &p.VerifiedByName)...); err != nil {
			return nil, fmt.Errorf("scan payment proof: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *paymentProofRepo) ListPendingByLandlord(ctx context.Context, landlordID string) ([]model.PaymentProof, error) {
	query := `
		SELECT ` + proofColumns + `, up.name, r.room_number, b.month
		FROM payment_proofs p
		JOIN billings b ON b.id = p.billing_id
		JOIN rooms r ON r.id = b.room_id
		JOIN users up ON up.id = p.uploaded_by
		WHERE p.verified_by IS NULL AND r.landlord_id = $1
		ORDER BY p.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, landlordID)
	if err != nil {
		return nil, fmt.Errorf("query pending payment proofs: %w", err)
	}
	defer rows.Close()

	out := []model.PaymentProof{}
	for rows.Next() {
		var p model.PaymentProof
		if err := rows.Scan(append(proofDest(&p), &p.UploadedByName, &p.RoomNumber, &p.BillingMonth)...); err != nil {
			return nil, fmt.Errorf("scan payment proof: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
