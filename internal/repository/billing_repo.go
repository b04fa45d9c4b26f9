package repository

import (
	"context"
	"fmt"

	"boardinghouse/internal/apperr"
	"boardinghouse/internal/billing"
	"boardinghouse/internal/model"
)

// BillingRepository defines access to monthly billings.
type BillingRepository interface {
	CreateBilling(ctx context.Context, b *model.Billing) error
	GetBillingByID(ctx context.Context, id string) (*model.Billing, error)
	GetBillingByRoomMonth(ctx context.Context, roomID string, month billing.Month) (*model.Billing, error)
	// UpdateCharges writes all amounts of a billing at once.
	UpdateCharges(ctx context.Context, b *model.Billing) error
	UpdateStatus(ctx context.Context, id string, status billing.Status) error
	ListBillingsByTenant(ctx context.Context, tenantID string) ([]model.Billing, error)
	ListBillingsByLandlord(ctx context.Context, landlordID string) ([]model.Billing, error)
	CountByLandlordStatus(ctx context.Context, landlordID string, status billing.Status) (int, error)
	CountByTenantStatus(ctx context.Context, tenantID string, status billing.Status) (int, error)
}

type billingRepo struct {
	db DBTX
}

func NewBillingRepo(db DBTX) BillingRepository {
	return &billingRepo{db: db}
}

const billingColumns = `b.id, b.room_id, b.tenant_id, b.month, b.rent_amount, b.wifi_amount,
	b.electricity_amount, b.total_amount, b.status, b.created_at, b.updated_at`

const billingSelect = `
	SELECT ` + billingColumns + `, r.room_number, r.billing_due_day, r.landlord_id
	FROM billings b
	JOIN rooms r ON r.id = b.room_id
`

func billingDest(b *model.Billing) []any {
	return []any{
		&b.ID, &b.RoomID, &b.TenantID, &b.Month, &b.RentAmount, &b.WifiAmount,
		&b.ElectricityAmount, &b.TotalAmount, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	}
}

func billingJoinedDest(b *model.Billing) []any {
	return append(billingDest(b), &b.RoomNumber, &b.BillingDueDay, &b.LandlordID)
}

func (r *billingRepo) CreateBilling(ctx context.Context, b *model.Billing) error {
	query := `
		INSERT INTO billings AS b (room_id, tenant_id, month, rent_amount, wifi_amount, electricity_amount, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + billingColumns
	err := r.db.QueryRow(ctx, query,
		b.RoomID, b.TenantID, b.Month, b.RentAmount, b.WifiAmount, b.ElectricityAmount, b.TotalAmount, b.Status,
	).Scan(billingDest(b)...)
	if err != nil {
		return conflictOr(err, "inserting billing", "billing for this month already exists")
	}
	return nil
}

func (r *billingRepo) getBilling(ctx context.Context, where string, args ...any) (*model.Billing, error) {
	var b model.Billing
	if err := r.db.QueryRow(ctx, billingSelect+where, args...).Scan(billingJoinedDest(&b)...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch billing: %w", err)
	}
	return &b, nil
}

func (r *billingRepo) GetBillingByID(ctx context.Context, id string) (*model.Billing, error) {
	return r.getBilling(ctx, `WHERE b.id = $1`, id)
}

func (r *billingRepo) GetBillingByRoomMonth(ctx context.Context, roomID string, month billing.Month) (*model.Billing, error) {
	return r.getBilling(ctx, `WHERE b.room_id = $1 AND b.month = $2`, roomID, month)
}

func (r *billingRepo) UpdateCharges(ctx context.Context, b *model.Billing) error {
	query := `
		UPDATE billings
		SET rent_amount = $2, wifi_amount = $3, electricity_amount = $4, total_amount = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, b.ID, b.RentAmount, b.WifiAmount, b.ElectricityAmount, b.TotalAmount).Scan(&b.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return apperr.NotFound("billing %s", b.ID)
		}
		return fmt.Errorf("update charges of billing %s: %w", b.ID, err)
	}
	return nil
}

func (r *billingRepo) UpdateStatus(ctx context.Context, id string, status billing.Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE billings SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update status of billing %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("billing %s", id)
	}
	return nil
}

func (r *billingRepo) list(ctx context.Context, where string, args ...any) ([]model.Billing, error) {
	rows, err := r.db.Query(ctx, billingSelect+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query billings: %w", err)
	}
	defer rows.Close()

	out := []model.Billing{}
	for rows.Next() {
		var b model.Billing
		if err := rows.Scan(billingJoinedDest(&b)...); err != nil {
			return nil, fmt.Errorf("scan billing: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *billingRepo) ListBillingsByTenant(ctx context.Context, tenantID string) ([]model.Billing, error) {
	return r.list(ctx, `WHERE b.tenant_id = $1 ORDER BY b.month DESC`, tenantID)
}

func (r *billingRepo) ListBillingsByLandlord(ctx context.Context, landlordID string) ([]model.Billing, error) {
	return r.list(ctx, `WHERE r.landlord_id = $1 ORDER BY b.created_at DESC`, landlordID)
}

func (r *billingRepo) CountByLandlordStatus(ctx context.Context, landlordID string, status billing.Status) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM billings b
		JOIN rooms r ON r.id = b.room_id
		WHERE r.landlord_id = $1 AND b.status = $2
	`
	var n int
	if err := r.db.QueryRow(ctx, query, landlordID, status).Scan(&n); err != nil {
		return 0, fmt.Errorf("count billings for landlord %s: %w", landlordID, err)
	}
	return n, nil
}

func (r *billingRepo) CountByTenantStatus(ctx context.Context, tenantID string, status billing.Status) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM billings WHERE tenant_id = $1 AND status = $2`, tenantID, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count billings for tenant %s: %w", tenantID, err)
	}
	return n, nil
}
