package repository

import (
	"context"
	"fmt"

	"boardinghouse/internal/apperr"
	"boardinghouse/internal/model"
)

// RoomRepository defines access to rooms and their tenant assignment.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room *model.Room) error
	GetRoomByID(ctx context.Context, id string) (*model.Room, error)
	// GetRoomForUpdate locks the room row for the rest of the transaction.
	GetRoomForUpdate(ctx context.Context, id string) (*model.Room, error)
	UpdateRoom(ctx context.Context, room *model.Room) error
	ListRoomsByLandlord(ctx context.Context, landlordID string) ([]model.RoomOverview, error)
	GetRoomByTenant(ctx context.Context, tenantID string) (*model.Room, error)
	// AssignTenant sets the tenant of a vacant room.
	AssignTenant(ctx context.Context, roomID, tenantID string, billingDueDay int) error
	ClearTenant(ctx context.Context, roomID string) error
}

type roomRepo struct {
	db DBTX
}

func NewRoomRepo(db DBTX) RoomRepository {
	return &roomRepo{db: db}
}

const roomColumns = `id, landlord_id, room_number, monthly_rent, wifi_fee, electricity_rate_per_kwh,
	billing_due_day, tenant_id, created_at, updated_at`

func roomDest(r *model.Room) []any {
	return []any{
		&r.ID, &r.LandlordID, &r.RoomNumber, &r.MonthlyRent, &r.WifiFee, &r.ElectricityRatePerKwh,
		&r.BillingDueDay, &r.TenantID, &r.CreatedAt, &r.UpdatedAt,
	}
}

func (r *roomRepo) CreateRoom(ctx context.Context, room *model.Room) error {
	query := `
		INSERT INTO rooms (landlord_id, room_number, monthly_rent, wifi_fee, electricity_rate_per_kwh, billing_due_day)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + roomColumns
	err := r.db.QueryRow(ctx, query,
		room.LandlordID, room.RoomNumber, room.MonthlyRent, room.WifiFee, room.ElectricityRatePerKwh, room.BillingDueDay,
	).Scan(roomDest(room)...)
	if err != nil {
		return conflictOr(err, "inserting room", "room number already exists")
	}
	return nil
}

func (r *roomRepo) getRoom(ctx context.Context, query string, args ...any) (*model.Room, error) {
	var room model.Room
	if err := r.db.QueryRow(ctx, query, args...).Scan(roomDest(&room)...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch room: %w", err)
	}
	return &room, nil
}

func (r *roomRepo) GetRoomByID(ctx context.Context, id string) (*model.Room, error) {
	return r.getRoom(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id)
}

func (r *roomRepo) GetRoomForUpdate(ctx context.Context, id string) (*model.Room, error) {
	return r.getRoom(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1 FOR UPDATE`, id)
}

func (r *roomRepo) GetRoomByTenant(ctx context.Context, tenantID string) (*model.Room, error) {
	return r.getRoom(ctx, `SELECT `+roomColumns+` FROM rooms WHERE tenant_id = $1`, tenantID)
}

func (r *roomRepo) UpdateRoom(ctx context.Context, room *model.Room) error {
	query := `
		UPDATE rooms
		SET monthly_rent = $2, wifi_fee = $3, electricity_rate_per_kwh = $4, billing_due_day = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + roomColumns
	err := r.db.QueryRow(ctx, query,
		room.ID, room.MonthlyRent, room.WifiFee, room.ElectricityRatePerKwh, room.BillingDueDay,
	).Scan(roomDest(room)...)
	if err != nil {
		if isNoRows(err) {
			return apperr.NotFound("room %s", room.ID)
		}
		return fmt.Errorf("update room %s: %w", room.ID, err)
	}
	return nil
}

func (r *roomRepo) ListRoomsByLandlord(ctx context.Context, landlordID string) ([]model.RoomOverview, error) {
	query := `
		SELECT r.id, r.landlord_id, r.room_number, r.monthly_rent, r.wifi_fee, r.electricity_rate_per_kwh,
		       r.billing_due_day, r.tenant_id, r.created_at, r.updated_at,
		       t.name, t.email,
		       (SELECT COUNT(*) FROM meter_readings m WHERE m.room_id = r.id),
		       (SELECT COUNT(*) FROM billings b WHERE b.room_id = r.id)
		FROM rooms r
		LEFT JOIN users t ON t.id = r.tenant_id
		WHERE r.landlord_id = $1
		ORDER BY r.room_number ASC
	`
	rows, err := r.db.Query(ctx, query, landlordID)
	if err != nil {
		return nil, fmt.Errorf("query rooms for landlord %s: %w", landlordID, err)
	}
	defer rows.Close()

	rooms := []model.RoomOverview{}
	for rows.Next() {
		var ro model.RoomOverview
		dest := append(roomDest(&ro.Room), &ro.TenantName, &ro.TenantEmail, &ro.MeterReadingCount, &ro.BillingCount)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, ro)
	}
	return rooms, rows.Err()
}

func (r *roomRepo) AssignTenant(ctx context.Context, roomID, tenantID string, billingDueDay int) error {
	query := `
		UPDATE rooms
		SET tenant_id = $2, billing_due_day = $3, updated_at = NOW()
		WHERE id = $1 AND tenant_id IS NULL
	`
	tag, err := r.db.Exec(ctx, query, roomID, tenantID, billingDueDay)
	if err != nil {
		return conflictOr(err, "assigning tenant", "tenant already assigned to another room")
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("room already has a tenant")
	}
	return nil
}

func (r *roomRepo) ClearTenant(ctx context.Context, roomID string) error {
	if _, err := r.db.Exec(ctx, `UPDATE rooms SET tenant_id = NULL, updated_at = NOW() WHERE id = $1`, roomID); err != nil {
		return fmt.Errorf("clear tenant of room %s: %w", roomID, err)
	}
	return nil
}
