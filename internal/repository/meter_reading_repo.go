package repository

import (
	"context"
	"fmt"

	"boardinghouse/internal/billing"
	"boardinghouse/internal/model"
)

// MeterReadingRepository defines access to the meter reading ledger.
type MeterReadingRepository interface {
	CreateReading(ctx context.Context, m *model.MeterReading) error
	GetReadingByID(ctx context.Context, id string) (*model.MeterReading, error)
	GetReadingByRoomMonth(ctx context.Context, roomID string, month billing.Month) (*model.MeterReading, error)
	// GetLatestReadingBefore returns the room's most recent reading for a
	// month earlier than month, or nil when there is none.
	GetLatestReadingBefore(ctx context.Context, roomID string, month billing.Month) (*model.MeterReading, error)
	UpdateReading(ctx context.Context, m *model.MeterReading) error
	ListReadingsByRoom(ctx context.Context, roomID string) ([]model.MeterReading, error)
	ListRecentReadingsByLandlord(ctx context.Context, landlordID string, limit int) ([]model.MeterReading, error)
}

type meterReadingRepo struct {
	db DBTX
}

func NewMeterReadingRepo(db DBTX) MeterReadingRepository {
	return &meterReadingRepo{db: db}
}

const readingColumns = `m.id, m.room_id, m.month, m.previous_reading, m.current_reading, m.usage,
	m.meter_photo_url, m.recorded_by, m.created_at, m.updated_at`

func readingDest(m *model.MeterReading) []any {
	return []any{
		&m.ID, &m.RoomID, &m.Month, &m.PreviousReading, &m.CurrentReading, &m.Usage,
		&m.MeterPhotoURL, &m.RecordedByID, &m.CreatedAt, &m.UpdatedAt,
	}
}

func (r *meterReadingRepo) CreateReading(ctx context.Context, m *model.MeterReading) error {
	query := `
		INSERT INTO meter_readings AS m (room_id, month, previous_reading, current_reading, usage, meter_photo_url, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + readingColumns
	err := r.db.QueryRow(ctx, query,
		m.RoomID, m.Month, m.PreviousReading, m.CurrentReading, m.Usage, m.MeterPhotoURL, m.RecordedByID,
	).Scan(readingDest(m)...)
	if err != nil {
		return conflictOr(err, "inserting meter reading", "meter reading for this month already exists")
	}
	return nil
}

func (r *meterReadingRepo) getReading(ctx context.Context, query string, args ...any) (*model.MeterReading, error) {
	var m model.MeterReading
	if err := r.db.QueryRow(ctx, query, args...).Scan(readingDest(&m)...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch meter reading: %w", err)
	}
	return &m, nil
}

func (r *meterReadingRepo) GetReadingByID(ctx context.Context, id string) (*model.MeterReading, error) {
	return r.getReading(ctx, `SELECT `+readingColumns+` FROM meter_readings m WHERE m.id = $1`, id)
}

func (r *meterReadingRepo) GetReadingByRoomMonth(ctx context.Context, roomID string, month billing.Month) (*model.MeterReading, error) {
	return r.getReading(ctx, `SELECT `+readingColumns+` FROM meter_readings m WHERE m.room_id = $1 AND m.month = $2`, roomID, month)
}

func (r *meterReadingRepo) GetLatestReadingBefore(ctx context.Context, roomID string, month billing.Month) (*model.MeterReading, error) {
	query := `
		SELECT ` + readingColumns + `
		FROM meter_readings m
		WHERE m.room_id = $1 AND m.month < $2
		ORDER BY m.month DESC
		LIMIT 1
	`
	return r.getReading(ctx, query, roomID, month)
}

func (r *meterReadingRepo) UpdateReading(ctx context.Context, m *model.MeterReading) error {
	query := `
		UPDATE meter_readings AS m
		SET current_reading = $2, usage = $3, meter_photo_url = $4, updated_at = NOW()
		WHERE m.id = $1
		RETURNING ` + readingColumns
	if err := r.db.QueryRow(ctx, query, m.ID, m.CurrentReading, m.Usage, m.MeterPhotoURL).Scan(readingDest(m)...); err != nil {
		return fmt.Errorf("update meter reading %s: %w", m.ID, err)
	}
	return nil
}

func (r *meterReadingRepo) ListReadingsByRoom(ctx context.Context, roomID string) ([]model.MeterReading, error) {
	query := `
		SELECT ` + readingColumns + `, u.name
		FROM meter_readings m
		JOIN users u ON u.id = m.recorded_by
		WHERE m.room_id = $1
		ORDER BY m.month DESC
	`
	rows, err := r.db.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("query meter readings for room %s: %w", roomID, err)
	}
	defer rows.Close()

	out := []model.MeterReading{}
	for rows.Next() {
		var m model.MeterReading
		if err := rows.Scan(append(readingDest(&m), &m.RecordedByName)...); err != nil {
			return nil, fmt.Errorf("scan meter reading: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *meterReadingRepo) ListRecentReadingsByLandlord(ctx context.Context, landlordID string, limit int) ([]model.MeterReading, error) {
	query := `
		SELECT ` + readingColumns + `, r.room_number, t.name
		FROM meter_readings m
		JOIN rooms r ON r.id = m.room_id
		LEFT JOIN users t ON t.id = r.tenant_id
		WHERE r.landlord_id = $1
		ORDER BY m.created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, landlordID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent meter readings: %w", err)
	}
	defer rows.Close()

	out := []model.MeterReading{}
	for rows.Next() {
		var m model.MeterReading
		if err := rows.Scan(append(readingDest(&m), &m.RoomNumber, &m.TenantName)...); err != nil {
			return nil, fmt.Errorf("scan meter reading: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
