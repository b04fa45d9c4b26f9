package model

import (
	"time"

	"github.com/shopspring/decimal"

	"boardinghouse/internal/billing"
)

// MeterReading is the electricity meter value of a room for one month.
type MeterReading struct {
	ID              string          `db:"id" json:"id"`
	RoomID          string          `db:"room_id" json:"room_id"`
	Month           billing.Month   `db:"month" json:"month"`
	PreviousReading decimal.Decimal `db:"previous_reading" json:"previous_reading"`
	CurrentReading  decimal.Decimal `db:"current_reading" json:"current_reading"`
	Usage           decimal.Decimal `db:"usage" json:"usage"`
	MeterPhotoURL   string          `db:"meter_photo_url" json:"meter_photo_url"`
	RecordedByID    string          `db:"recorded_by" json:"recorded_by"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`

	// Populated by listing queries only.
	RoomNumber     string  `db:"room_number" json:"room_number,omitempty"`
	TenantName     *string `db:"tenant_name" json:"tenant_name,omitempty"`
	RecordedByName string  `db:"recorded_by_name" json:"recorded_by_name,omitempty"`
}
