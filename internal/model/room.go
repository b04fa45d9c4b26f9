package model

import (
	"time"

	"github.com/shopspring/decimal"

	"boardinghouse/internal/billing"
)

// Room is a rentable unit owned by a landlord, with at most one tenant.
type Room struct {
	ID                    string          `db:"id" json:"id"`
	LandlordID            string          `db:"landlord_id" json:"landlord_id"`
	RoomNumber            string          `db:"room_number" json:"room_number"`
	MonthlyRent           decimal.Decimal `db:"monthly_rent" json:"monthly_rent"`
	WifiFee               decimal.Decimal `db:"wifi_fee" json:"wifi_fee"`
	ElectricityRatePerKwh decimal.Decimal `db:"electricity_rate_per_kwh" json:"electricity_rate_per_kwh"`
	BillingDueDay         int             `db:"billing_due_day" json:"billing_due_day"`
	TenantID              *string         `db:"tenant_id" json:"tenant_id,omitempty"`
	CreatedAt             time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time       `db:"updated_at" json:"updated_at"`
}

// Rates returns the pricing the billing rules work with.
func (r *Room) Rates() billing.RoomRates {
	return billing.RoomRates{
		MonthlyRent:     r.MonthlyRent,
		WifiFee:         r.WifiFee,
		ElectricityRate: r.ElectricityRatePerKwh,
	}
}

// HasTenant reports whether a tenant is assigned.
func (r *Room) HasTenant() bool {
	return r.TenantID != nil && *r.TenantID != ""
}

// IsTenant reports whether userID is the room's assigned tenant.
func (r *Room) IsTenant(userID string) bool {
	return r.HasTenant() && *r.TenantID == userID
}

// RoomUpdate holds the optional fields of a room edit.
type RoomUpdate struct {
	MonthlyRent           *decimal.Decimal
	WifiFee               *decimal.Decimal
	ElectricityRatePerKwh *decimal.Decimal
	BillingDueDay         *int
}

// RoomOverview is a room with its tenant and record counts.
type RoomOverview struct {
	Room
	TenantName        *string `db:"tenant_name" json:"tenant_name,omitempty"`
	TenantEmail       *string `db:"tenant_email" json:"tenant_email,omitempty"`
	MeterReadingCount int     `db:"meter_reading_count" json:"meter_reading_count"`
	BillingCount      int     `db:"billing_count" json:"billing_count"`
}
