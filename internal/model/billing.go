package model

import (
	"time"

	"github.com/shopspring/decimal"

	"boardinghouse/internal/billing"
)

// Billing is one month's charge for a room, owed by its tenant.
type Billing struct {
	ID                string          `db:"id" json:"id"`
	RoomID            string          `db:"room_id" json:"room_id"`
	TenantID          string          `db:"tenant_id" json:"tenant_id"`
	Month             billing.Month   `db:"month" json:"month"`
	RentAmount        decimal.Decimal `db:"rent_amount" json:"rent_amount"`
	WifiAmount        decimal.Decimal `db:"wifi_amount" json:"wifi_amount"`
	ElectricityAmount decimal.Decimal `db:"electricity_amount" json:"electricity_amount"`
	TotalAmount       decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status            billing.Status  `db:"status" json:"status"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`

	// Joined room fields, filled by the read queries.
	RoomNumber    string `db:"room_number" json:"room_number,omitempty"`
	BillingDueDay int    `db:"billing_due_day" json:"billing_due_day,omitempty"`
	LandlordID    string `db:"landlord_id" json:"landlord_id,omitempty"`
}

// Charges returns the billing's line items.
func (b *Billing) Charges() billing.Charges {
	return billing.Charges{
		Rent:        b.RentAmount,
		Wifi:        b.WifiAmount,
		Electricity: b.ElectricityAmount,
		Total:       b.TotalAmount,
	}
}

// SetCharges replaces all amounts. The total is taken from the rules
// engine, never edited on its own.
func (b *Billing) SetCharges(c billing.Charges) {
	b.RentAmount = c.Rent
	b.WifiAmount = c.Wifi
	b.ElectricityAmount = c.Electricity
	b.TotalAmount = c.Total
}
