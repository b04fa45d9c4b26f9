package dto

import (
	"github.com/shopspring/decimal"

	"boardinghouse/internal/billing"
)

// MeterReadingCreateDTO records a room's meter for a month
type MeterReadingCreateDTO struct {
	RoomID         string           `json:"room_id" validate:"required,uuid"`
	Month          billing.Month    `json:"month" validate:"required"`
	CurrentReading *decimal.Decimal `json:"current_reading" validate:"required"`
	MeterPhotoURL  string           `json:"meter_photo_url" validate:"required"`
}

// MeterReadingUpdateDTO corrects a recorded reading
type MeterReadingUpdateDTO struct {
	CurrentReading *decimal.Decimal `json:"current_reading" validate:"required"`
	MeterPhotoURL  *string          `json:"meter_photo_url,omitempty" validate:"omitempty,min=1"`
}

// ManualBillingCreateDTO creates a billing without a meter reading.
// Omitted amounts default to the room's rates.
type ManualBillingCreateDTO struct {
	RoomID      string           `json:"room_id" validate:"required,uuid"`
	Month       billing.Month    `json:"month" validate:"required"`
	Rent        *decimal.Decimal `json:"rent_amount,omitempty"`
	Wifi        *decimal.Decimal `json:"wifi_amount,omitempty"`
	Electricity *decimal.Decimal `json:"electricity_amount,omitempty"`
}

// PendingCountDTO is the number of billings awaiting payment
type PendingCountDTO struct {
	Count int `json:"count"`
}

// PaymentProofCreateDTO is a tenant's payment submission
type PaymentProofCreateDTO struct {
	PaymentMethod   string `json:"payment_method" validate:"required,oneof=CASH ONLINE"`
	ReceiptPhotoURL string `json:"receipt_photo_url" validate:"required"`
}
