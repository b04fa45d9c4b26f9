package dto

import "github.com/shopspring/decimal"

// RoomCreateDTO is used for incoming room creation requests
type RoomCreateDTO struct {
	RoomNumber            string           `json:"room_number" validate:"required,max=20"`
	MonthlyRent           *decimal.Decimal `json:"monthly_rent" validate:"required"`
	WifiFee               *decimal.Decimal `json:"wifi_fee" validate:"required"`
	ElectricityRatePerKwh *decimal.Decimal `json:"electricity_rate_per_kwh" validate:"required"`
	BillingDueDay         int              `json:"billing_due_day" validate:"required,min=1,max=31"`
}

// RoomUpdateDTO is used for partial room updates
type RoomUpdateDTO struct {
	MonthlyRent           *decimal.Decimal `json:"monthly_rent,omitempty"`
	WifiFee               *decimal.Decimal `json:"wifi_fee,omitempty"`
	ElectricityRatePerKwh *decimal.Decimal `json:"electricity_rate_per_kwh,omitempty"`
	BillingDueDay         *int             `json:"billing_due_day,omitempty" validate:"omitempty,min=1,max=31"`
}
