package billing

import (
	"github.com/shopspring/decimal"

	"boardinghouse/internal/apperr"
)

// currencyPlaces is the precision amounts are rounded to.
const currencyPlaces = 2

// RoomRates is the pricing configuration of a room.
type RoomRates struct {
	MonthlyRent     decimal.Decimal
	WifiFee         decimal.Decimal
	ElectricityRate decimal.Decimal // per kWh
}

// Charges are the line items of one billing. Total is always derived.
type Charges struct {
	Rent        decimal.Decimal
	Wifi        decimal.Decimal
	Electricity decimal.Decimal
	Total       decimal.Decimal
}

// NewCharges builds charges from the three line items.
func NewCharges(rent, wifi, electricity decimal.Decimal) Charges {
	return Charges{
		Rent:        rent,
		Wifi:        wifi,
		Electricity: electricity,
		Total:       rent.Add(wifi).Add(electricity),
	}
}

// Overrides are the optional amounts a landlord may supply when creating
// a billing by hand. A nil field falls back to the room's configuration.
type Overrides struct {
	Rent        *decimal.Decimal
	Wifi        *decimal.Decimal
	Electricity *decimal.Decimal
}

// CheckPrecision rejects a value with more than two decimal places. Amounts
// and readings are stored as NUMERIC(14,2).
func CheckPrecision(name string, d decimal.Decimal) error {
	if !d.Equal(d.Round(currencyPlaces)) {
		return apperr.Validation("%s %s has more than %d decimal places", name, d, currencyPlaces)
	}
	return nil
}

// Usage returns current - previous, rejecting a meter that went backwards.
func Usage(previous, current decimal.Decimal) (decimal.Decimal, error) {
	if current.IsNegative() {
		return decimal.Zero, apperr.Validation("current reading cannot be negative")
	}
	if err := CheckPrecision("current reading", current); err != nil {
		return decimal.Zero, err
	}
	usage := current.Sub(previous)
	if usage.IsNegative() {
		return decimal.Zero, apperr.Validation("current reading %s cannot be less than previous reading %s", current, previous)
	}
	return usage, nil
}

// ElectricityAmount prices a usage at the room's rate.
func ElectricityAmount(rates RoomRates, usage decimal.Decimal) decimal.Decimal {
	return usage.Mul(rates.ElectricityRate).Round(currencyPlaces)
}

// GenerateCharges computes the billing produced by a meter reading.
func GenerateCharges(rates RoomRates, usage decimal.Decimal) Charges {
	return NewCharges(rates.MonthlyRent, rates.WifiFee, ElectricityAmount(rates, usage))
}

// ManualCharges computes a hand-entered billing. Electricity defaults to 0.
func ManualCharges(rates RoomRates, o Overrides) (Charges, error) {
	rent, wifi, electricity := rates.MonthlyRent, rates.WifiFee, decimal.Zero
	if o.Rent != nil {
		rent = *o.Rent
	}
	if o.Wifi != nil {
		wifi = *o.Wifi
	}
	if o.Electricity != nil {
		electricity = *o.Electricity
	}
	items := []struct {
		name   string
		amount decimal.Decimal
	}{{"rent", rent}, {"wifi", wifi}, {"electricity", electricity}}
	for _, it := range items {
		if it.amount.IsNegative() {
			return Charges{}, apperr.Validation("%s amount cannot be negative", it.name)
		}
		if err := CheckPrecision(it.name+" amount", it.amount); err != nil {
			return Charges{}, err
		}
	}
	return NewCharges(rent, wifi, electricity), nil
}

// Recompute reprices electricity for a new usage. Rent and wifi keep the
// amounts already on the billing.
func Recompute(c Charges, rates RoomRates, usage decimal.Decimal) Charges {
	return NewCharges(c.Rent, c.Wifi, ElectricityAmount(rates, usage))
}
