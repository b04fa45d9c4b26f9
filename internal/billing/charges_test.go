package billing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"boardinghouse/internal/apperr"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

var testRates = RoomRates{
	MonthlyRent:     dec("1500000"),
	WifiFee:         dec("100000"),
	ElectricityRate: dec("1444.70"),
}

func assertTotal(t *testing.T, c Charges) {
	t.Helper()
	if !c.Total.Equal(c.Rent.Add(c.Wifi).Add(c.Electricity)) {
		t.Fatalf("total %s != %s + %s + %s", c.Total, c.Rent, c.Wifi, c.Electricity)
	}
}

func TestUsage(t *testing.T) {
	tests := []struct {
		prev, cur string
		want      string
		wantErr   bool
	}{
		{"0", "120", "120", false},
		{"120", "245.5", "125.5", false},
		{"120", "120", "0", false},
		{"120", "119", "", true},
		{"0", "-1", "", true},
		{"120", "120.50", "0.5", false},
		{"120", "120.005", "", true},
	}
	for _, tt := range tests {
		got, err := Usage(dec(tt.prev), dec(tt.cur))
		if tt.wantErr {
			if !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("Usage(%s, %s): expected validation error, got %v", tt.prev, tt.cur, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Usage(%s, %s): %v", tt.prev, tt.cur, err)
		}
		if !got.Equal(dec(tt.want)) {
			t.Errorf("Usage(%s, %s) = %s, want %s", tt.prev, tt.cur, got, tt.want)
		}
	}
}

func TestGenerateCharges(t *testing.T) {
	c := GenerateCharges(testRates, dec("100"))
	if !c.Electricity.Equal(dec("144470")) {
		t.Errorf("electricity = %s, want 144470", c.Electricity)
	}
	if !c.Rent.Equal(testRates.MonthlyRent) || !c.Wifi.Equal(testRates.WifiFee) {
		t.Errorf("rent/wifi not taken from room: %s/%s", c.Rent, c.Wifi)
	}
	if !c.Total.Equal(dec("1744470")) {
		t.Errorf("total = %s, want 1744470", c.Total)
	}
	assertTotal(t, c)
}

func TestElectricityRoundsToCents(t *testing.T) {
	rates := RoomRates{ElectricityRate: dec("0.333")}
	got := ElectricityAmount(rates, dec("10"))
	if !got.Equal(dec("3.33")) {
		t.Errorf("ElectricityAmount = %s, want 3.33", got)
	}
}

func TestManualCharges(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := ManualCharges(testRates, Overrides{})
		if err != nil {
			t.Fatal(err)
		}
		if !c.Electricity.IsZero() {
			t.Errorf("electricity should default to 0, got %s", c.Electricity)
		}
		if !c.Total.Equal(dec("1600000")) {
			t.Errorf("total = %s, want 1600000", c.Total)
		}
		assertTotal(t, c)
	})
	t.Run("overrides", func(t *testing.T) {
		c, err := ManualCharges(testRates, Overrides{
			Rent:        ptr(dec("1000000")),
			Wifi:        ptr(dec("0")),
			Electricity: ptr(dec("50000")),
		})
		if err != nil {
			t.Fatal(err)
		}
		if !c.Total.Equal(dec("1050000")) {
			t.Errorf("total = %s, want 1050000", c.Total)
		}
		assertTotal(t, c)
	})
	t.Run("sub-cent overrides", func(t *testing.T) {
		tests := []Overrides{
			{Rent: ptr(dec("0.005")), Wifi: ptr(dec("0.005"))},
			{Electricity: ptr(dec("10.001"))},
			{Wifi: ptr(dec("99.999"))},
		}
		for _, o := range tests {
			if _, err := ManualCharges(testRates, o); !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("expected validation error for %+v, got %v", o, err)
			}
		}
	})
	t.Run("trailing zeros accepted", func(t *testing.T) {
		c, err := ManualCharges(testRates, Overrides{Rent: ptr(dec("1000.500")), Wifi: ptr(dec("0.10"))})
		if err != nil {
			t.Fatal(err)
		}
		if !c.Total.Equal(dec("1000.60")) {
			t.Errorf("total = %s, want 1000.60", c.Total)
		}
		assertTotal(t, c)
	})
	t.Run("negative override", func(t *testing.T) {
		_, err := ManualCharges(testRates, Overrides{Wifi: ptr(dec("-1"))})
		if !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestRecomputeKeepsRentAndWifi(t *testing.T) {
	original, err := ManualCharges(testRates, Overrides{Rent: ptr(dec("900000")), Wifi: ptr(dec("50000"))})
	if err != nil {
		t.Fatal(err)
	}
	// the room's rates changed after the billing was created
	newRates := RoomRates{MonthlyRent: dec("2000000"), WifiFee: dec("200000"), ElectricityRate: dec("1000")}

	c := Recompute(original, newRates, dec("15"))
	if !c.Rent.Equal(dec("900000")) || !c.Wifi.Equal(dec("50000")) {
		t.Errorf("rent/wifi changed: %s/%s", c.Rent, c.Wifi)
	}
	if !c.Electricity.Equal(dec("15000")) {
		t.Errorf("electricity = %s, want 15000", c.Electricity)
	}
	assertTotal(t, c)
}
