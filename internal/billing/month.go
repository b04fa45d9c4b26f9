package billing

import (
	"database/sql/driver"
	"fmt"
	"time"

	"boardinghouse/internal/apperr"
)

const monthLayout = "2006-01"

// Month is a billing period, one calendar month.
type Month struct {
	year  int
	month time.Month
}

// NewMonth builds a Month from its parts.
func NewMonth(year int, month time.Month) Month {
	return Month{year: year, month: month}
}

// ParseMonth parses the YYYY-MM form used in the API and the database.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return Month{}, apperr.Validation("month %q must be formatted as YYYY-MM", s)
	}
	return Month{year: t.Year(), month: t.Month()}, nil
}

func (m Month) Year() int           { return m.year }
func (m Month) MonthOf() time.Month { return m.month }
func (m Month) IsZero() bool        { return m.year == 0 && m.month == 0 }

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.year, int(m.month))
}

// Before reports whether m is an earlier period than other.
func (m Month) Before(other Month) bool {
	if m.year != other.year {
		return m.year < other.year
	}
	return m.month < other.month
}

// LastDay returns the number of days in the month.
func (m Month) LastDay() int {
	return time.Date(m.year, m.month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value stores the month as its YYYY-MM text.
func (m Month) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan reads a YYYY-MM column.
func (m *Month) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return m.UnmarshalText([]byte(v))
	case []byte:
		return m.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into billing.Month", src)
	}
}
