package billing

import (
	"fmt"
	"time"

	"boardinghouse/internal/apperr"
)

// Color is the badge color a due-date status is rendered with.
type Color string

const (
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
	ColorGray   Color = "gray"
)

// dueSoonDays is the window, in days, in which a billing counts as due soon.
const dueSoonDays = 3

// DueDateStatus describes where a billing stands relative to its due date.
type DueDateStatus struct {
	DueDate      time.Time `json:"due_date"`
	DaysUntilDue int       `json:"days_until_due"`
	IsPastDue    bool      `json:"is_past_due"`
	IsDueSoon    bool      `json:"is_due_soon"`
	StatusText   string    `json:"status_text"`
	StatusColor  Color     `json:"status_color"`
}

// ValidateDueDay checks a room's configured due day.
func ValidateDueDay(dueDay int) error {
	if dueDay < 1 || dueDay > 31 {
		return apperr.Validation("billing due day must be between 1 and 31, got %d", dueDay)
	}
	return nil
}

// DueDate returns the due date of a month. A due day past the end of the
// month falls on the month's last day.
func DueDate(month Month, dueDay int) (time.Time, error) {
	if err := ValidateDueDay(dueDay); err != nil {
		return time.Time{}, err
	}
	if month.IsZero() {
		return time.Time{}, apperr.Validation("billing month is required")
	}
	day := min(dueDay, month.LastDay())
	return time.Date(month.Year(), month.MonthOf(), day, 0, 0, 0, 0, time.UTC), nil
}

// CalculateDueDateStatus derives the due-date status of a billing as seen
// on the calendar day of today. Time of day is ignored.
func CalculateDueDateStatus(month Month, dueDay int, status Status, today time.Time) (DueDateStatus, error) {
	dueDate, err := DueDate(month, dueDay)
	if err != nil {
		return DueDateStatus{}, err
	}
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	daysUntilDue := int(dueDate.Sub(todayDate) / (24 * time.Hour))

	res := DueDateStatus{
		DueDate:      dueDate,
		DaysUntilDue: daysUntilDue,
		IsPastDue:    daysUntilDue < 0,
		IsDueSoon:    daysUntilDue >= 0 && daysUntilDue <= dueSoonDays,
	}

	switch {
	case status == StatusVerified:
		res.StatusText, res.StatusColor = "Paid & Verified", ColorGreen
	case status == StatusPaid:
		res.StatusText, res.StatusColor = "Payment Submitted", ColorGreen
	case res.IsPastDue:
		res.StatusText, res.StatusColor = "Overdue by "+days(-daysUntilDue), ColorRed
	case res.IsDueSoon:
		if daysUntilDue == 0 {
			res.StatusText = "Due Today!"
		} else {
			res.StatusText = "Due in " + days(daysUntilDue)
		}
		res.StatusColor = ColorYellow
	default:
		res.StatusText, res.StatusColor = fmt.Sprintf("Due in %d days", daysUntilDue), ColorGray
	}
	return res, nil
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
