package billing

import (
	"errors"
	"testing"
	"time"

	"boardinghouse/internal/apperr"
)

func mustMonth(t *testing.T, s string) Month {
	t.Helper()
	m, err := ParseMonth(s)
	if err != nil {
		t.Fatalf("ParseMonth(%q): %v", s, err)
	}
	return m
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDueDateClampsToLastDay(t *testing.T) {
	tests := []struct {
		month  string
		dueDay int
		want   time.Time
	}{
		{"2024-02", 31, day(2024, time.February, 29)},
		{"2023-02", 30, day(2023, time.February, 28)},
		{"2024-04", 31, day(2024, time.April, 30)},
		{"2024-01", 31, day(2024, time.January, 31)},
		{"2024-12", 1, day(2024, time.December, 1)},
	}
	for _, tt := range tests {
		got, err := DueDate(mustMonth(t, tt.month), tt.dueDay)
		if err != nil {
			t.Fatalf("DueDate(%s, %d): %v", tt.month, tt.dueDay, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("DueDate(%s, %d) = %s, want %s", tt.month, tt.dueDay, got, tt.want)
		}
	}
}

func TestDueDateRejectsBadDueDay(t *testing.T) {
	for _, d := range []int{0, 32, -1} {
		if _, err := DueDate(mustMonth(t, "2024-01"), d); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("due day %d: expected validation error, got %v", d, err)
		}
	}
}

func TestCalculateDueDateStatus(t *testing.T) {
	tests := []struct {
		name      string
		month     string
		dueDay    int
		status    Status
		today     time.Time
		wantDays  int
		wantPast  bool
		wantSoon  bool
		wantText  string
		wantColor Color
	}{
		{
			name: "leap year clamp", month: "2024-02", dueDay: 31, status: StatusPending,
			today: day(2024, time.February, 20), wantDays: 9,
			wantText: "Due in 9 days", wantColor: ColorGray,
		},
		{
			name: "overdue", month: "2024-01", dueDay: 5, status: StatusPending,
			today: day(2024, time.January, 10), wantDays: -5, wantPast: true,
			wantText: "Overdue by 5 days", wantColor: ColorRed,
		},
		{
			name: "overdue singular", month: "2024-01", dueDay: 9, status: StatusPending,
			today: day(2024, time.January, 10), wantDays: -1, wantPast: true,
			wantText: "Overdue by 1 day", wantColor: ColorRed,
		},
		{
			name: "due today", month: "2024-01", dueDay: 10, status: StatusPending,
			today: day(2024, time.January, 10), wantDays: 0, wantSoon: true,
			wantText: "Due Today!", wantColor: ColorYellow,
		},
		{
			name: "due tomorrow", month: "2024-01", dueDay: 11, status: StatusPending,
			today: day(2024, time.January, 10), wantDays: 1, wantSoon: true,
			wantText: "Due in 1 day", wantColor: ColorYellow,
		},
		{
			name: "due in three days", month: "2024-01", dueDay: 13, status: StatusPending,
			today: day(2024, time.January, 10), wantDays: 3, wantSoon: true,
			wantText: "Due in 3 days", wantColor: ColorYellow,
		},
		{
			name: "verified wins over overdue", month: "2024-01", dueDay: 5, status: StatusVerified,
			today: day(2024, time.January, 10), wantDays: -5, wantPast: true,
			wantText: "Paid & Verified", wantColor: ColorGreen,
		},
		{
			name: "paid wins over due soon", month: "2024-01", dueDay: 11, status: StatusPaid,
			today: day(2024, time.January, 10), wantDays: 1, wantSoon: true,
			wantText: "Payment Submitted", wantColor: ColorGreen,
		},
		{
			name: "time of day ignored", month: "2024-01", dueDay: 11, status: StatusPending,
			today: time.Date(2024, time.January, 10, 23, 59, 0, 0, time.UTC), wantDays: 1, wantSoon: true,
			wantText: "Due in 1 day", wantColor: ColorYellow,
		},
		{
			name: "previous month due date", month: "2023-12", dueDay: 31, status: StatusPending,
			today: day(2024, time.January, 2), wantDays: -2, wantPast: true,
			wantText: "Overdue by 2 days", wantColor: ColorRed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateDueDateStatus(mustMonth(t, tt.month), tt.dueDay, tt.status, tt.today)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.DaysUntilDue != tt.wantDays {
				t.Errorf("DaysUntilDue = %d, want %d", got.DaysUntilDue, tt.wantDays)
			}
			if got.IsPastDue != tt.wantPast || got.IsDueSoon != tt.wantSoon {
				t.Errorf("past/soon = %v/%v, want %v/%v", got.IsPastDue, got.IsDueSoon, tt.wantPast, tt.wantSoon)
			}
			if got.StatusText != tt.wantText {
				t.Errorf("StatusText = %q, want %q", got.StatusText, tt.wantText)
			}
			if got.StatusColor != tt.wantColor {
				t.Errorf("StatusColor = %q, want %q", got.StatusColor, tt.wantColor)
			}
		})
	}
}

func TestCalculateDueDateStatusLeapDueDate(t *testing.T) {
	got, err := CalculateDueDateStatus(mustMonth(t, "2024-02"), 31, StatusPending, day(2024, time.February, 20))
	if err != nil {
		t.Fatal(err)
	}
	if !got.DueDate.Equal(day(2024, time.February, 29)) {
		t.Errorf("DueDate = %s, want 2024-02-29", got.DueDate)
	}
}
