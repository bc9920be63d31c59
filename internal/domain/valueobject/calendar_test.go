package valueobject

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name      string
		from      time.Time
		months    int
		anchorDay int
		want      time.Time
	}{
		{"jan 31 to leap february", date(2024, 1, 31), 1, 31, date(2024, 2, 29)},
		{"jan 31 to common february", date(2023, 1, 31), 1, 31, date(2023, 2, 28)},
		{"february back to anchor in march", date(2023, 2, 28), 1, 31, date(2023, 3, 31)},
		{"march to april clamps", date(2024, 3, 31), 1, 31, date(2024, 4, 30)},
		{"december rolls year", date(2024, 12, 15), 1, 15, date(2025, 1, 15)},
		{"mid month unchanged", date(2024, 5, 10), 1, 10, date(2024, 6, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddMonthsClamped(tt.from, tt.months, tt.anchorDay)
			if !got.Equal(tt.want) {
				t.Errorf("AddMonthsClamped() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAddMonthsClampedKeepsTimeOfDay(t *testing.T) {
	from := time.Date(2024, 1, 31, 14, 30, 0, 0, time.UTC)
	got := AddMonthsClamped(from, 1, 31)
	want := time.Date(2024, 2, 29, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AddMonthsClamped() = %s, want %s", got, want)
	}
}

func TestAddYearsClamped(t *testing.T) {
	tests := []struct {
		name        string
		from        time.Time
		anchorMonth time.Month
		anchorDay   int
		want        time.Time
	}{
		{"leap day to common year", date(2024, 2, 29), time.February, 29, date(2025, 2, 28)},
		{"common year back to leap day", date(2027, 2, 28), time.February, 29, date(2028, 2, 29)},
		{"regular day", date(2024, 7, 4), time.July, 4, date(2025, 7, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddYearsClamped(tt.from, 1, tt.anchorMonth, tt.anchorDay)
			if !got.Equal(tt.want) {
				t.Errorf("AddYearsClamped() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWeekBoundsStartsOnMonday(t *testing.T) {
	// 2024-06-16 is a Sunday.
	start, end := WeekBounds(date(2024, 6, 16))
	if !start.Equal(date(2024, 6, 10)) {
		t.Errorf("start = %s, want 2024-06-10", start)
	}
	if !end.Equal(date(2024, 6, 17)) {
		t.Errorf("end = %s, want 2024-06-17", end)
	}

	start, _ = WeekBounds(date(2024, 6, 10))
	if !start.Equal(date(2024, 6, 10)) {
		t.Errorf("monday start = %s, want 2024-06-10", start)
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(2024, time.December)
	if !start.Equal(date(2024, 12, 1)) || !end.Equal(date(2025, 1, 1)) {
		t.Errorf("MonthBounds() = [%s, %s)", start, end)
	}
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(from, to); got != 30 {
		t.Errorf("DaysBetween() = %d, want 30", got)
	}
	if got := DaysBetween(to, from); got != -30 {
		t.Errorf("DaysBetween() reversed = %d, want -30", got)
	}
}

func TestCeilDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{0, 30, 0},
		{1, 30, 1},
		{30, 30, 1},
		{31, 30, 2},
		{14, 7, 2},
	}
	for _, tt := range tests {
		if got := CeilDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("CeilDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMonthName(t *testing.T) {
	if MonthName(2) != "February" {
		t.Errorf("MonthName(2) = %q", MonthName(2))
	}
	if MonthName(13) != "" {
		t.Errorf("MonthName(13) = %q, want empty", MonthName(13))
	}
}
