// Package valueobject contains value objects shared across the domain layer.
package valueobject

import (
	"time"
)

var monthNames = map[time.Month]string{
	time.January:   "January",
	time.February:  "February",
	time.March:     "March",
	time.April:     "April",
	time.May:       "May",
	time.June:      "June",
	time.July:      "July",
	time.August:    "August",
	time.September: "September",
	time.October:   "October",
	time.November:  "November",
	time.December:  "December",
}

// MonthName returns the English name of a month number (1-12).
func MonthName(month int) string {
	if name, ok := monthNames[time.Month(month)]; ok {
		return name
	}
	return ""
}

// DaysInMonth returns the number of days of the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonthsClamped moves t by the given number of months and places it on
// anchorDay, clamped to the length of the target month. The time of day of t
// is preserved.
func AddMonthsClamped(t time.Time, months int, anchorDay int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, months, 0)

	day := anchorDay
	if maxDay := DaysInMonth(target.Year(), target.Month()); day > maxDay {
		day = maxDay
	}
	if day < 1 {
		day = 1
	}

	return time.Date(target.Year(), target.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// AddYearsClamped moves t by the given number of years and places it on the
// anchor month and day. Feb 29 becomes Feb 28 in non-leap years.
func AddYearsClamped(t time.Time, years int, anchorMonth time.Month, anchorDay int) time.Time {
	year := t.Year() + years

	day := anchorDay
	if maxDay := DaysInMonth(year, anchorMonth); day > maxDay {
		day = maxDay
	}

	return time.Date(year, anchorMonth, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// StartOfDay truncates t to midnight in UTC.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthBounds returns the half-open range [start, end) covering a calendar month in UTC.
func MonthBounds(year int, month time.Month) (start, end time.Time) {
	start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end
}

// WeekBounds returns the half-open range [start, end) of the week containing t.
// Weeks start on Monday.
func WeekBounds(t time.Time) (start, end time.Time) {
	day := StartOfDay(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start = day.AddDate(0, 0, -(weekday - 1))
	end = start.AddDate(0, 0, 7)
	return start, end
}

// DayBounds returns the half-open range [start, end) of the day containing t.
func DayBounds(t time.Time) (start, end time.Time) {
	start = StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

// YearBounds returns the half-open range [start, end) of the year containing t.
func YearBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.UTC().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

// DaysBetween returns the number of whole calendar days from "from" to "to".
// The result is negative when "to" is before "from".
func DaysBetween(from, to time.Time) int {
	return int(StartOfDay(to).Sub(StartOfDay(from)).Hours() / 24)
}

// CeilDiv divides a by b rounding up. b must be positive.
func CeilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
