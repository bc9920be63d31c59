package savingplan

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// Progress is the presentation view of a plan at a given day.
type Progress struct {
	PercentageSaved   int
	Remaining         decimal.Decimal
	DaysRemaining     int
	RemainingPeriods  int
	RequiredPerPeriod decimal.Decimal
	TimeRemaining     string
}

// ComputeProgress derives the progress values of a plan as of today.
// It never touches storage.
func ComputeProgress(plan *entity.SavingPlan, today time.Time) Progress {
	remaining := plan.Remaining()
	days := valueobject.DaysBetween(today, plan.CurrentDeadline)

	p := Progress{
		PercentageSaved:   plan.PercentageSaved(),
		Remaining:         remaining,
		DaysRemaining:     max(days, 0),
		RequiredPerPeriod: decimal.Zero,
		TimeRemaining:     FormatTimeRemaining(days),
	}

	if days < 0 || !remaining.IsPositive() {
		return p
	}

	p.RemainingPeriods = remainingPeriods(days, plan.Frequency)
	p.RequiredPerPeriod = valueobject.RoundMoney(remaining.Div(decimal.NewFromInt(int64(p.RemainingPeriods))))
	return p
}

// remainingPeriods is ceil(days / period length), at least 1.
func remainingPeriods(days int, frequency entity.Frequency) int {
	return max(valueobject.CeilDiv(days, frequency.PeriodDays()), 1)
}

// periodWindow returns the calendar period containing today for the frequency.
func periodWindow(today time.Time, frequency entity.Frequency) (start, end time.Time) {
	switch frequency {
	case entity.FrequencyDaily:
		return valueobject.DayBounds(today)
	case entity.FrequencyWeekly:
		return valueobject.WeekBounds(today)
	case entity.FrequencyYearly:
		return valueobject.YearBounds(today)
	default:
		return valueobject.MonthBounds(today.Year(), today.Month())
	}
}

// FormatTimeRemaining renders a day count as "12 days", "3 months" or
// "1 year, 2 months".
func FormatTimeRemaining(days int) string {
	switch {
	case days <= 0:
		return "0 days"
	case days < 30:
		return plural(days, "day")
	case days < 365:
		return plural(days/30, "month")
	}

	years := days / 365
	months := (days % 365) / 30
	if months > 0 {
		return plural(years, "year") + ", " + plural(months, "month")
	}
	return plural(years, "year")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
