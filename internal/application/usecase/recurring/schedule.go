// Package recurring materializes recurring transaction definitions and
// exposes their use cases.
package recurring

import (
	"time"

	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// NextOccurrence returns the occurrence that follows "from". Monthly and
// yearly schedules stay anchored to the day (and month) of StartsAt, clamped
// to the length of the target month. The time of day of "from" is kept.
func NextOccurrence(def *entity.RecurringTransaction, from time.Time) time.Time {
	anchor := def.StartsAt.UTC()

	switch def.Frequency {
	case entity.FrequencyDaily:
		return from.AddDate(0, 0, 1)
	case entity.FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case entity.FrequencyMonthly:
		return valueobject.AddMonthsClamped(from, 1, anchor.Day())
	case entity.FrequencyYearly:
		return valueobject.AddYearsClamped(from, 1, anchor.Month(), anchor.Day())
	default:
		return from.AddDate(0, 0, 1)
	}
}
