package savingplan

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

func TestComputeProgress(t *testing.T) {
	today := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		amount      string
		saved       string
		deadline    time.Time
		frequency   entity.Frequency
		wantPeriods int
		wantPerStep string
		wantDays    int
	}{
		{"monthly rounds periods up", "1000", "100", today.AddDate(0, 0, 61), entity.FrequencyMonthly, 3, "300.00", 61},
		{"weekly", "70", "0", today.AddDate(0, 0, 14), entity.FrequencyWeekly, 2, "35.00", 14},
		{"due today needs one period", "50", "20", today, entity.FrequencyDaily, 1, "30.00", 0},
		{"reached", "50", "80", today.AddDate(0, 1, 0), entity.FrequencyMonthly, 0, "0.00", 31},
		{"overdue", "50", "10", today.AddDate(0, 0, -3), entity.FrequencyMonthly, 0, "0.00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := entity.NewSavingPlan(uuid.New(), "Trip", decimal.RequireFromString(tt.amount), tt.deadline, tt.frequency)
			plan.SavedAmount = decimal.RequireFromString(tt.saved)

			got := ComputeProgress(plan, today)

			assert.Equal(t, tt.wantPeriods, got.RemainingPeriods)
			assert.Equal(t, tt.wantPerStep, got.RequiredPerPeriod.StringFixed(2))
			assert.Equal(t, tt.wantDays, got.DaysRemaining)
		})
	}
}

func TestFormatTimeRemaining(t *testing.T) {
	tests := map[int]string{
		-4:  "0 days",
		1:   "1 day",
		12:  "12 days",
		45:  "1 month",
		95:  "3 months",
		365: "1 year",
		430: "1 year, 2 months",
		800: "2 years, 2 months",
	}

	for days, want := range tests {
		assert.Equal(t, want, FormatTimeRemaining(days), "days=%d", days)
	}
}

func TestPeriodWindow(t *testing.T) {
	today := time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)

	start, end := periodWindow(today, entity.FrequencyMonthly)
	assert.Equal(t, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), end)

	start, end = periodWindow(today, entity.FrequencyDaily)
	assert.Equal(t, today, start)
	assert.Equal(t, today.AddDate(0, 0, 1), end)

	start, end = periodWindow(today, entity.FrequencyYearly)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), end)
}
