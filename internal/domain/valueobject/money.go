package valueobject

import (
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of fractional digits kept for every amount.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds an amount to two fractional digits.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyPlaces)
}

// FormatMoney renders an amount with exactly two fractional digits.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyPlaces)
}

// NonNegative returns amount, or zero when amount is negative.
func NonNegative(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// PercentageOf returns round(part / whole * 100) capped at 100.
// A zero whole yields 100 when part is positive and 0 otherwise.
func PercentageOf(part, whole decimal.Decimal) int {
	if !whole.IsPositive() {
		if part.IsPositive() {
			return 100
		}
		return 0
	}

	pct := part.Div(whole).Mul(hundred).Round(0).IntPart()
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return int(pct)
}
