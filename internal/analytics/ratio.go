// Package analytics derives financial figures from transactions and budgets
// that were already loaded from the store. Every function is pure.
package analytics

import (
	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// RatioScale is the number of fractional digits kept on a ratio before it is
// scaled to a percentage.
const RatioScale = 4

// Health thresholds on the savings rate.
var (
	HealthyThreshold = decimal.NewFromInt(20)
	CautionThreshold = decimal.NewFromInt(10)
)

var hundred = decimal.NewFromInt(100)

// Percentage returns part/whole × 100 with the ratio rounded half-up to four
// places. A zero whole yields 0.
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.DivRound(whole, RatioScale).Mul(hundred)
}

// SavingsRate is (income − expenses) / income × 100, or 0 without income.
func SavingsRate(income, expenses decimal.Decimal) decimal.Decimal {
	return Percentage(income.Sub(expenses), income)
}

// ExpenseRatio is expenses / income × 100, or 0 without income.
func ExpenseRatio(income, expenses decimal.Decimal) decimal.Decimal {
	return Percentage(expenses, income)
}

// GrowthRate is (current − previous) / previous × 100, or 0 when previous is 0.
func GrowthRate(current, previous decimal.Decimal) decimal.Decimal {
	return Percentage(current.Sub(previous), previous)
}

// ClassifyHealth maps a savings rate onto a health status.
func ClassifyHealth(savingsRate decimal.Decimal) domain.HealthStatus {
	switch {
	case savingsRate.GreaterThanOrEqual(HealthyThreshold):
		return domain.HealthHealthy
	case savingsRate.GreaterThanOrEqual(CautionThreshold):
		return domain.HealthCaution
	default:
		return domain.HealthCritical
	}
}
