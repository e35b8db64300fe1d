package analytics

import (
	"testing"
	"time"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func budget(name, amount string, start, end time.Time, categoryID *int32) *domain.Budget {
	return &domain.Budget{
		Name:       name,
		Amount:     d(amount),
		StartDate:  domain.DateOnly(start),
		EndDate:    domain.DateOnly(end),
		IsActive:   true,
		CategoryID: categoryID,
	}
}

func TestSummarizeBudget_OverBudget(t *testing.T) {
	b := budget("Groceries", "500", date(2024, time.January, 1), date(2024, time.January, 31), nil)

	summary := SummarizeBudget(b, d("600"))

	assert.Equal(t, "120.0", summary.UtilizationPercentage.StringFixed(1))
	assert.True(t, summary.OverBudget)
	assert.Equal(t, "-100.00", summary.RemainingAmount.StringFixed(2))
	assert.Equal(t, "600.00", summary.SpentAmount.StringFixed(2))
}

func TestSummarizeBudget_ExactlyOnBudgetIsNotOver(t *testing.T) {
	b := budget("Rent", "1200", date(2024, time.January, 1), date(2024, time.January, 31), nil)

	summary := SummarizeBudget(b, d("1200"))

	assert.False(t, summary.OverBudget)
	assert.True(t, summary.RemainingAmount.IsZero())
	assert.Equal(t, "100.0", summary.UtilizationPercentage.StringFixed(1))
}

func TestBudgetSpent_GeneralBudgetCountsAllExpenses(t *testing.T) {
	b := budget("January", "1000", date(2024, time.January, 1), date(2024, time.January, 31), nil)
	txns := []*domain.Transaction{
		expense("100", date(2024, time.January, 3), catID(1)),
		expense("50", date(2024, time.January, 15), nil),
		// Last instant of the end date still counts
		expense("25", time.Date(2024, time.January, 31, 23, 59, 59, 0, time.UTC), catID(2)),
		expense("999", time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), nil),
		income("5000", date(2024, time.January, 10)),
	}

	assert.Equal(t, "175.00", BudgetSpent(b, txns).StringFixed(2))
}

func TestBudgetSpent_CategoryBudgetCountsOnlyItsCategory(t *testing.T) {
	b := budget("Food", "300", date(2024, time.January, 1), date(2024, time.January, 31), catID(1))
	txns := []*domain.Transaction{
		expense("100", date(2024, time.January, 3), catID(1)),
		expense("40", date(2024, time.January, 4), catID(1)),
		expense("50", date(2024, time.January, 15), nil),
		expense("70", date(2024, time.January, 20), catID(2)),
	}

	summary := EvaluateBudget(b, txns)
	assert.Equal(t, "140.00", summary.SpentAmount.StringFixed(2))
	assert.Equal(t, "160.00", summary.RemainingAmount.StringFixed(2))
	assert.False(t, summary.OverBudget)
}

func TestBudgetSpent_NoTransactions(t *testing.T) {
	b := budget("Empty", "100", date(2024, time.January, 1), date(2024, time.January, 31), nil)

	summary := EvaluateBudget(b, nil)
	assert.True(t, summary.SpentAmount.IsZero())
	assert.True(t, summary.UtilizationPercentage.IsZero())
}

func TestOverview(t *testing.T) {
	a := budget("A", "500", date(2024, time.January, 1), date(2024, time.January, 31), nil)
	b := budget("B", "200", date(2024, time.February, 1), date(2024, time.February, 29), nil)

	overview := Overview([]domain.BudgetSummary{
		SummarizeBudget(a, d("600")), // 120%
		SummarizeBudget(b, d("50")),  // 25%
	})

	assert.Equal(t, 2, overview.BudgetCount)
	assert.Equal(t, "700.00", overview.TotalBudgeted.StringFixed(2))
	assert.Equal(t, "650.00", overview.TotalSpent.StringFixed(2))
	assert.Equal(t, "72.50", overview.AverageUtilization.StringFixed(2))
	assert.Equal(t, 1, overview.OverBudgetCount)
}

func TestOverview_Empty(t *testing.T) {
	overview := Overview(nil)

	assert.Equal(t, 0, overview.BudgetCount)
	assert.True(t, overview.TotalBudgeted.IsZero())
	assert.True(t, overview.AverageUtilization.IsZero())
}

func TestCompareCategoryBudgets(t *testing.T) {
	food := &domain.Category{ID: 1, Name: "Food", ColorCode: "#111111"}
	travel := &domain.Category{ID: 2, Name: "Travel", ColorCode: "#222222"}
	window := MonthBounds(date(2024, time.March, 1))

	budgets := []*domain.Budget{
		budget("Food March", "200", date(2024, time.March, 1), date(2024, time.March, 31), catID(1)),
		budget("Old food", "999", date(2023, time.March, 1), date(2023, time.March, 31), catID(1)),
		budget("General", "5000", date(2024, time.March, 1), date(2024, time.March, 31), nil),
	}
	inactive := budget("Inactive food", "100", date(2024, time.March, 1), date(2024, time.March, 31), catID(1))
	inactive.IsActive = false
	budgets = append(budgets, inactive)

	txns := []*domain.Transaction{
		expense("250", date(2024, time.March, 5), catID(1)),
		expense("80", date(2024, time.March, 6), catID(2)),
		expense("80", date(2024, time.April, 6), catID(2)),
	}

	result := CompareCategoryBudgets([]*domain.Category{travel, food}, txns, budgets, window)
	require.Len(t, result, 2)

	assert.Equal(t, "Food", result[0].Name)
	assert.Equal(t, "250.00", result[0].ActualSpending.StringFixed(2))
	assert.Equal(t, "200.00", result[0].BudgetAmount.StringFixed(2))
	assert.Equal(t, "125.0", result[0].BudgetUtilization.StringFixed(1))
	assert.True(t, result[0].OverBudget)

	assert.Equal(t, "Travel", result[1].Name)
	assert.True(t, result[1].BudgetAmount.IsZero())
	assert.True(t, result[1].BudgetUtilization.IsZero())
	assert.False(t, result[1].OverBudget)
}
