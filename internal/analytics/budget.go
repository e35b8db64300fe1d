package analytics

import (
	"sort"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// BudgetSpent sums the expenses counted against b: every expense inside the
// budget's date range, narrowed to its category when it has one.
func BudgetSpent(b *domain.Budget, txns []*domain.Transaction) decimal.Decimal {
	start, end := b.SpendWindow()
	window := &Window{Start: start, End: end}

	spent := decimal.Zero
	for _, t := range txns {
		if t.Type != domain.TransactionTypeExpense || !window.Contains(t.OccurredAt) {
			continue
		}
		if b.CategoryID != nil && !t.InCategory(*b.CategoryID) {
			continue
		}
		spent = spent.Add(t.Amount)
	}
	return spent
}

// SummarizeBudget derives remaining amount, utilization and the over-budget
// flag from an already computed spend. Remaining may be negative.
func SummarizeBudget(b *domain.Budget, spent decimal.Decimal) domain.BudgetSummary {
	return domain.BudgetSummary{
		Budget:                b,
		SpentAmount:           spent,
		RemainingAmount:       b.Amount.Sub(spent),
		UtilizationPercentage: Percentage(spent, b.Amount),
		OverBudget:            spent.GreaterThan(b.Amount),
	}
}

// EvaluateBudget is SummarizeBudget over the spend found in txns.
func EvaluateBudget(b *domain.Budget, txns []*domain.Transaction) domain.BudgetSummary {
	return SummarizeBudget(b, BudgetSpent(b, txns))
}

// Overview aggregates budget summaries. The average utilization is rounded
// half-up to two places.
func Overview(summaries []domain.BudgetSummary) domain.BudgetOverview {
	overview := domain.BudgetOverview{
		BudgetCount:        len(summaries),
		TotalBudgeted:      decimal.Zero,
		TotalSpent:         decimal.Zero,
		AverageUtilization: decimal.Zero,
	}
	if len(summaries) == 0 {
		return overview
	}

	utilization := decimal.Zero
	for _, s := range summaries {
		overview.TotalBudgeted = overview.TotalBudgeted.Add(s.Budget.Amount)
		overview.TotalSpent = overview.TotalSpent.Add(s.SpentAmount)
		utilization = utilization.Add(s.UtilizationPercentage)
		if s.OverBudget {
			overview.OverBudgetCount++
		}
	}
	overview.AverageUtilization = utilization.DivRound(decimal.NewFromInt(int64(len(summaries))), 2)
	return overview
}

// CompareCategoryBudgets reports, per category, the expenses recorded in
// window against the total of the active budgets for that category whose
// range intersects window. Results are sorted by actual spending descending.
func CompareCategoryBudgets(categories []*domain.Category, txns []*domain.Transaction, budgets []*domain.Budget, window Window) []domain.CategoryBudgetComparison {
	comparisons := make([]domain.CategoryBudgetComparison, 0, len(categories))
	for _, c := range categories {
		actual := decimal.Zero
		for _, t := range txns {
			if t.Type == domain.TransactionTypeExpense && t.InCategory(c.ID) && window.Contains(t.OccurredAt) {
				actual = actual.Add(t.Amount)
			}
		}

		budgeted := decimal.Zero
		for _, b := range budgets {
			if !b.IsActive || b.CategoryID == nil || *b.CategoryID != c.ID {
				continue
			}
			if domain.DateRangesOverlap(b.StartDate, b.EndDate, window.Start, window.End) {
				budgeted = budgeted.Add(b.Amount)
			}
		}

		comparisons = append(comparisons, domain.CategoryBudgetComparison{
			CategoryID:        c.ID,
			Name:              c.Name,
			ColorCode:         c.ColorCode,
			ActualSpending:    actual,
			BudgetAmount:      budgeted,
			BudgetUtilization: Percentage(actual, budgeted),
			OverBudget:        budgeted.IsPositive() && actual.GreaterThan(budgeted),
		})
	}

	sort.SliceStable(comparisons, func(i, j int) bool {
		if !comparisons[i].ActualSpending.Equal(comparisons[j].ActualSpending) {
			return comparisons[i].ActualSpending.GreaterThan(comparisons[j].ActualSpending)
		}
		return comparisons[i].Name < comparisons[j].Name
	})
	return comparisons
}
