package analytics

import (
	"sort"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// categoryOf resolves a transaction's display name and color. Transactions
// without a resolvable category land in the Uncategorized bucket.
func categoryOf(t *domain.Transaction, categories map[int32]*domain.Category) (string, string) {
	if t.CategoryID != nil {
		if c, ok := categories[*t.CategoryID]; ok {
			return c.Name, c.ColorCode
		}
	}
	return domain.UncategorizedLabel, domain.UncategorizedColor
}

// Breakdown groups the expenses in window by category name. Each group's
// share of the total is rounded half-up at four places on the ratio. Groups
// are sorted by amount descending, ties by name ascending.
func Breakdown(txns []*domain.Transaction, categories map[int32]*domain.Category, window *Window) domain.CategoryBreakdown {
	groups := make(map[string]*domain.CategoryExpenseData)
	total := decimal.Zero
	var count int64

	for _, t := range txns {
		if t.Type != domain.TransactionTypeExpense || !window.Contains(t.OccurredAt) {
			continue
		}
		name, color := categoryOf(t, categories)
		g, ok := groups[name]
		if !ok {
			g = &domain.CategoryExpenseData{Name: name, ColorCode: color, Amount: decimal.Zero}
			groups[name] = g
		}
		g.Amount = g.Amount.Add(t.Amount)
		g.TransactionCount++
		total = total.Add(t.Amount)
		count++
	}

	result := make([]domain.CategoryExpenseData, 0, len(groups))
	for _, g := range groups {
		g.PercentageOfTotal = Percentage(g.Amount, total)
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Amount.Equal(result[j].Amount) {
			return result[i].Amount.GreaterThan(result[j].Amount)
		}
		return result[i].Name < result[j].Name
	})

	return domain.CategoryBreakdown{
		Categories:        result,
		TotalExpenses:     total,
		TotalTransactions: count,
	}
}

// TopCategories returns at most limit leading entries of a breakdown.
func TopCategories(breakdown domain.CategoryBreakdown, limit int) []domain.CategoryExpenseData {
	if limit < 0 {
		limit = 0
	}
	if limit > len(breakdown.Categories) {
		limit = len(breakdown.Categories)
	}
	top := make([]domain.CategoryExpenseData, limit)
	copy(top, breakdown.Categories[:limit])
	return top
}

// CompareCategoryPeriods breaks down both periods and the growth of their
// expense totals. Use PeriodWindows to build the windows.
func CompareCategoryPeriods(txns []*domain.Transaction, categories map[int32]*domain.Category, current, previous Window, months int) domain.CategoryGrowth {
	cur := Breakdown(txns, categories, &current)
	prev := Breakdown(txns, categories, &previous)
	return domain.CategoryGrowth{
		Months:          months,
		Current:         cur,
		Previous:        prev,
		TotalGrowthRate: GrowthRate(cur.TotalExpenses, prev.TotalExpenses),
	}
}

// IndexCategories keys categories by ID for lookups during aggregation.
func IndexCategories(categories []*domain.Category) map[int32]*domain.Category {
	index := make(map[int32]*domain.Category, len(categories))
	for _, c := range categories {
		index[c.ID] = c
	}
	return index
}
