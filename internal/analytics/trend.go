package analytics

import (
	"sort"
	"time"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	monthLabelLayout      = "January 2006"
	shortMonthLabelLayout = "Jan 2006"
)

// MonthlyTrend computes income, expenses and net for each of the trailing
// months calendar months up to and including the month of now, oldest first.
func MonthlyTrend(txns []*domain.Transaction, now time.Time, months int) []domain.MonthlyDataPoint {
	windows := TrailingMonths(now, months)
	points := make([]domain.MonthlyDataPoint, 0, len(windows))
	for i := range windows {
		s := Summarize(txns, &windows[i])
		points = append(points, domain.MonthlyDataPoint{
			MonthLabel: windows[i].Start.Format(monthLabelLayout),
			MonthStart: windows[i].Start,
			Income:     s.TotalIncome,
			Expenses:   s.TotalExpenses,
			Net:        s.NetWorth,
		})
	}
	return points
}

// ComparePeriods summarizes [now−months, now] against the period of equal
// length before it.
func ComparePeriods(txns []*domain.Transaction, now time.Time, months int) domain.PeriodComparison {
	current, previous := PeriodWindows(now, months)
	cur := SummarizeIncomeExpense(Summarize(txns, &current), current)
	prev := SummarizeIncomeExpense(Summarize(txns, &previous), previous)
	return domain.PeriodComparison{
		Months:            months,
		Current:           cur,
		Previous:          prev,
		IncomeGrowthRate:  GrowthRate(cur.TotalIncome, prev.TotalIncome),
		ExpenseGrowthRate: GrowthRate(cur.TotalExpenses, prev.TotalExpenses),
	}
}

// MonthlyCategoryTrends builds one expense series per category over the
// trailing months. Every series has one entry per label, zero when the
// category had no expenses that month. Series are ordered by total spend
// descending, ties by name.
func MonthlyCategoryTrends(txns []*domain.Transaction, categories map[int32]*domain.Category, now time.Time, months int) domain.MonthlyCategoryTrends {
	windows := TrailingMonths(now, months)
	labels := make([]string, len(windows))
	for i, w := range windows {
		labels[i] = w.Start.Format(shortMonthLabelLayout)
	}

	series := make(map[string]*domain.CategorySeries)
	totals := make(map[string]decimal.Decimal)
	for _, t := range txns {
		if t.Type != domain.TransactionTypeExpense {
			continue
		}
		idx := -1
		for i := range windows {
			if windows[i].Contains(t.OccurredAt) {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}

		name, color := categoryOf(t, categories)
		s, ok := series[name]
		if !ok {
			s = &domain.CategorySeries{Name: name, ColorCode: color, Amounts: zeros(len(windows))}
			series[name] = s
		}
		s.Amounts[idx] = s.Amounts[idx].Add(t.Amount)
		totals[name] = totals[name].Add(t.Amount)
	}

	result := make([]domain.CategorySeries, 0, len(series))
	for _, s := range series {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		ti, tj := totals[result[i].Name], totals[result[j].Name]
		if !ti.Equal(tj) {
			return ti.GreaterThan(tj)
		}
		return result[i].Name < result[j].Name
	})

	return domain.MonthlyCategoryTrends{MonthLabels: labels, Series: result}
}

func zeros(n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = decimal.Zero
	}
	return out
}
