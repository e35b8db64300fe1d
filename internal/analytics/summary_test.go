package analytics

import (
	"testing"
	"time"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func income(amount string, at time.Time) *domain.Transaction {
	return &domain.Transaction{Type: domain.TransactionTypeIncome, Amount: d(amount), OccurredAt: at, Description: "income"}
}

func expense(amount string, at time.Time, categoryID *int32) *domain.Transaction {
	return &domain.Transaction{Type: domain.TransactionTypeExpense, Amount: d(amount), OccurredAt: at, CategoryID: categoryID, Description: "expense"}
}

func catID(id int32) *int32 {
	return &id
}

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 12, 0, 0, 0, time.UTC)
}

func TestSumByType_Empty(t *testing.T) {
	assert.True(t, SumByType(nil, domain.TransactionTypeIncome, nil).IsZero())
	assert.Equal(t, "0", SumByType([]*domain.Transaction{}, domain.TransactionTypeExpense, nil).String())
}

func TestSumByType_FiltersTypeAndWindow(t *testing.T) {
	txns := []*domain.Transaction{
		income("100.00", date(2024, time.January, 5)),
		income("50.00", date(2024, time.January, 20)),
		income("999.00", date(2024, time.February, 1)),
		expense("30.00", date(2024, time.January, 10), nil),
	}
	window := MonthBounds(date(2024, time.January, 1))

	assert.Equal(t, "150.00", SumByType(txns, domain.TransactionTypeIncome, &window).StringFixed(2))
	assert.Equal(t, "1149.00", SumByType(txns, domain.TransactionTypeIncome, nil).StringFixed(2))
	assert.Equal(t, "30.00", SumByType(txns, domain.TransactionTypeExpense, &window).StringFixed(2))
}

func TestSumByType_WindowIsInclusive(t *testing.T) {
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC)
	txns := []*domain.Transaction{
		income("10", start),
		income("20", end),
		income("40", end.Add(time.Second)),
	}

	assert.Equal(t, "30", SumByType(txns, domain.TransactionTypeIncome, &Window{Start: start, End: end}).String())
}

func TestNetWorth_DecimalExact(t *testing.T) {
	now := date(2024, time.May, 10)
	txns := []*domain.Transaction{
		income("100.00", now),
		income("50.00", now),
		expense("30.00", now, nil),
	}

	assert.Equal(t, "120.00", NetWorth(txns, nil).StringFixed(2))

	// 0.1 + 0.2 − 0.3 must be exactly zero
	drift := []*domain.Transaction{
		income("0.10", now),
		income("0.20", now),
		expense("0.30", now, nil),
	}
	assert.True(t, NetWorth(drift, nil).IsZero())
}

func TestSummarizeIncomeExpense(t *testing.T) {
	window := MonthBounds(date(2024, time.June, 1))
	summary := SummarizeIncomeExpense(NewFinancialSummary(d("1000"), d("850")), window)

	assert.Equal(t, "150.00", summary.NetWorth.StringFixed(2))
	assert.Equal(t, "15.0", summary.SavingsRate.StringFixed(1))
	assert.Equal(t, "85.0", summary.ExpenseRatio.StringFixed(1))
	assert.Equal(t, domain.HealthCaution, summary.Health)
	assert.Equal(t, window.Start, summary.StartDate)
}

func TestSummarizeIncomeExpense_NoIncome(t *testing.T) {
	window := MonthBounds(date(2024, time.June, 1))
	summary := SummarizeIncomeExpense(NewFinancialSummary(d("0"), d("200")), window)

	assert.True(t, summary.SavingsRate.IsZero())
	assert.True(t, summary.ExpenseRatio.IsZero())
	assert.Equal(t, domain.HealthCritical, summary.Health)
}
