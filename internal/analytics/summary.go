package analytics

import (
	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// SumByType totals the transactions of the given type that fall in window.
// A nil window sums every matching transaction.
func SumByType(txns []*domain.Transaction, txType domain.TransactionType, window *Window) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		if t.Type == txType && window.Contains(t.OccurredAt) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// NetWorth is income minus expenses over window.
func NetWorth(txns []*domain.Transaction, window *Window) decimal.Decimal {
	return Summarize(txns, window).NetWorth
}

// Summarize totals income and expenses over window in a single pass.
func Summarize(txns []*domain.Transaction, window *Window) domain.FinancialSummary {
	income, expenses := decimal.Zero, decimal.Zero
	for _, t := range txns {
		if !window.Contains(t.OccurredAt) {
			continue
		}
		switch t.Type {
		case domain.TransactionTypeIncome:
			income = income.Add(t.Amount)
		case domain.TransactionTypeExpense:
			expenses = expenses.Add(t.Amount)
		}
	}
	return NewFinancialSummary(income, expenses)
}

// NewFinancialSummary builds a summary from precomputed totals.
func NewFinancialSummary(income, expenses decimal.Decimal) domain.FinancialSummary {
	return domain.FinancialSummary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		NetWorth:      income.Sub(expenses),
	}
}

// SummarizeIncomeExpense adds the savings rate, expense ratio and health
// status to a financial summary.
func SummarizeIncomeExpense(summary domain.FinancialSummary, window Window) domain.IncomeExpenseSummary {
	savings := SavingsRate(summary.TotalIncome, summary.TotalExpenses)
	return domain.IncomeExpenseSummary{
		FinancialSummary: summary,
		StartDate:        window.Start,
		EndDate:          window.End,
		SavingsRate:      savings,
		ExpenseRatio:     ExpenseRatio(summary.TotalIncome, summary.TotalExpenses),
		Health:           ClassifyHealth(savings),
	}
}
