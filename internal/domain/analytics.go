package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialSummary totals income and expenses over a window.
type FinancialSummary struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetWorth      decimal.Decimal `json:"netWorth"`
}

type HealthStatus string

const (
	HealthHealthy  HealthStatus = "HEALTHY"
	HealthCaution  HealthStatus = "CAUTION"
	HealthCritical HealthStatus = "CRITICAL"
)

// DisplayName returns the human readable label of the status.
func (h HealthStatus) DisplayName() string {
	switch h {
	case HealthHealthy:
		return "Healthy"
	case HealthCaution:
		return "Caution"
	case HealthCritical:
		return "Critical"
	}
	return string(h)
}

// IncomeExpenseSummary extends FinancialSummary with the derived ratios.
type IncomeExpenseSummary struct {
	FinancialSummary
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
	SavingsRate  decimal.Decimal `json:"savingsRate"`
	ExpenseRatio decimal.Decimal `json:"expenseRatio"`
	Health       HealthStatus    `json:"health"`
}

type BudgetSummary struct {
	Budget                *Budget         `json:"budget"`
	SpentAmount           decimal.Decimal `json:"spentAmount"`
	RemainingAmount       decimal.Decimal `json:"remainingAmount"`
	UtilizationPercentage decimal.Decimal `json:"utilizationPercentage"`
	OverBudget            bool            `json:"overBudget"`
}

// BudgetOverview rolls a set of budget summaries into page-level stats.
type BudgetOverview struct {
	BudgetCount        int             `json:"budgetCount"`
	TotalBudgeted      decimal.Decimal `json:"totalBudgeted"`
	TotalSpent         decimal.Decimal `json:"totalSpent"`
	AverageUtilization decimal.Decimal `json:"averageUtilization"`
	OverBudgetCount    int             `json:"overBudgetCount"`
}

type CategoryExpenseData struct {
	Name              string          `json:"name"`
	ColorCode         string          `json:"colorCode"`
	Amount            decimal.Decimal `json:"amount"`
	TransactionCount  int64           `json:"transactionCount"`
	PercentageOfTotal decimal.Decimal `json:"percentageOfTotal"`
}

// AverageAmount is the mean transaction amount, rounded to cents.
func (c CategoryExpenseData) AverageAmount() decimal.Decimal {
	if c.TransactionCount == 0 {
		return decimal.Zero
	}
	return c.Amount.DivRound(decimal.NewFromInt(c.TransactionCount), 2)
}

// IsUncategorized reports whether this is the synthetic bucket.
func (c CategoryExpenseData) IsUncategorized() bool {
	return c.Name == UncategorizedLabel
}

// CategoryBreakdown is the category grouping of a set of expenses, sorted by
// amount descending.
type CategoryBreakdown struct {
	Categories        []CategoryExpenseData `json:"categories"`
	TotalExpenses     decimal.Decimal       `json:"totalExpenses"`
	TotalTransactions int64                 `json:"totalTransactions"`
}

// IsEmpty reports whether the breakdown holds no expense data.
func (b CategoryBreakdown) IsEmpty() bool {
	return len(b.Categories) == 0
}

type MonthlyDataPoint struct {
	MonthLabel string          `json:"monthLabel"`
	MonthStart time.Time       `json:"monthStart"`
	Income     decimal.Decimal `json:"income"`
	Expenses   decimal.Decimal `json:"expenses"`
	Net        decimal.Decimal `json:"net"`
}

type PeriodComparison struct {
	Months            int                  `json:"months"`
	Current           IncomeExpenseSummary `json:"current"`
	Previous          IncomeExpenseSummary `json:"previous"`
	IncomeGrowthRate  decimal.Decimal      `json:"incomeGrowthRate"`
	ExpenseGrowthRate decimal.Decimal      `json:"expenseGrowthRate"`
}

// CategoryGrowth compares category breakdowns of two consecutive periods.
type CategoryGrowth struct {
	Months          int               `json:"months"`
	Current         CategoryBreakdown `json:"current"`
	Previous        CategoryBreakdown `json:"previous"`
	TotalGrowthRate decimal.Decimal   `json:"totalGrowthRate"`
}

// CategorySeries is one category's per-month expense totals.
type CategorySeries struct {
	Name      string            `json:"name"`
	ColorCode string            `json:"colorCode"`
	Amounts   []decimal.Decimal `json:"amounts"`
}

// MonthlyCategoryTrends aligns each category series with MonthLabels.
type MonthlyCategoryTrends struct {
	MonthLabels []string         `json:"monthLabels"`
	Series      []CategorySeries `json:"series"`
}

type CategoryBudgetComparison struct {
	CategoryID        int32           `json:"categoryId"`
	Name              string          `json:"name"`
	ColorCode         string          `json:"colorCode"`
	ActualSpending    decimal.Decimal `json:"actualSpending"`
	BudgetAmount      decimal.Decimal `json:"budgetAmount"`
	BudgetUtilization decimal.Decimal `json:"budgetUtilization"`
	OverBudget        bool            `json:"overBudget"`
}

type InsightSeverity string

const (
	SeverityInfo    InsightSeverity = "info"
	SeverityWarning InsightSeverity = "warning"
	SeveritySuccess InsightSeverity = "success"
)

type Insight struct {
	Title    string          `json:"title"`
	Message  string          `json:"message"`
	Severity InsightSeverity `json:"severity"`
}
