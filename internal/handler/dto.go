package handler

import (
	"time"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// money formats an amount with two decimals
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// percent formats a percentage with one decimal
func percent(d decimal.Decimal) string {
	return d.StringFixed(1)
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          int32   `json:"id"`
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Type        string  `json:"type"`
	OccurredAt  string  `json:"occurredAt"`
	Notes       *string `json:"notes"`
	CategoryID  *int32  `json:"categoryId"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// PaginatedTransactionsResponse represents one page of transactions
type PaginatedTransactionsResponse struct {
	Data       []TransactionResponse `json:"data"`
	Page       int32                 `json:"page"`
	PageSize   int32                 `json:"pageSize"`
	TotalItems int64                 `json:"totalItems"`
	TotalPages int32                 `json:"totalPages"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          int32   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ColorCode   string  `json:"colorCode"`
	IsActive    bool    `json:"isActive"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// CategoryUsageResponse is a category with its transaction count
type CategoryUsageResponse struct {
	CategoryResponse
	TransactionCount int64 `json:"transactionCount"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID            int32   `json:"id"`
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	Amount        string  `json:"amount"`
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
	IsActive      bool    `json:"isActive"`
	CategoryID    *int32  `json:"categoryId"`
	IsCurrent     bool    `json:"isCurrent"`
	IsExpired     bool    `json:"isExpired"`
	IsFuture      bool    `json:"isFuture"`
	DaysRemaining int     `json:"daysRemaining"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// BudgetSummaryResponse is a budget with its spending figures
type BudgetSummaryResponse struct {
	Budget                BudgetResponse `json:"budget"`
	SpentAmount           string         `json:"spentAmount"`
	RemainingAmount       string         `json:"remainingAmount"`
	UtilizationPercentage string         `json:"utilizationPercentage"`
	OverBudget            bool           `json:"overBudget"`
}

// BudgetOverviewResponse rolls up the current budgets
type BudgetOverviewResponse struct {
	BudgetCount        int    `json:"budgetCount"`
	TotalBudgeted      string `json:"totalBudgeted"`
	TotalSpent         string `json:"totalSpent"`
	AverageUtilization string `json:"averageUtilization"`
	OverBudgetCount    int    `json:"overBudgetCount"`
}

// FinancialSummaryResponse totals income and expenses
type FinancialSummaryResponse struct {
	TotalIncome   string `json:"totalIncome"`
	TotalExpenses string `json:"totalExpenses"`
	NetWorth      string `json:"netWorth"`
}

// IncomeExpenseSummaryResponse adds ratios and health to the totals
type IncomeExpenseSummaryResponse struct {
	FinancialSummaryResponse
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	SavingsRate  string `json:"savingsRate"`
	ExpenseRatio string `json:"expenseRatio"`
	Health       string `json:"health"`
	HealthLabel  string `json:"healthLabel"`
}

// CategoryExpenseResponse is one row of a category breakdown
type CategoryExpenseResponse struct {
	Name              string `json:"name"`
	ColorCode         string `json:"colorCode"`
	Amount            string `json:"amount"`
	TransactionCount  int64  `json:"transactionCount"`
	PercentageOfTotal string `json:"percentageOfTotal"`
	AverageAmount     string `json:"averageAmount"`
}

// CategoryBreakdownResponse groups expenses by category
type CategoryBreakdownResponse struct {
	Categories        []CategoryExpenseResponse `json:"categories"`
	TotalExpenses     string                    `json:"totalExpenses"`
	TotalTransactions int64                     `json:"totalTransactions"`
}

// MonthlyDataPointResponse is one month of a trend
type MonthlyDataPointResponse struct {
	Month    string `json:"month"`
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Net      string `json:"net"`
}

// PeriodComparisonResponse compares two consecutive periods
type PeriodComparisonResponse struct {
	Months            int                          `json:"months"`
	Current           IncomeExpenseSummaryResponse `json:"current"`
	Previous          IncomeExpenseSummaryResponse `json:"previous"`
	IncomeGrowthRate  string                       `json:"incomeGrowthRate"`
	ExpenseGrowthRate string                       `json:"expenseGrowthRate"`
}

// CategoryGrowthResponse compares category breakdowns of two periods
type CategoryGrowthResponse struct {
	Months          int                       `json:"months"`
	Current         CategoryBreakdownResponse `json:"current"`
	Previous        CategoryBreakdownResponse `json:"previous"`
	TotalGrowthRate string                    `json:"totalGrowthRate"`
}

// CategorySeriesResponse is one category's monthly totals
type CategorySeriesResponse struct {
	Name      string   `json:"name"`
	ColorCode string   `json:"colorCode"`
	Amounts   []string `json:"amounts"`
}

// MonthlyCategoryTrendsResponse aligns category series with month labels
type MonthlyCategoryTrendsResponse struct {
	Months []string                 `json:"months"`
	Series []CategorySeriesResponse `json:"series"`
}

// CategoryBudgetResponse compares a category's spending with its budgets
type CategoryBudgetResponse struct {
	CategoryID        int32  `json:"categoryId"`
	Name              string `json:"name"`
	ColorCode         string `json:"colorCode"`
	ActualSpending    string `json:"actualSpending"`
	BudgetAmount      string `json:"budgetAmount"`
	BudgetUtilization string `json:"budgetUtilization"`
	OverBudget        bool   `json:"overBudget"`
}

// InsightResponse is a single generated observation
type InsightResponse struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// DashboardResponse is the landing-page snapshot
type DashboardResponse struct {
	Summary        IncomeExpenseSummaryResponse `json:"summary"`
	CurrentBudgets []BudgetSummaryResponse      `json:"currentBudgets"`
	BudgetOverview BudgetOverviewResponse       `json:"budgetOverview"`
	TopCategories  []CategoryExpenseResponse    `json:"topCategories"`
	Insights       []InsightResponse            `json:"insights"`
	MonthlyTrend   []MonthlyDataPointResponse   `json:"monthlyTrend"`
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Description: t.Description,
		Amount:      money(t.Amount),
		Type:        string(t.Type),
		OccurredAt:  t.OccurredAt.Format(time.RFC3339),
		Notes:       t.Notes,
		CategoryID:  t.CategoryID,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ColorCode:   c.ColorCode,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
}

func toCategoryResponses(categories []*domain.Category) []CategoryResponse {
	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = toCategoryResponse(c)
	}
	return response
}

func toCategoryUsageResponses(usages []domain.CategoryUsage) []CategoryUsageResponse {
	response := make([]CategoryUsageResponse, len(usages))
	for i, u := range usages {
		response[i] = CategoryUsageResponse{
			CategoryResponse: toCategoryResponse(u.Category),
			TransactionCount: u.TransactionCount,
		}
	}
	return response
}

func toBudgetResponse(b *domain.Budget, today time.Time) BudgetResponse {
	return BudgetResponse{
		ID:            b.ID,
		Name:          b.Name,
		Description:   b.Description,
		Amount:        money(b.Amount),
		StartDate:     b.StartDate.Format(dateLayout),
		EndDate:       b.EndDate.Format(dateLayout),
		IsActive:      b.IsActive,
		CategoryID:    b.CategoryID,
		IsCurrent:     b.IsCurrent(today),
		IsExpired:     b.IsExpired(today),
		IsFuture:      b.IsFuture(today),
		DaysRemaining: b.DaysRemaining(today),
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     b.UpdatedAt.Format(time.RFC3339),
	}
}

func toBudgetResponses(budgets []*domain.Budget, today time.Time) []BudgetResponse {
	response := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		response[i] = toBudgetResponse(b, today)
	}
	return response
}

func toBudgetSummaryResponse(s domain.BudgetSummary, today time.Time) BudgetSummaryResponse {
	return BudgetSummaryResponse{
		Budget:                toBudgetResponse(s.Budget, today),
		SpentAmount:           money(s.SpentAmount),
		RemainingAmount:       money(s.RemainingAmount),
		UtilizationPercentage: percent(s.UtilizationPercentage),
		OverBudget:            s.OverBudget,
	}
}

func toBudgetSummaryResponses(summaries []domain.BudgetSummary, today time.Time) []BudgetSummaryResponse {
	response := make([]BudgetSummaryResponse, len(summaries))
	for i, s := range summaries {
		response[i] = toBudgetSummaryResponse(s, today)
	}
	return response
}

func toBudgetOverviewResponse(o domain.BudgetOverview) BudgetOverviewResponse {
	return BudgetOverviewResponse{
		BudgetCount:        o.BudgetCount,
		TotalBudgeted:      money(o.TotalBudgeted),
		TotalSpent:         money(o.TotalSpent),
		AverageUtilization: percent(o.AverageUtilization),
		OverBudgetCount:    o.OverBudgetCount,
	}
}

func toFinancialSummaryResponse(s domain.FinancialSummary) FinancialSummaryResponse {
	return FinancialSummaryResponse{
		TotalIncome:   money(s.TotalIncome),
		TotalExpenses: money(s.TotalExpenses),
		NetWorth:      money(s.NetWorth),
	}
}

func toIncomeExpenseSummaryResponse(s domain.IncomeExpenseSummary) IncomeExpenseSummaryResponse {
	return IncomeExpenseSummaryResponse{
		FinancialSummaryResponse: toFinancialSummaryResponse(s.FinancialSummary),
		StartDate:                s.StartDate.Format(dateLayout),
		EndDate:                  s.EndDate.Format(dateLayout),
		SavingsRate:              percent(s.SavingsRate),
		ExpenseRatio:             percent(s.ExpenseRatio),
		Health:                   string(s.Health),
		HealthLabel:              s.Health.DisplayName(),
	}
}

func toCategoryExpenseResponses(rows []domain.CategoryExpenseData) []CategoryExpenseResponse {
	response := make([]CategoryExpenseResponse, len(rows))
	for i, r := range rows {
		response[i] = CategoryExpenseResponse{
			Name:              r.Name,
			ColorCode:         r.ColorCode,
			Amount:            money(r.Amount),
			TransactionCount:  r.TransactionCount,
			PercentageOfTotal: percent(r.PercentageOfTotal),
			AverageAmount:     money(r.AverageAmount()),
		}
	}
	return response
}

func toCategoryBreakdownResponse(b domain.CategoryBreakdown) CategoryBreakdownResponse {
	return CategoryBreakdownResponse{
		Categories:        toCategoryExpenseResponses(b.Categories),
		TotalExpenses:     money(b.TotalExpenses),
		TotalTransactions: b.TotalTransactions,
	}
}

func toMonthlyDataPointResponses(points []domain.MonthlyDataPoint) []MonthlyDataPointResponse {
	response := make([]MonthlyDataPointResponse, len(points))
	for i, p := range points {
		response[i] = MonthlyDataPointResponse{
			Month:    p.MonthLabel,
			Income:   money(p.Income),
			Expenses: money(p.Expenses),
			Net:      money(p.Net),
		}
	}
	return response
}

func toPeriodComparisonResponse(p domain.PeriodComparison) PeriodComparisonResponse {
	return PeriodComparisonResponse{
		Months:            p.Months,
		Current:           toIncomeExpenseSummaryResponse(p.Current),
		Previous:          toIncomeExpenseSummaryResponse(p.Previous),
		IncomeGrowthRate:  percent(p.IncomeGrowthRate),
		ExpenseGrowthRate: percent(p.ExpenseGrowthRate),
	}
}

func toCategoryGrowthResponse(g domain.CategoryGrowth) CategoryGrowthResponse {
	return CategoryGrowthResponse{
		Months:          g.Months,
		Current:         toCategoryBreakdownResponse(g.Current),
		Previous:        toCategoryBreakdownResponse(g.Previous),
		TotalGrowthRate: percent(g.TotalGrowthRate),
	}
}

func toMonthlyCategoryTrendsResponse(t domain.MonthlyCategoryTrends) MonthlyCategoryTrendsResponse {
	series := make([]CategorySeriesResponse, len(t.Series))
	for i, s := range t.Series {
		amounts := make([]string, len(s.Amounts))
		for j, a := range s.Amounts {
			amounts[j] = money(a)
		}
		series[i] = CategorySeriesResponse{Name: s.Name, ColorCode: s.ColorCode, Amounts: amounts}
	}
	months := t.MonthLabels
	if months == nil {
		months = []string{}
	}
	return MonthlyCategoryTrendsResponse{Months: months, Series: series}
}

func toCategoryBudgetResponses(rows []domain.CategoryBudgetComparison) []CategoryBudgetResponse {
	response := make([]CategoryBudgetResponse, len(rows))
	for i, r := range rows {
		response[i] = CategoryBudgetResponse{
			CategoryID:        r.CategoryID,
			Name:              r.Name,
			ColorCode:         r.ColorCode,
			ActualSpending:    money(r.ActualSpending),
			BudgetAmount:      money(r.BudgetAmount),
			BudgetUtilization: percent(r.BudgetUtilization),
			OverBudget:        r.OverBudget,
		}
	}
	return response
}

func toInsightResponses(insights []domain.Insight) []InsightResponse {
	response := make([]InsightResponse, len(insights))
	for i, in := range insights {
		response[i] = InsightResponse{Title: in.Title, Message: in.Message, Severity: string(in.Severity)}
	}
	return response
}

func toDashboardResponse(d *domain.Dashboard, today time.Time) DashboardResponse {
	return DashboardResponse{
		Summary:        toIncomeExpenseSummaryResponse(d.Summary),
		CurrentBudgets: toBudgetSummaryResponses(d.CurrentBudgets, today),
		BudgetOverview: toBudgetOverviewResponse(d.BudgetOverview),
		TopCategories:  toCategoryExpenseResponses(d.TopCategories),
		Insights:       toInsightResponses(d.Insights),
		MonthlyTrend:   toMonthlyDataPointResponses(d.MonthlyTrend),
	}
}
