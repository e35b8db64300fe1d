package domain

// Dashboard sizing
const (
	DashboardTrendMonths   = 6
	DashboardTopCategories = 5
)

// Dashboard is the landing-page snapshot for the current month
type Dashboard struct {
	Summary        IncomeExpenseSummary  `json:"summary"`
	CurrentBudgets []BudgetSummary       `json:"currentBudgets"`
	BudgetOverview BudgetOverview        `json:"budgetOverview"`
	TopCategories  []CategoryExpenseData `json:"topCategories"`
	Insights       []Insight             `json:"insights"`
	MonthlyTrend   []MonthlyDataPoint    `json:"monthlyTrend"`
}
