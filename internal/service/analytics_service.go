package service

import (
	"context"
	"time"

	"github.com/fintrack/fintrack-backend/internal/analytics"
	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/google/uuid"
)

// Month range accepted by the trend and comparison operations
const (
	MinAnalyticsMonths = 1
	MaxAnalyticsMonths = 24
)

// DefaultTopCategoriesLimit is used when no positive limit is requested
const DefaultTopCategoriesLimit = 5

// AnalyticsService loads an owner's data and hands it to the aggregation
// engine. It never writes.
type AnalyticsService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	budgetRepo      domain.BudgetRepository
	budgetService   *BudgetService
	metrics         MetricsRecorder
	now             func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(
	transactionRepo domain.TransactionRepository,
	categoryRepo domain.CategoryRepository,
	budgetRepo domain.BudgetRepository,
	budgetService *BudgetService,
	metrics MetricsRecorder,
) *AnalyticsService {
	if metrics == nil {
		metrics = NoOpMetrics{}
	}
	return &AnalyticsService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		budgetRepo:      budgetRepo,
		budgetService:   budgetService,
		metrics:         metrics,
		now:             time.Now,
	}
}

// ClampMonths limits a requested month count to the supported range
func ClampMonths(months int) int {
	if months < MinAnalyticsMonths {
		return MinAnalyticsMonths
	}
	if months > MaxAnalyticsMonths {
		return MaxAnalyticsMonths
	}
	return months
}

// CurrentMonth returns the calendar month containing now
func (s *AnalyticsService) CurrentMonth() analytics.Window {
	return analytics.MonthBounds(s.now())
}

// GetIncomeExpenseSummary totals the window and classifies its health
func (s *AnalyticsService) GetIncomeExpenseSummary(ctx context.Context, ownerID uuid.UUID, window analytics.Window) (*domain.IncomeExpenseSummary, error) {
	defer s.observe("income_expense_summary", time.Now())

	txns, err := s.transactions(ctx, ownerID, window)
	if err != nil {
		return nil, err
	}

	summary := analytics.SummarizeIncomeExpense(analytics.Summarize(txns, &window), window)
	return &summary, nil
}

// GetCategoryAnalysis groups the window's expenses by category
func (s *AnalyticsService) GetCategoryAnalysis(ctx context.Context, ownerID uuid.UUID, window analytics.Window) (*domain.CategoryBreakdown, error) {
	defer s.observe("category_analysis", time.Now())

	breakdown, err := s.breakdown(ctx, ownerID, window)
	if err != nil {
		return nil, err
	}
	return &breakdown, nil
}

// GetInsights derives spending insights from the window's category breakdown
func (s *AnalyticsService) GetInsights(ctx context.Context, ownerID uuid.UUID, window analytics.Window) ([]domain.Insight, error) {
	defer s.observe("insights", time.Now())

	breakdown, err := s.breakdown(ctx, ownerID, window)
	if err != nil {
		return nil, err
	}
	return analytics.Insights(breakdown), nil
}

// GetTopCategories returns the window's largest expense categories
func (s *AnalyticsService) GetTopCategories(ctx context.Context, ownerID uuid.UUID, window analytics.Window, limit int) ([]domain.CategoryExpenseData, error) {
	defer s.observe("top_categories", time.Now())

	if limit <= 0 {
		limit = DefaultTopCategoriesLimit
	}
	breakdown, err := s.breakdown(ctx, ownerID, window)
	if err != nil {
		return nil, err
	}
	return analytics.TopCategories(breakdown, limit), nil
}

// GetMonthlyTrend returns income, expenses and net for the trailing months
func (s *AnalyticsService) GetMonthlyTrend(ctx context.Context, ownerID uuid.UUID, months int) ([]domain.MonthlyDataPoint, error) {
	defer s.observe("monthly_trend", time.Now())

	months = ClampMonths(months)
	now := s.now()
	txns, err := s.transactions(ctx, ownerID, trailingSpan(now, months))
	if err != nil {
		return nil, err
	}
	return analytics.MonthlyTrend(txns, now, months), nil
}

// GetPeriodComparison compares the last months with the months before them
func (s *AnalyticsService) GetPeriodComparison(ctx context.Context, ownerID uuid.UUID, months int) (*domain.PeriodComparison, error) {
	defer s.observe("period_comparison", time.Now())

	months = ClampMonths(months)
	now := s.now()
	current, previous := analytics.PeriodWindows(now, months)
	txns, err := s.transactions(ctx, ownerID, analytics.Window{Start: previous.Start, End: current.End})
	if err != nil {
		return nil, err
	}

	comparison := analytics.ComparePeriods(txns, now, months)
	return &comparison, nil
}

// GetCategoryGrowth compares category spending across two consecutive periods
func (s *AnalyticsService) GetCategoryGrowth(ctx context.Context, ownerID uuid.UUID, months int) (*domain.CategoryGrowth, error) {
	defer s.observe("category_growth", time.Now())

	months = ClampMonths(months)
	current, previous := analytics.PeriodWindows(s.now(), months)
	txns, err := s.transactions(ctx, ownerID, analytics.Window{Start: previous.Start, End: current.End})
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryIndex(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	growth := analytics.CompareCategoryPeriods(txns, categories, current, previous, months)
	return &growth, nil
}

// GetMonthlyCategoryTrends returns one per-month expense series per category
func (s *AnalyticsService) GetMonthlyCategoryTrends(ctx context.Context, ownerID uuid.UUID, months int) (*domain.MonthlyCategoryTrends, error) {
	defer s.observe("category_trends", time.Now())

	months = ClampMonths(months)
	now := s.now()
	txns, err := s.transactions(ctx, ownerID, trailingSpan(now, months))
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryIndex(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	trends := analytics.MonthlyCategoryTrends(txns, categories, now, months)
	return &trends, nil
}

// GetCategoryBudgetComparison compares each active category's spending in the
// window with the active budgets assigned to it
func (s *AnalyticsService) GetCategoryBudgetComparison(ctx context.Context, ownerID uuid.UUID, window analytics.Window) ([]domain.CategoryBudgetComparison, error) {
	defer s.observe("category_budgets", time.Now())

	categories, err := s.categoryRepo.ListByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	budgets, err := s.budgetRepo.ListByOwner(ctx, ownerID, true)
	if err != nil {
		return nil, err
	}
	txns, err := s.transactions(ctx, ownerID, window)
	if err != nil {
		return nil, err
	}

	return analytics.CompareCategoryBudgets(categories, txns, budgets, window), nil
}

// GetDashboard assembles the current-month snapshot
func (s *AnalyticsService) GetDashboard(ctx context.Context, ownerID uuid.UUID) (*domain.Dashboard, error) {
	defer s.observe("dashboard", time.Now())

	now := s.now()
	month := analytics.MonthBounds(now)

	txns, err := s.transactions(ctx, ownerID, trailingSpan(now, domain.DashboardTrendMonths))
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryIndex(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	budgets, err := s.budgetService.GetCurrentBudgetSummaries(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	breakdown := analytics.Breakdown(txns, categories, &month)
	return &domain.Dashboard{
		Summary:        analytics.SummarizeIncomeExpense(analytics.Summarize(txns, &month), month),
		CurrentBudgets: budgets,
		BudgetOverview: analytics.Overview(budgets),
		TopCategories:  analytics.TopCategories(breakdown, domain.DashboardTopCategories),
		Insights:       analytics.Insights(breakdown),
		MonthlyTrend:   analytics.MonthlyTrend(txns, now, domain.DashboardTrendMonths),
	}, nil
}

func (s *AnalyticsService) breakdown(ctx context.Context, ownerID uuid.UUID, window analytics.Window) (domain.CategoryBreakdown, error) {
	txns, err := s.transactions(ctx, ownerID, window)
	if err != nil {
		return domain.CategoryBreakdown{}, err
	}
	categories, err := s.categoryIndex(ctx, ownerID)
	if err != nil {
		return domain.CategoryBreakdown{}, err
	}
	return analytics.Breakdown(txns, categories, &window), nil
}

func (s *AnalyticsService) transactions(ctx context.Context, ownerID uuid.UUID, window analytics.Window) ([]*domain.Transaction, error) {
	return s.transactionRepo.ListInRange(ctx, ownerID, &window.Start, &window.End)
}

// categoryIndex includes inactive categories so historical transactions keep
// their names.
func (s *AnalyticsService) categoryIndex(ctx context.Context, ownerID uuid.UUID) (map[int32]*domain.Category, error) {
	categories, err := s.categoryRepo.ListByOwner(ctx, ownerID, true)
	if err != nil {
		return nil, err
	}
	return analytics.IndexCategories(categories), nil
}

func (s *AnalyticsService) observe(operation string, started time.Time) {
	s.metrics.ObserveAnalytics(operation, time.Since(started))
}

// trailingSpan covers the months calendar months ending with the month of now
func trailingSpan(now time.Time, months int) analytics.Window {
	windows := analytics.TrailingMonths(now, months)
	return analytics.Window{Start: windows[0].Start, End: windows[len(windows)-1].End}
}
