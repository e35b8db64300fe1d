package handler

import (
	"net/http"
	"time"

	"github.com/fintrack/fintrack-backend/internal/analytics"
	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/fintrack/fintrack-backend/internal/middleware"
	"github.com/fintrack/fintrack-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	defaultTrendMonths      = domain.DashboardTrendMonths
	defaultComparisonMonths = 1
	maxTopCategories        = 20
)

// AnalyticsHandler serves the read-only analytics and dashboard endpoints
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
	now              func() time.Time
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		now:              time.Now,
	}
}

// window resolves the owner and the requested range. A nil owner or a bad
// range has already been answered when ok is false.
func (h *AnalyticsHandler) window(c echo.Context) (uuid.UUID, analytics.Window, bool, error) {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return uuid.Nil, analytics.Window{}, false, NewUnauthorizedError(c, "Owner required")
	}

	window, errs := parseWindow(c, h.analyticsService.CurrentMonth())
	if len(errs) > 0 {
		return uuid.Nil, analytics.Window{}, false, NewValidationError(c, "Invalid date range", errs)
	}
	return ownerID, window, true, nil
}

// GetSummary handles GET /api/v1/analytics/summary?startDate&endDate
func (h *AnalyticsHandler) GetSummary(c echo.Context) error {
	ownerID, window, ok, err := h.window(c)
	if !ok {
		return err
	}

	summary, err := h.analyticsService.GetIncomeExpenseSummary(c.Request().Context(), ownerID, window)
	if err != nil {
		return writeServiceError(c, err, "Failed to get income and expense summary")
	}

	return c.JSON(http.StatusOK, toIncomeExpenseSummaryResponse(*summary))
}

// GetCategoryAnalysis handles GET /api/v1/analytics/categories?startDate&endDate
func (h *AnalyticsHandler) GetCategoryAnalysis(c echo.Context) error {
	ownerID, window, ok, err := h.window(c)
	if !ok {
		return err
	}

	breakdown, err := h.analyticsService.GetCategoryAnalysis(c.Request().Context(), ownerID, window)
	if err != nil {
		return writeServiceError(c, err, "Failed to get category analysis")
	}

	return c.JSON(http.StatusOK, toCategoryBreakdownResponse(*breakdown))
}

// GetInsights handles GET /api/v1/analytics/insights?startDate&endDate
func (h *AnalyticsHandler) GetInsights(c echo.Context) error {
	ownerID, window, ok, err := h.window(c)
	if !ok {
		return err
	}

	insights, err := h.analyticsService.GetInsights(c.Request().Context(), ownerID, window)
	if err != nil {
		return writeServiceError(c, err, "Failed to get insights")
	}

	return c.JSON(http.StatusOK, toInsightResponses(insights))
}

// GetTopCategories handles GET /api/v1/analytics/top-categories?limit
func (h *AnalyticsHandler) GetTopCategories(c echo.Context) error {
	ownerID, window, ok, err := h.window(c)
	if !ok {
		return err
	}

	limit := parseLimit(c, service.DefaultTopCategoriesLimit, maxTopCategories)
	top, err := h.analyticsService.GetTopCategories(c.Request().Context(), ownerID, window, limit)
	if err != nil {
		return writeServiceError(c, err, "Failed to get top categories")
	}

	return c.JSON(http.StatusOK, toCategoryExpenseResponses(top))
}

// GetCategoryBudgets handles GET /api/v1/analytics/category-budgets
func (h *AnalyticsHandler) GetCategoryBudgets(c echo.Context) error {
	ownerID, window, ok, err := h.window(c)
	if !ok {
		return err
	}

	rows, err := h.analyticsService.GetCategoryBudgetComparison(c.Request().Context(), ownerID, window)
	if err != nil {
		return writeServiceError(c, err, "Failed to compare categories with budgets")
	}

	return c.JSON(http.StatusOK, toCategoryBudgetResponses(rows))
}

// GetMonthlyTrend handles GET /api/v1/analytics/trend?months
func (h *AnalyticsHandler) GetMonthlyTrend(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	points, err := h.analyticsService.GetMonthlyTrend(c.Request().Context(), ownerID, parseMonths(c, defaultTrendMonths))
	if err != nil {
		return writeServiceError(c, err, "Failed to get monthly trend")
	}

	return c.JSON(http.StatusOK, toMonthlyDataPointResponses(points))
}

// GetPeriodComparison handles GET /api/v1/analytics/comparison?months
func (h *AnalyticsHandler) GetPeriodComparison(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	comparison, err := h.analyticsService.GetPeriodComparison(c.Request().Context(), ownerID, parseMonths(c, defaultComparisonMonths))
	if err != nil {
		return writeServiceError(c, err, "Failed to compare periods")
	}

	return c.JSON(http.StatusOK, toPeriodComparisonResponse(*comparison))
}

// GetCategoryGrowth handles GET /api/v1/analytics/category-growth?months
func (h *AnalyticsHandler) GetCategoryGrowth(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	growth, err := h.analyticsService.GetCategoryGrowth(c.Request().Context(), ownerID, parseMonths(c, defaultComparisonMonths))
	if err != nil {
		return writeServiceError(c, err, "Failed to get category growth")
	}

	return c.JSON(http.StatusOK, toCategoryGrowthResponse(*growth))
}

// GetCategoryTrends handles GET /api/v1/analytics/category-trends?months
func (h *AnalyticsHandler) GetCategoryTrends(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	trends, err := h.analyticsService.GetMonthlyCategoryTrends(c.Request().Context(), ownerID, parseMonths(c, defaultTrendMonths))
	if err != nil {
		return writeServiceError(c, err, "Failed to get category trends")
	}

	return c.JSON(http.StatusOK, toMonthlyCategoryTrendsResponse(*trends))
}

// GetDashboard handles GET /api/v1/dashboard
func (h *AnalyticsHandler) GetDashboard(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	dashboard, err := h.analyticsService.GetDashboard(c.Request().Context(), ownerID)
	if err != nil {
		return writeServiceError(c, err, "Failed to get dashboard")
	}

	return c.JSON(http.StatusOK, toDashboardResponse(dashboard, h.now()))
}
