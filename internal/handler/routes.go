package handler

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups the route handlers registered under /api/v1
type Handlers struct {
	Auth        *AuthHandler
	Transaction *TransactionHandler
	Category    *CategoryHandler
	Budget      *BudgetHandler
	Analytics   *AnalyticsHandler
}

// RegisterRoutes sets up all API routes. Every route runs behind the given
// middleware, in order.
func RegisterRoutes(e *echo.Echo, h Handlers, protected ...echo.MiddlewareFunc) {
	api := e.Group("/api/v1", protected...)

	auth := api.Group("/auth")
	auth.POST("/callback", h.Auth.Callback)
	auth.GET("/me", h.Auth.Me)
	auth.POST("/logout", h.Auth.Logout)

	transactions := api.Group("/transactions")
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.GET("/summary", h.Transaction.GetSummary)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)

	categories := api.Group("/categories")
	categories.POST("", h.Category.CreateCategory)
	categories.GET("", h.Category.GetCategories)
	categories.POST("/defaults", h.Category.SeedDefaults)
	categories.GET("/with-counts", h.Category.GetCategoriesWithCounts)
	categories.GET("/most-used", h.Category.GetMostUsed)
	categories.GET("/:id", h.Category.GetCategory)
	categories.PUT("/:id", h.Category.UpdateCategory)
	categories.DELETE("/:id", h.Category.DeleteCategory)
	categories.PUT("/:id/activate", h.Category.ActivateCategory)
	categories.PUT("/:id/deactivate", h.Category.DeactivateCategory)

	budgets := api.Group("/budgets")
	budgets.POST("", h.Budget.CreateBudget)
	budgets.GET("", h.Budget.GetBudgets)
	budgets.GET("/all", h.Budget.GetAllBudgets)
	budgets.GET("/current", h.Budget.GetCurrentBudgets)
	budgets.GET("/summaries", h.Budget.GetBudgetSummaries)
	budgets.GET("/overview", h.Budget.GetOverview)
	budgets.GET("/:id", h.Budget.GetBudget)
	budgets.GET("/:id/summary", h.Budget.GetBudgetSummary)
	budgets.PUT("/:id", h.Budget.UpdateBudget)
	budgets.DELETE("/:id", h.Budget.DeleteBudget)
	budgets.PUT("/:id/activate", h.Budget.ActivateBudget)
	budgets.PUT("/:id/deactivate", h.Budget.DeactivateBudget)

	analyticsGroup := api.Group("/analytics")
	analyticsGroup.GET("/summary", h.Analytics.GetSummary)
	analyticsGroup.GET("/categories", h.Analytics.GetCategoryAnalysis)
	analyticsGroup.GET("/insights", h.Analytics.GetInsights)
	analyticsGroup.GET("/trend", h.Analytics.GetMonthlyTrend)
	analyticsGroup.GET("/comparison", h.Analytics.GetPeriodComparison)
	analyticsGroup.GET("/category-growth", h.Analytics.GetCategoryGrowth)
	analyticsGroup.GET("/category-trends", h.Analytics.GetCategoryTrends)
	analyticsGroup.GET("/top-categories", h.Analytics.GetTopCategories)
	analyticsGroup.GET("/category-budgets", h.Analytics.GetCategoryBudgets)

	api.GET("/dashboard", h.Analytics.GetDashboard)
}
