package handler

import (
	"net/http"
	"time"

	"github.com/fintrack/fintrack-backend/internal/middleware"
	"github.com/fintrack/fintrack-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
	now           func() time.Time
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		now:           time.Now,
	}
}

// BudgetRequest is the body of create and update requests
type BudgetRequest struct {
	Name        string              `json:"name" validate:"required,max=100"`
	Description *string             `json:"description,omitempty" validate:"omitempty,max=500"`
	Amount      decimal.NullDecimal `json:"amount" validate:"required"`
	StartDate   string              `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string              `json:"endDate" validate:"required,datetime=2006-01-02"`
	CategoryID  *int32              `json:"categoryId,omitempty" validate:"omitempty,min=1"`
}

// toInput assumes the date tags have already been validated
func (r *BudgetRequest) toInput() service.BudgetInput {
	start, _ := parseDate(r.StartDate)
	end, _ := parseDate(r.EndDate)
	return service.BudgetInput{
		Name:        r.Name,
		Description: r.Description,
		Amount:      r.Amount.Decimal,
		StartDate:   start,
		EndDate:     end,
		CategoryID:  r.CategoryID,
	}
}

// CreateBudget handles POST /api/v1/budgets
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	var req BudgetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeRequestError(c, err)
	}

	budget, err := h.budgetService.CreateBudget(c.Request().Context(), ownerID, req.toInput())
	if err != nil {
		return writeServiceError(c, err, "Failed to create budget")
	}

	log.Info().
		Str("owner_id", ownerID.String()).
		Int32("budget_id", budget.ID).
		Str("name", budget.Name).
		Msg("Budget created")

	return c.JSON(http.StatusCreated, toBudgetResponse(budget, h.now()))
}

// GetBudgets handles GET /api/v1/budgets, listing active budgets
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	return h.list(c, true)
}

// GetAllBudgets handles GET /api/v1/budgets/all, including deactivated ones
func (h *BudgetHandler) GetAllBudgets(c echo.Context) error {
	return h.list(c, false)
}

func (h *BudgetHandler) list(c echo.Context, activeOnly bool) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	budgets, err := h.budgetService.ListBudgets(c.Request().Context(), ownerID, activeOnly)
	if err != nil {
		return writeServiceError(c, err, "Failed to get budgets")
	}

	return c.JSON(http.StatusOK, toBudgetResponses(budgets, h.now()))
}

// GetCurrentBudgets handles GET /api/v1/budgets/current
func (h *BudgetHandler) GetCurrentBudgets(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	budgets, err := h.budgetService.ListCurrentBudgets(c.Request().Context(), ownerID)
	if err != nil {
		return writeServiceError(c, err, "Failed to get current budgets")
	}

	return c.JSON(http.StatusOK, toBudgetResponses(budgets, h.now()))
}

// GetBudget handles GET /api/v1/budgets/:id
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	budget, err := h.budgetService.GetBudget(c.Request().Context(), ownerID, id)
	if err != nil {
		return writeServiceError(c, err, "Failed to get budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget, h.now()))
}

// UpdateBudget handles PUT /api/v1/budgets/:id
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	var req BudgetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeRequestError(c, err)
	}

	budget, err := h.budgetService.UpdateBudget(c.Request().Context(), ownerID, id, req.toInput())
	if err != nil {
		return writeServiceError(c, err, "Failed to update budget")
	}

	log.Info().
		Str("owner_id", ownerID.String()).
		Int32("budget_id", id).
		Msg("Budget updated")

	return c.JSON(http.StatusOK, toBudgetResponse(budget, h.now()))
}

// ActivateBudget handles PUT /api/v1/budgets/:id/activate
func (h *BudgetHandler) ActivateBudget(c echo.Context) error {
	return h.setActive(c, true)
}

// DeactivateBudget handles PUT /api/v1/budgets/:id/deactivate
func (h *BudgetHandler) DeactivateBudget(c echo.Context) error {
	return h.setActive(c, false)
}

func (h *BudgetHandler) setActive(c echo.Context, active bool) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	toggle := h.budgetService.DeactivateBudget
	if active {
		toggle = h.budgetService.ActivateBudget
	}
	budget, err := toggle(c.Request().Context(), ownerID, id)
	if err != nil {
		return writeServiceError(c, err, "Failed to change budget status")
	}

	log.Info().
		Str("owner_id", ownerID.String()).
		Int32("budget_id", id).
		Bool("active", active).
		Msg("Budget status changed")

	return c.JSON(http.StatusOK, toBudgetResponse(budget, h.now()))
}

// DeleteBudget handles DELETE /api/v1/budgets/:id. The budget is
// deactivated, not removed.
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	if err := h.budgetService.DeleteBudget(c.Request().Context(), ownerID, id); err != nil {
		return writeServiceError(c, err, "Failed to delete budget")
	}

	log.Info().
		Str("owner_id", ownerID.String()).
		Int32("budget_id", id).
		Msg("Budget deleted")

	return c.NoContent(http.StatusNoContent)
}

// GetBudgetSummary handles GET /api/v1/budgets/:id/summary
func (h *BudgetHandler) GetBudgetSummary(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	summary, err := h.budgetService.GetBudgetSummary(c.Request().Context(), ownerID, id)
	if err != nil {
		return writeServiceError(c, err, "Failed to get budget summary")
	}

	return c.JSON(http.StatusOK, toBudgetSummaryResponse(*summary, h.now()))
}

// GetBudgetSummaries handles GET /api/v1/budgets/summaries. Pass
// current=true to restrict to budgets covering today.
func (h *BudgetHandler) GetBudgetSummaries(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	summarize := h.budgetService.GetBudgetSummaries
	if parseBool(c, "current") {
		summarize = h.budgetService.GetCurrentBudgetSummaries
	}
	summaries, err := summarize(c.Request().Context(), ownerID)
	if err != nil {
		return writeServiceError(c, err, "Failed to get budget summaries")
	}

	return c.JSON(http.StatusOK, toBudgetSummaryResponses(summaries, h.now()))
}

// GetOverview handles GET /api/v1/budgets/overview
func (h *BudgetHandler) GetOverview(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	overview, err := h.budgetService.GetOverview(c.Request().Context(), ownerID)
	if err != nil {
		return writeServiceError(c, err, "Failed to get budget overview")
	}

	return c.JSON(http.StatusOK, toBudgetOverviewResponse(*overview))
}
