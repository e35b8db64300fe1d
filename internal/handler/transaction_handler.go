package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/fintrack/fintrack-backend/internal/analytics"
	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/fintrack/fintrack-backend/internal/middleware"
	"github.com/fintrack/fintrack-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	now                func() time.Time
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		now:                time.Now,
	}
}

// TransactionRequest is the body of create and update requests. Updates
// replace every field.
type TransactionRequest struct {
	Description string              `json:"description" validate:"required,max=255"`
	Amount      decimal.NullDecimal `json:"amount" validate:"required"`
	Type        string              `json:"type" validate:"required,transaction_type"`
	OccurredAt  string              `json:"occurredAt" validate:"required"`
	Notes       *string             `json:"notes,omitempty" validate:"omitempty,max=500"`
	CategoryID  *int32              `json:"categoryId,omitempty" validate:"omitempty,min=1"`
}

func (r *TransactionRequest) toInput() (service.TransactionInput, *ValidationError) {
	occurredAt, err := parseTimestamp(r.OccurredAt)
	if err != nil {
		return service.TransactionInput{}, &ValidationError{
			Field:   "occurredAt",
			Message: "Must be an RFC 3339 timestamp or a YYYY-MM-DD date",
		}
	}
	return service.TransactionInput{
		Description: r.Description,
		Amount:      r.Amount.Decimal,
		Type:        domain.TransactionType(strings.ToUpper(r.Type)),
		OccurredAt:  occurredAt,
		Notes:       r.Notes,
		CategoryID:  r.CategoryID,
	}, nil
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	var req TransactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeRequestError(c, err)
	}
	input, verr := req.toInput()
	if verr != nil {
		return NewValidationError(c, "Invalid occurredAt", []ValidationError{*verr})
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request().Context(), ownerID, input)
	if err != nil {
		return writeServiceError(c, err, "Failed to create transaction")
	}

	log.Info().
		Str("owner_id", ownerID.String()).
		Int32("transaction_id", transaction.ID).
		Str("type", string(transaction.Type)).
		Msg("Transaction created")

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions handles GET /api/v1/transactions with optional filters
// startDate, endDate, type, categoryId, page and pageSize
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	filters, errs := parseTransactionFilters(c)
	if len(errs) > 0 {
		return NewValidationError(c, "Invalid query parameters", errs)
	}

	result, err := h.transactionService.GetTransactions(c.Request().Context(), ownerID, filters)
	if err != nil {
		return writeServiceError(c, err, "Failed to get transactions")
	}

	data := make([]TransactionResponse, len(result.Data))
	for i, t := range result.Data {
		data[i] = toTransactionResponse(t)
	}

	return c.JSON(http.StatusOK, PaginatedTransactionsResponse{
		Data:       data,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransaction(c.Request().Context(), ownerID, id)
	if err != nil {
		return writeServiceError(c, err, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req TransactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeRequestError(c, err)
	}
	input, verr := req.toInput()
	if verr != nil {
		return NewValidationError(c, "Invalid occurredAt", []ValidationError{*verr})
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request().Context(), ownerID, id, input)
	if err != nil {
		return writeServiceError(c, err, "Failed to update transaction")
	}

	log.Info().
		Str("owner_id", ownerID.String()).
		Int32("transaction_id", id).
		Msg("Transaction updated")

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(c.Request().Context(), ownerID, id); err != nil {
		return writeServiceError(c, err, "Failed to delete transaction")
	}

	log.Info().
		Str("owner_id", ownerID.String()).
		Int32("transaction_id", id).
		Msg("Transaction deleted")

	return c.NoContent(http.StatusNoContent)
}

// GetSummary handles GET /api/v1/transactions/summary. The range defaults
// to the current calendar month.
func (h *TransactionHandler) GetSummary(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	window, errs := parseWindow(c, analytics.MonthBounds(h.now()))
	if len(errs) > 0 {
		return NewValidationError(c, "Invalid date range", errs)
	}

	summary, err := h.transactionService.GetFinancialSummary(c.Request().Context(), ownerID, window.Start, window.End)
	if err != nil {
		return writeServiceError(c, err, "Failed to get financial summary")
	}

	return c.JSON(http.StatusOK, toFinancialSummaryResponse(*summary))
}
