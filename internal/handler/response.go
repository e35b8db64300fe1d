package handler

import (
	"errors"
	"net/http"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/fintrack/fintrack-backend/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://fintrack.app/errors/validation"
	ErrorTypeNotFound     = "https://fintrack.app/errors/not-found"
	ErrorTypeUnauthorized = "https://fintrack.app/errors/unauthorized"
	ErrorTypeConflict     = "https://fintrack.app/errors/conflict"
	ErrorTypeInternal     = "https://fintrack.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// writeServiceError maps a service error to a problem response. Duplicate
// names and overlapping budgets are conflicts; other rule failures are
// validation errors carrying the rule's own message. Anything unrecognized
// is logged and reported as internalDetail.
func writeServiceError(c echo.Context, err error, internalDetail string) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		switch {
		case errors.Is(verr, domain.ErrBudgetExists),
			errors.Is(verr, domain.ErrCategoryExists),
			errors.Is(verr, domain.ErrBudgetOverlap):
			return NewConflictError(c, verr.Error())
		}
		return NewValidationError(c, verr.Error(), []ValidationError{
			{Field: verr.Field, Message: verr.Error()},
		})
	}

	switch {
	case errors.Is(err, domain.ErrBudgetNotFound):
		return NewNotFoundError(c, "Budget not found")
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewNotFoundError(c, "Category not found")
	case errors.Is(err, domain.ErrTransactionNotFound):
		return NewNotFoundError(c, "Transaction not found")
	case errors.Is(err, domain.ErrUserNotFound):
		return NewNotFoundError(c, "User not found")
	case errors.Is(err, domain.ErrCategoryExists), errors.Is(err, domain.ErrBudgetExists):
		return NewConflictError(c, err.Error())
	}

	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg(internalDetail)
	return NewInternalError(c, internalDetail)
}

type bindError struct{ err error }

func (e *bindError) Error() string { return e.err.Error() }

// bindAndValidate decodes the request body into req and checks its tags.
// A non-nil result is written with writeRequestError.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return &bindError{err: err}
	}
	return c.Validate(req)
}

// writeRequestError reports a bind or tag validation failure
func writeRequestError(c echo.Context, err error) error {
	var be *bindError
	if errors.As(err, &be) {
		return NewValidationError(c, "Invalid request body", nil)
	}

	fieldErrs := validation.FieldErrors(err)
	if fieldErrs == nil {
		log.Error().Err(err).Msg("Request validation failed")
		return NewInternalError(c, "Request validation failed")
	}
	details := make([]ValidationError, len(fieldErrs))
	for i, fe := range fieldErrs {
		details[i] = ValidationError{Field: fe.Field, Message: fe.Message}
	}
	return NewValidationError(c, "Validation failed", details)
}
