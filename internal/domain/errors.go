package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUserNotFound        = errors.New("user not found")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrDescriptionTooLong  = errors.New("description exceeds maximum length")
	ErrNotesTooLong        = errors.New("notes exceed maximum length")
	ErrInvalidAmount       = errors.New("amount must be greater than 0")
	ErrInvalidAmountScale  = errors.New("amount must have at most 2 decimal places")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrDateRequired        = errors.New("date is required")
	ErrStartAfterEnd       = errors.New("start date cannot be after end date")
	ErrInvalidDateRange    = errors.New("invalid date range")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryExists      = errors.New("category already exists")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrBudgetExists        = errors.New("budget name already exists")
	ErrBudgetOverlap       = errors.New("budget overlaps with existing budget")
)

// Validation constants
const (
	MaxNameLength            = 100
	MaxDescriptionLength     = 500
	MaxTransactionDescLength = 255
	MaxNotesLength           = 500
)

// ValidationError reports which rule rejected an entity. It wraps one of the
// sentinel errors above so callers can match with errors.Is.
type ValidationError struct {
	Field  string
	Err    error
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a ValidationError with a formatted detail message.
func NewValidationError(field string, err error, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:  field,
		Err:    err,
		Detail: fmt.Sprintf(format, args...),
	}
}
