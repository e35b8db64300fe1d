package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fintrack/fintrack-backend/internal/domain"
)

// Rejection rules reported to the metrics recorder
const (
	RuleRequired      = "required"
	RuleDateOrder     = "date_order"
	RuleDuplicateName = "duplicate_name"
	RuleCategory      = "category"
	RuleOverlap       = "overlap"
)

// BudgetValidator checks a candidate budget against the owner's existing data
// before it is written. It never writes.
type BudgetValidator struct {
	budgetRepo   domain.BudgetRepository
	categoryRepo domain.CategoryRepository
	metrics      MetricsRecorder
}

// NewBudgetValidator creates a new BudgetValidator
func NewBudgetValidator(budgetRepo domain.BudgetRepository, categoryRepo domain.CategoryRepository, metrics MetricsRecorder) *BudgetValidator {
	if metrics == nil {
		metrics = NoOpMetrics{}
	}
	return &BudgetValidator{
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
		metrics:      metrics,
	}
}

// Validate runs the checks in order and returns the first failure as a
// *domain.ValidationError. A budget with a zero ID is treated as new; any
// other ID excludes that budget from the uniqueness and overlap checks.
func (v *BudgetValidator) Validate(ctx context.Context, b *domain.Budget) error {
	if err := v.validate(ctx, b); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			v.metrics.BudgetRejected(ruleFor(verr.Err))
		}
		return err
	}
	return nil
}

func (v *BudgetValidator) validate(ctx context.Context, b *domain.Budget) error {
	if err := validateBudgetFields(b); err != nil {
		return err
	}

	if b.StartDate.After(b.EndDate) {
		return domain.NewValidationError("startDate", domain.ErrStartAfterEnd, "Budget start date cannot be after end date")
	}

	var excludeID *int32
	if b.ID != 0 {
		excludeID = &b.ID
	}
	exists, err := v.budgetRepo.ExistsByName(ctx, b.OwnerID, b.Name, excludeID)
	if err != nil {
		return fmt.Errorf("check budget name: %w", err)
	}
	if exists {
		return domain.NewValidationError("name", domain.ErrBudgetExists, "Budget name already exists: %s", b.Name)
	}

	if b.CategoryID != nil {
		if _, err := v.categoryRepo.GetByID(ctx, b.OwnerID, *b.CategoryID); err != nil {
			if errors.Is(err, domain.ErrCategoryNotFound) {
				return domain.NewValidationError("categoryId", domain.ErrCategoryNotFound, "Category not found with id: %d", *b.CategoryID)
			}
			return fmt.Errorf("check budget category: %w", err)
		}
	}

	return v.checkOverlap(ctx, b)
}

// checkOverlap rejects b when it is active and shares a day with another
// active budget of the same owner. Inactive candidates are not checked;
// activation runs the check again. Existing budgets are compared in start
// date order, so the reported conflict is the earliest one.
func (v *BudgetValidator) checkOverlap(ctx context.Context, b *domain.Budget) error {
	if !b.IsActive {
		return nil
	}

	active, err := v.budgetRepo.ListByOwner(ctx, b.OwnerID, true)
	if err != nil {
		return fmt.Errorf("list active budgets: %w", err)
	}

	sorted := make([]*domain.Budget, len(active))
	copy(sorted, active)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].StartDate.Equal(sorted[j].StartDate) {
			return sorted[i].StartDate.Before(sorted[j].StartDate)
		}
		return sorted[i].ID < sorted[j].ID
	})

	for _, existing := range sorted {
		if b.ID != 0 && existing.ID == b.ID {
			continue
		}
		if b.Overlaps(existing) {
			return domain.NewValidationError("dateRange", domain.ErrBudgetOverlap, "Budget overlaps with existing budget: %s", existing.Name)
		}
	}
	return nil
}

// validateBudgetFields normalizes the name and checks required fields and
// lengths.
func validateBudgetFields(b *domain.Budget) error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return domain.NewValidationError("name", domain.ErrNameRequired, "Budget name is required")
	}
	if len([]rune(b.Name)) > domain.MaxNameLength {
		return domain.NewValidationError("name", domain.ErrNameTooLong, "Budget name must be %d characters or less", domain.MaxNameLength)
	}
	if b.Description != nil && len([]rune(*b.Description)) > domain.MaxDescriptionLength {
		return domain.NewValidationError("description", domain.ErrDescriptionTooLong, "Budget description must be %d characters or less", domain.MaxDescriptionLength)
	}
	if !b.Amount.IsPositive() {
		return domain.NewValidationError("amount", domain.ErrInvalidAmount, "Budget amount must be greater than 0")
	}
	if !b.Amount.Equal(b.Amount.Round(2)) {
		return domain.NewValidationError("amount", domain.ErrInvalidAmountScale, "Budget amount must have at most 2 decimal places")
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return domain.NewValidationError("dateRange", domain.ErrDateRequired, "Budget start and end dates are required")
	}
	b.StartDate = domain.DateOnly(b.StartDate)
	b.EndDate = domain.DateOnly(b.EndDate)
	return nil
}

func ruleFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrStartAfterEnd):
		return RuleDateOrder
	case errors.Is(err, domain.ErrBudgetExists):
		return RuleDuplicateName
	case errors.Is(err, domain.ErrCategoryNotFound):
		return RuleCategory
	case errors.Is(err, domain.ErrBudgetOverlap):
		return RuleOverlap
	default:
		return RuleRequired
	}
}
