package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const budgetColumns = `id, owner_id, name, description, amount, start_date, end_date, is_active, category_id, created_at, updated_at`

// BudgetRepository implements domain.BudgetRepository using PostgreSQL.
// The schema backs the validator with a unique name per owner and an
// exclusion constraint over the date ranges of active budgets.
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

// Create creates a new budget
func (r *BudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO budgets (owner_id, name, description, amount, start_date, end_date, is_active, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+budgetColumns,
		uuidToPg(budget.OwnerID),
		budget.Name,
		stringPtrToPgText(budget.Description),
		amount,
		pgtype.Date{Time: budget.StartDate, Valid: true},
		pgtype.Date{Time: budget.EndDate, Valid: true},
		budget.IsActive,
		int32PtrToPgInt4(budget.CategoryID),
	)
	created, err := scanBudget(row)
	if err != nil {
		return nil, mapBudgetError(err)
	}
	return created, nil
}

// GetByID retrieves a budget by its ID within an owner's data
func (r *BudgetRepository) GetByID(ctx context.Context, ownerID uuid.UUID, id int32) (*domain.Budget, error) {
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE owner_id = $1 AND id = $2`,
		uuidToPg(ownerID), id)
	return scanBudget(row)
}

// Update replaces the editable fields of a budget
func (r *BudgetRepository) Update(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE budgets
		SET name = $3, description = $4, amount = $5, start_date = $6,
		    end_date = $7, category_id = $8, updated_at = NOW()
		WHERE owner_id = $1 AND id = $2
		RETURNING `+budgetColumns,
		uuidToPg(budget.OwnerID),
		budget.ID,
		budget.Name,
		stringPtrToPgText(budget.Description),
		amount,
		pgtype.Date{Time: budget.StartDate, Valid: true},
		pgtype.Date{Time: budget.EndDate, Valid: true},
		int32PtrToPgInt4(budget.CategoryID),
	)
	updated, err := scanBudget(row)
	if err != nil {
		return nil, mapBudgetError(err)
	}
	return updated, nil
}

// SetActive flips the active flag of a budget
func (r *BudgetRepository) SetActive(ctx context.Context, ownerID uuid.UUID, id int32, active bool) (*domain.Budget, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE budgets
		SET is_active = $3, updated_at = NOW()
		WHERE owner_id = $1 AND id = $2
		RETURNING `+budgetColumns,
		uuidToPg(ownerID), id, active)
	b, err := scanBudget(row)
	if err != nil {
		return nil, mapBudgetError(err)
	}
	return b, nil
}

// ListByOwner retrieves the owner's budgets, newest start date first
func (r *BudgetRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, activeOnly bool) ([]*domain.Budget, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE owner_id = $1 AND (NOT $2 OR is_active)
		ORDER BY start_date DESC, id DESC`,
		uuidToPg(ownerID), activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// ExistsByName reports whether another of the owner's budgets uses name
func (r *BudgetRepository) ExistsByName(ctx context.Context, ownerID uuid.UUID, name string, excludeID *int32) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM budgets
			WHERE owner_id = $1 AND name = $2 AND ($3::INT IS NULL OR id <> $3)
		)`,
		uuidToPg(ownerID), name, int32PtrToPgInt4(excludeID),
	).Scan(&exists)
	return exists, err
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		b           domain.Budget
		ownerID     pgtype.UUID
		description pgtype.Text
		amount      pgtype.Numeric
		startDate   pgtype.Date
		endDate     pgtype.Date
		categoryID  pgtype.Int4
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)
	err := row.Scan(&b.ID, &ownerID, &b.Name, &description, &amount, &startDate, &endDate,
		&b.IsActive, &categoryID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	b.OwnerID = pgToUUID(ownerID)
	b.Description = pgTextToStringPtr(description)
	b.Amount = pgNumericToDecimal(amount)
	b.StartDate = domain.DateOnly(startDate.Time)
	b.EndDate = domain.DateOnly(endDate.Time)
	b.CategoryID = pgInt4ToInt32Ptr(categoryID)
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return &b, nil
}

// Check constraints on budgets, named in the initial migration
const (
	budgetDateOrderConstraint = "budgets_date_order"
	budgetAmountConstraint    = "budgets_amount_check"
)

// mapBudgetError translates constraint violations that slipped past the
// validator into the errors it would have returned.
func mapBudgetError(err error) error {
	switch pgErrorCode(err) {
	case pgUniqueViolation:
		return domain.NewValidationError("name", domain.ErrBudgetExists, "Budget name already exists")
	case pgExclusionViolation:
		return domain.NewValidationError("dateRange", domain.ErrBudgetOverlap, "Budget overlaps with an existing budget")
	case pgForeignKeyViolation:
		return domain.NewValidationError("categoryId", domain.ErrCategoryNotFound, "Category not found")
	case pgCheckViolation:
		switch pgConstraintName(err) {
		case budgetDateOrderConstraint:
			return domain.NewValidationError("dateRange", domain.ErrStartAfterEnd, "Budget start date cannot be after end date")
		case budgetAmountConstraint:
			return domain.NewValidationError("amount", domain.ErrInvalidAmount, "Budget amount must be greater than 0")
		}
	}
	return err
}
