package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0.01", "150.00", "1234567.89", "42"} {
		d := decimal.RequireFromString(s)
		num, err := decimalToPgNumeric(d)
		require.NoError(t, err)
		assert.True(t, d.Equal(pgNumericToDecimal(num)), s)
	}
}

func TestPgNumericToDecimal_Invalid(t *testing.T) {
	assert.True(t, pgNumericToDecimal(pgtype.Numeric{}).IsZero())
}

func TestOptionalConversions(t *testing.T) {
	assert.False(t, stringPtrToPgText(nil).Valid)
	assert.Nil(t, pgTextToStringPtr(pgtype.Text{}))

	s := "note"
	assert.Equal(t, "note", *pgTextToStringPtr(stringPtrToPgText(&s)))

	assert.False(t, int32PtrToPgInt4(nil).Valid)
	assert.Nil(t, pgInt4ToInt32Ptr(pgtype.Int4{}))

	id := int32(7)
	assert.Equal(t, int32(7), *pgInt4ToInt32Ptr(int32PtrToPgInt4(&id)))

	owner := uuid.New()
	assert.Equal(t, owner, pgToUUID(uuidToPg(owner)))
	assert.Equal(t, uuid.Nil, pgToUUID(pgtype.UUID{}))
}

func TestTransactionFilterClause(t *testing.T) {
	owner := uuid.New()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	expense := domain.TransactionTypeExpense
	category := int32(3)

	t.Run("owner only", func(t *testing.T) {
		where, args := transactionFilterClause(owner, nil)
		assert.Equal(t, "owner_id = $1", where)
		assert.Len(t, args, 1)
	})

	t.Run("all filters", func(t *testing.T) {
		where, args := transactionFilterClause(owner, &domain.TransactionFilters{
			StartDate:  &start,
			EndDate:    &end,
			Type:       &expense,
			CategoryID: &category,
		})
		assert.Equal(t, "owner_id = $1 AND occurred_at >= $2 AND occurred_at <= $3 AND type = $4 AND category_id = $5", where)
		require.Len(t, args, 5)
		assert.Equal(t, "EXPENSE", args[3])
		assert.Equal(t, int32(3), args[4])
	})

	t.Run("open start", func(t *testing.T) {
		where, args := transactionFilterClause(owner, &domain.TransactionFilters{EndDate: &end})
		assert.Equal(t, "owner_id = $1 AND occurred_at <= $2", where)
		assert.Len(t, args, 2)
	})
}

func TestMapBudgetError(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		constraint string
		want       error
	}{
		{"unique", pgUniqueViolation, "budgets_owner_name_key", domain.ErrBudgetExists},
		{"exclusion", pgExclusionViolation, "budgets_no_overlap", domain.ErrBudgetOverlap},
		{"foreign key", pgForeignKeyViolation, "budgets_category_fkey", domain.ErrCategoryNotFound},
		{"date order", pgCheckViolation, budgetDateOrderConstraint, domain.ErrStartAfterEnd},
		{"amount", pgCheckViolation, budgetAmountConstraint, domain.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapBudgetError(&pgconn.PgError{Code: tt.code, ConstraintName: tt.constraint})
			assert.ErrorIs(t, err, tt.want)

			var verr *domain.ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}

	other := errors.New("connection reset")
	assert.Equal(t, other, mapBudgetError(other))

	unknownCheck := &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "budgets_something_check"}
	assert.Equal(t, error(unknownCheck), mapBudgetError(unknownCheck))
	assert.NotErrorIs(t, mapBudgetError(unknownCheck), domain.ErrStartAfterEnd)
}

func TestMapCategoryAndTransactionErrors(t *testing.T) {
	assert.ErrorIs(t, mapCategoryError(&pgconn.PgError{Code: pgUniqueViolation}), domain.ErrCategoryExists)
	assert.ErrorIs(t, mapTransactionError(&pgconn.PgError{Code: pgForeignKeyViolation}), domain.ErrCategoryNotFound)
	assert.Equal(t, "", pgErrorCode(errors.New("plain")))
}
