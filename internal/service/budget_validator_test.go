package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/fintrack/fintrack-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatorFixture struct {
	validator    *BudgetValidator
	budgetRepo   *testutil.MockBudgetRepository
	categoryRepo *testutil.MockCategoryRepository
	metrics      *recordingMetrics
	ownerID      uuid.UUID
}

func newValidatorFixture() *validatorFixture {
	budgetRepo := testutil.NewMockBudgetRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	metrics := &recordingMetrics{}
	return &validatorFixture{
		validator:    NewBudgetValidator(budgetRepo, categoryRepo, metrics),
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
		metrics:      metrics,
		ownerID:      uuid.New(),
	}
}

func (f *validatorFixture) candidate(name string, start, end time.Time) *domain.Budget {
	return &domain.Budget{
		OwnerID:   f.ownerID,
		Name:      name,
		Amount:    dec("300"),
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
	}
}

func requireValidationError(t *testing.T, err error, sentinel error) *domain.ValidationError {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel), "expected %v, got %v", sentinel, err)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	return verr
}

func TestBudgetValidator_RequiredFields(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(b *domain.Budget)
		sentinel error
		detail   string
	}{
		{"blank name", func(b *domain.Budget) { b.Name = "   " }, domain.ErrNameRequired, "Budget name is required"},
		{"name too long", func(b *domain.Budget) { b.Name = strings.Repeat("x", 101) }, domain.ErrNameTooLong, "Budget name must be 100 characters or less"},
		{"zero amount", func(b *domain.Budget) { b.Amount = dec("0") }, domain.ErrInvalidAmount, "Budget amount must be greater than 0"},
		{"negative amount", func(b *domain.Budget) { b.Amount = dec("-5") }, domain.ErrInvalidAmount, "Budget amount must be greater than 0"},
		{"sub-cent amount", func(b *domain.Budget) { b.Amount = dec("0.004") }, domain.ErrInvalidAmountScale, "Budget amount must have at most 2 decimal places"},
		{"three decimal places", func(b *domain.Budget) { b.Amount = dec("100.005") }, domain.ErrInvalidAmountScale, "Budget amount must have at most 2 decimal places"},
		{"missing start", func(b *domain.Budget) { b.StartDate = time.Time{} }, domain.ErrDateRequired, "Budget start and end dates are required"},
		{"missing end", func(b *domain.Budget) { b.EndDate = time.Time{} }, domain.ErrDateRequired, "Budget start and end dates are required"},
		{"description too long", func(b *domain.Budget) { b.Description = strPtr(strings.Repeat("d", 501)) }, domain.ErrDescriptionTooLong, "Budget description must be 500 characters or less"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newValidatorFixture()
			b := f.candidate("Groceries", day(2024, time.January, 1), day(2024, time.January, 31))
			tt.mutate(b)

			verr := requireValidationError(t, f.validator.Validate(context.Background(), b), tt.sentinel)
			assert.Equal(t, tt.detail, verr.Error())
			assert.Equal(t, []string{RuleRequired}, f.metrics.rejections)
		})
	}
}

func TestBudgetValidator_StartAfterEnd(t *testing.T) {
	f := newValidatorFixture()
	b := f.candidate("Groceries", day(2024, time.February, 1), day(2024, time.January, 1))

	verr := requireValidationError(t, f.validator.Validate(context.Background(), b), domain.ErrStartAfterEnd)

	assert.Equal(t, "Budget start date cannot be after end date", verr.Error())
	assert.Equal(t, []string{RuleDateOrder}, f.metrics.rejections)
}

func TestBudgetValidator_SingleDayBudget(t *testing.T) {
	f := newValidatorFixture()
	b := f.candidate("One day", day(2024, time.March, 3), day(2024, time.March, 3))

	assert.NoError(t, f.validator.Validate(context.Background(), b))
}

func TestBudgetValidator_DuplicateName(t *testing.T) {
	f := newValidatorFixture()
	f.budgetRepo.AddBudget(activeBudget(1, f.ownerID, "Groceries", day(2023, time.January, 1), day(2023, time.January, 31)))

	b := f.candidate("Groceries", day(2024, time.January, 1), day(2024, time.January, 31))
	verr := requireValidationError(t, f.validator.Validate(context.Background(), b), domain.ErrBudgetExists)

	assert.Equal(t, "Budget name already exists: Groceries", verr.Error())
	assert.Equal(t, []string{RuleDuplicateName}, f.metrics.rejections)
}

func TestBudgetValidator_DuplicateNameIsCaseSensitive(t *testing.T) {
	f := newValidatorFixture()
	f.budgetRepo.AddBudget(activeBudget(1, f.ownerID, "Groceries", day(2023, time.January, 1), day(2023, time.January, 31)))

	b := f.candidate("groceries", day(2024, time.January, 1), day(2024, time.January, 31))

	assert.NoError(t, f.validator.Validate(context.Background(), b))
}

func TestBudgetValidator_NameTrimmedBeforeUniquenessCheck(t *testing.T) {
	f := newValidatorFixture()
	f.budgetRepo.AddBudget(activeBudget(1, f.ownerID, "Groceries", day(2023, time.January, 1), day(2023, time.January, 31)))

	b := f.candidate("  Groceries  ", day(2024, time.January, 1), day(2024, time.January, 31))

	requireValidationError(t, f.validator.Validate(context.Background(), b), domain.ErrBudgetExists)
	assert.Equal(t, "Groceries", b.Name)
}

func TestBudgetValidator_OtherOwnersNamesAreIgnored(t *testing.T) {
	f := newValidatorFixture()
	f.budgetRepo.AddBudget(activeBudget(1, uuid.New(), "Groceries", day(2024, time.January, 1), day(2024, time.January, 31)))

	b := f.candidate("Groceries", day(2024, time.January, 1), day(2024, time.January, 31))

	assert.NoError(t, f.validator.Validate(context.Background(), b))
}

func TestBudgetValidator_UpdateExcludesSelf(t *testing.T) {
	f := newValidatorFixture()
	f.budgetRepo.AddBudget(activeBudget(7, f.ownerID, "Groceries", day(2024, time.January, 1), day(2024, time.January, 31)))

	b := f.candidate("Groceries", day(2024, time.January, 5), day(2024, time.February, 5))
	b.ID = 7

	assert.NoError(t, f.validator.Validate(context.Background(), b))
	assert.Empty(t, f.metrics.rejections)
}

func TestBudgetValidator_CategoryMustResolve(t *testing.T) {
	f := newValidatorFixture()
	f.categoryRepo.AddCategory(&domain.Category{ID: 3, OwnerID: uuid.New(), Name: "Food", IsActive: true})

	b := f.candidate("Groceries", day(2024, time.January, 1), day(2024, time.January, 31))
	b.CategoryID = int32Ptr(3)

	verr := requireValidationError(t, f.validator.Validate(context.Background(), b), domain.ErrCategoryNotFound)
	assert.Equal(t, "Category not found with id: 3", verr.Error())
	assert.Equal(t, []string{RuleCategory}, f.metrics.rejections)
}

func TestBudgetValidator_CategoryOfOwnerAccepted(t *testing.T) {
	f := newValidatorFixture()
	f.categoryRepo.AddCategory(&domain.Category{ID: 3, OwnerID: f.ownerID, Name: "Food", IsActive: true})

	b := f.candidate("Groceries", day(2024, time.January, 1), day(2024, time.January, 31))
	b.CategoryID = int32Ptr(3)

	assert.NoError(t, f.validator.Validate(context.Background(), b))
}

func TestBudgetValidator_TouchingEndpointsOverlap(t *testing.T) {
	f := newValidatorFixture()
	f.budgetRepo.AddBudget(activeBudget(1, f.ownerID, "January", day(2024, time.January, 1), day(2024, time.January, 31)))

	touching := f.candidate("Late January", day(2024, time.January, 31), day(2024, time.February, 28))
	verr := requireValidationError(t, f.validator.Validate(context.Background(), touching), domain.ErrBudgetOverlap)
	assert.Equal(t, "Budget overlaps with existing budget: January", verr.Error())

	adjacent := f.candidate("February", day(2024, time.February, 1), day(2024, time.February, 28))
	assert.NoError(t, f.validator.Validate(context.Background(), adjacent))

	assert.Equal(t, []string{RuleOverlap}, f.metrics.rejections)
}

func TestBudgetValidator_ReportsEarliestConflict(t *testing.T) {
	f := newValidatorFixture()
	f.budgetRepo.AddBudget(activeBudget(1, f.ownerID, "March", day(2024, time.March, 1), day(2024, time.March, 31)))
	f.budgetRepo.AddBudget(activeBudget(2, f.ownerID, "February", day(2024, time.February, 1), day(2024, time.February, 29)))

	b := f.candidate("Spanning", day(2024, time.February, 15), day(2024, time.March, 15))

	verr := requireValidationError(t, f.validator.Validate(context.Background(), b), domain.ErrBudgetOverlap)
	assert.Equal(t, "Budget overlaps with existing budget: February", verr.Error())
}

func TestBudgetValidator_InactiveBudgetsDoNotConflict(t *testing.T) {
	f := newValidatorFixture()
	old := activeBudget(1, f.ownerID, "January", day(2024, time.January, 1), day(2024, time.January, 31))
	old.IsActive = false
	f.budgetRepo.AddBudget(old)

	b := f.candidate("New January", day(2024, time.January, 1), day(2024, time.January, 31))

	assert.NoError(t, f.validator.Validate(context.Background(), b))
}

func TestBudgetValidator_InactiveCandidateSkipsOverlap(t *testing.T) {
	f := newValidatorFixture()
	f.budgetRepo.AddBudget(activeBudget(1, f.ownerID, "January", day(2024, time.January, 1), day(2024, time.January, 31)))

	b := f.candidate("Draft", day(2024, time.January, 10), day(2024, time.January, 20))
	b.IsActive = false

	assert.NoError(t, f.validator.Validate(context.Background(), b))
}

func TestBudgetValidator_UpdateDoesNotOverlapItself(t *testing.T) {
	f := newValidatorFixture()
	f.budgetRepo.AddBudget(activeBudget(4, f.ownerID, "January", day(2024, time.January, 1), day(2024, time.January, 31)))

	b := f.candidate("January", day(2024, time.January, 1), day(2024, time.February, 10))
	b.ID = 4

	assert.NoError(t, f.validator.Validate(context.Background(), b))
}

func TestBudgetValidator_FailsFastInRuleOrder(t *testing.T) {
	f := newValidatorFixture()
	f.budgetRepo.AddBudget(activeBudget(1, f.ownerID, "January", day(2024, time.January, 1), day(2024, time.January, 31)))

	// Duplicate name, unknown category and overlap all apply; the name wins.
	b := f.candidate("January", day(2024, time.January, 15), day(2024, time.January, 20))
	b.CategoryID = int32Ptr(99)

	requireValidationError(t, f.validator.Validate(context.Background(), b), domain.ErrBudgetExists)
}

func TestBudgetValidator_DoesNotWrite(t *testing.T) {
	f := newValidatorFixture()
	f.budgetRepo.AddBudget(activeBudget(1, f.ownerID, "January", day(2024, time.January, 1), day(2024, time.January, 31)))

	b := f.candidate("February", day(2024, time.February, 1), day(2024, time.February, 29))
	require.NoError(t, f.validator.Validate(context.Background(), b))

	assert.Len(t, f.budgetRepo.Budgets, 1)
	assert.Zero(t, b.ID)
}

func TestBudgetValidator_RepositoryErrorIsNotValidationError(t *testing.T) {
	f := newValidatorFixture()
	boom := errors.New("connection reset")
	f.budgetRepo.ExistsByNameFn = func(uuid.UUID, string, *int32) (bool, error) {
		return false, boom
	}

	err := f.validator.Validate(context.Background(), f.candidate("Groceries", day(2024, time.January, 1), day(2024, time.January, 31)))

	require.ErrorIs(t, err, boom)
	var verr *domain.ValidationError
	assert.False(t, errors.As(err, &verr))
	assert.Empty(t, f.metrics.rejections)
}
