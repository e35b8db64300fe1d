package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/fintrack/fintrack-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type budgetFixture struct {
	service         *BudgetService
	budgetRepo      *testutil.MockBudgetRepository
	categoryRepo    *testutil.MockCategoryRepository
	transactionRepo *testutil.MockTransactionRepository
	txManager       *testutil.MockTxManager
	publisher       *testutil.RecordingPublisher
	ownerID         uuid.UUID
}

func newBudgetFixture() *budgetFixture {
	budgetRepo := testutil.NewMockBudgetRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	txManager := testutil.NewMockTxManager()
	publisher := testutil.NewRecordingPublisher()

	validator := NewBudgetValidator(budgetRepo, categoryRepo, nil)
	service := NewBudgetService(budgetRepo, transactionRepo, txManager, validator, publisher)
	service.now = fixedClock(time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC))

	return &budgetFixture{
		service:         service,
		budgetRepo:      budgetRepo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		txManager:       txManager,
		publisher:       publisher,
		ownerID:         uuid.New(),
	}
}

func januaryInput(name string) BudgetInput {
	return BudgetInput{
		Name:      name,
		Amount:    dec("1000"),
		StartDate: day(2024, time.January, 1),
		EndDate:   day(2024, time.January, 31),
	}
}

func (f *budgetFixture) expense(id int32, amount string, at time.Time, categoryID *int32) {
	f.transactionRepo.AddTransaction(&domain.Transaction{
		ID:          id,
		OwnerID:     f.ownerID,
		Description: fmt.Sprintf("expense %d", id),
		Amount:      dec(amount),
		Type:        domain.TransactionTypeExpense,
		OccurredAt:  at,
		CategoryID:  categoryID,
	})
}

func TestBudgetService_CreateBudget(t *testing.T) {
	f := newBudgetFixture()
	input := januaryInput("  January  ")
	input.Description = strPtr("   ")

	budget, err := f.service.CreateBudget(context.Background(), f.ownerID, input)

	require.NoError(t, err)
	assert.NotZero(t, budget.ID)
	assert.Equal(t, "January", budget.Name)
	assert.Nil(t, budget.Description)
	assert.True(t, budget.IsActive)
	assert.Equal(t, 1, f.txManager.Calls)
	assert.Equal(t, []string{"budget.created"}, f.publisher.Types(f.ownerID))
}

func TestBudgetService_CreateBudget_RejectsOverlap(t *testing.T) {
	f := newBudgetFixture()
	_, err := f.service.CreateBudget(context.Background(), f.ownerID, januaryInput("January"))
	require.NoError(t, err)

	input := januaryInput("Mid January")
	input.StartDate = day(2024, time.January, 31)
	input.EndDate = day(2024, time.February, 28)
	_, err = f.service.CreateBudget(context.Background(), f.ownerID, input)

	assert.ErrorIs(t, err, domain.ErrBudgetOverlap)
	assert.EqualError(t, err, "Budget overlaps with existing budget: January")
	assert.Len(t, f.budgetRepo.Budgets, 1)
	assert.Equal(t, []string{"budget.created"}, f.publisher.Types(f.ownerID))
}

func TestBudgetService_CreateBudget_ConcurrentOverlappingRequests(t *testing.T) {
	f := newBudgetFixture()

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = f.service.CreateBudget(context.Background(), f.ownerID, januaryInput(fmt.Sprintf("Budget %d", idx)))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrBudgetOverlap)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, f.budgetRepo.Budgets, 1)
}

func TestBudgetService_UpdateBudget(t *testing.T) {
	f := newBudgetFixture()
	created, err := f.service.CreateBudget(context.Background(), f.ownerID, januaryInput("January"))
	require.NoError(t, err)

	input := januaryInput("January")
	input.Amount = dec("1500")
	input.EndDate = day(2024, time.February, 10)
	updated, err := f.service.UpdateBudget(context.Background(), f.ownerID, created.ID, input)

	require.NoError(t, err)
	assert.Equal(t, "1500", updated.Amount.String())
	assert.Equal(t, day(2024, time.February, 10), updated.EndDate)
	assert.True(t, updated.IsActive)
	assert.Equal(t, []string{"budget.created", "budget.updated"}, f.publisher.Types(f.ownerID))
}

func TestBudgetService_UpdateBudget_NotFound(t *testing.T) {
	f := newBudgetFixture()

	_, err := f.service.UpdateBudget(context.Background(), f.ownerID, 42, januaryInput("January"))

	assert.ErrorIs(t, err, domain.ErrBudgetNotFound)
}

func TestBudgetService_UpdateBudget_OtherOwnerNotFound(t *testing.T) {
	f := newBudgetFixture()
	f.budgetRepo.AddBudget(activeBudget(1, uuid.New(), "Theirs", day(2024, time.January, 1), day(2024, time.January, 31)))

	_, err := f.service.UpdateBudget(context.Background(), f.ownerID, 1, januaryInput("Mine"))

	assert.ErrorIs(t, err, domain.ErrBudgetNotFound)
}

func TestBudgetService_ActivateBudget_RevalidatesOverlap(t *testing.T) {
	f := newBudgetFixture()
	f.budgetRepo.AddBudget(activeBudget(1, f.ownerID, "January", day(2024, time.January, 1), day(2024, time.January, 31)))
	dormant := activeBudget(2, f.ownerID, "Old January", day(2024, time.January, 10), day(2024, time.January, 20))
	dormant.IsActive = false
	f.budgetRepo.AddBudget(dormant)

	_, err := f.service.ActivateBudget(context.Background(), f.ownerID, 2)

	assert.ErrorIs(t, err, domain.ErrBudgetOverlap)
	stored, err := f.budgetRepo.GetByID(context.Background(), f.ownerID, 2)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestBudgetService_DeactivateThenActivate(t *testing.T) {
	f := newBudgetFixture()
	created, err := f.service.CreateBudget(context.Background(), f.ownerID, januaryInput("January"))
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteBudget(context.Background(), f.ownerID, created.ID))
	active, err := f.service.ListBudgets(context.Background(), f.ownerID, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := f.service.ListBudgets(context.Background(), f.ownerID, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	activated, err := f.service.ActivateBudget(context.Background(), f.ownerID, created.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)
	assert.Equal(t, []string{"budget.created", "budget.deactivated", "budget.activated"}, f.publisher.Types(f.ownerID))
}

func TestBudgetService_ListCurrentBudgets(t *testing.T) {
	f := newBudgetFixture()
	f.budgetRepo.AddBudget(activeBudget(1, f.ownerID, "January", day(2024, time.January, 1), day(2024, time.January, 31)))
	f.budgetRepo.AddBudget(activeBudget(2, f.ownerID, "February", day(2024, time.February, 1), day(2024, time.February, 29)))
	expired := activeBudget(3, f.ownerID, "Inactive January", day(2024, time.January, 1), day(2024, time.January, 31))
	expired.IsActive = false
	f.budgetRepo.AddBudget(expired)

	current, err := f.service.ListCurrentBudgets(context.Background(), f.ownerID)

	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, "January", current[0].Name)
}

func TestBudgetService_GetBudgetSummary(t *testing.T) {
	f := newBudgetFixture()
	food := int32(5)
	b := activeBudget(1, f.ownerID, "Food", day(2024, time.January, 1), day(2024, time.January, 31))
	b.CategoryID = &food
	b.Amount = dec("200")
	f.budgetRepo.AddBudget(b)

	f.expense(1, "120", time.Date(2024, time.January, 31, 23, 30, 0, 0, time.UTC), &food)
	f.expense(2, "100", day(2024, time.January, 2), &food)
	f.expense(3, "999", day(2024, time.January, 3), nil)
	f.expense(4, "50", day(2024, time.February, 1), &food)

	summary, err := f.service.GetBudgetSummary(context.Background(), f.ownerID, 1)

	require.NoError(t, err)
	assert.Equal(t, "220.00", summary.SpentAmount.StringFixed(2))
	assert.Equal(t, "-20.00", summary.RemainingAmount.StringFixed(2))
	assert.Equal(t, "110.0", summary.UtilizationPercentage.StringFixed(1))
	assert.True(t, summary.OverBudget)
}

func TestBudgetService_GetBudgetSummaries_NoBudgets(t *testing.T) {
	f := newBudgetFixture()

	summaries, err := f.service.GetBudgetSummaries(context.Background(), f.ownerID)

	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

func TestBudgetService_GetOverview(t *testing.T) {
	f := newBudgetFixture()
	first := activeBudget(1, f.ownerID, "January", day(2024, time.January, 1), day(2024, time.January, 20))
	first.Amount = dec("100")
	f.budgetRepo.AddBudget(first)
	second := activeBudget(2, f.ownerID, "Late January", day(2024, time.January, 21), day(2024, time.January, 31))
	second.Amount = dec("100")
	f.budgetRepo.AddBudget(second)
	f.service.now = fixedClock(day(2024, time.January, 10))

	f.expense(1, "150", day(2024, time.January, 5), nil)

	overview, err := f.service.GetOverview(context.Background(), f.ownerID)

	require.NoError(t, err)
	assert.Equal(t, 1, overview.BudgetCount)
	assert.Equal(t, "100", overview.TotalBudgeted.String())
	assert.Equal(t, "150", overview.TotalSpent.String())
	assert.Equal(t, "150.00", overview.AverageUtilization.StringFixed(2))
	assert.Equal(t, 1, overview.OverBudgetCount)
}
