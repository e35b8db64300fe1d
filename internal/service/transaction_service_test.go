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
	"github.com/shopspring/decimal"
)

func newTransactionFixture() (*TransactionService, *testutil.MockTransactionRepository, *testutil.MockCategoryRepository, *testutil.RecordingPublisher) {
	transactionRepo := testutil.NewMockTransactionRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	publisher := testutil.NewRecordingPublisher()
	return NewTransactionService(transactionRepo, categoryRepo, publisher), transactionRepo, categoryRepo, publisher
}

func validTransactionInput() TransactionInput {
	return TransactionInput{
		Description: "Groceries",
		Amount:      decimal.NewFromFloat(150.25),
		Type:        domain.TransactionTypeExpense,
		OccurredAt:  time.Date(2024, time.March, 3, 12, 0, 0, 0, time.UTC),
	}
}

func TestCreateTransaction_Success(t *testing.T) {
	transactionService, _, categoryRepo, publisher := newTransactionFixture()
	ownerID := uuid.New()
	categoryRepo.AddCategory(&domain.Category{ID: 2, OwnerID: ownerID, Name: "Food", IsActive: true})

	input := validTransactionInput()
	input.Description = "  Groceries  "
	input.Notes = strPtr("  weekly shop ")
	input.CategoryID = int32Ptr(2)

	transaction, err := transactionService.CreateTransaction(context.Background(), ownerID, input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if transaction.Description != "Groceries" {
		t.Errorf("Expected description 'Groceries', got %q", transaction.Description)
	}
	if transaction.Notes == nil || *transaction.Notes != "weekly shop" {
		t.Errorf("Expected trimmed notes, got %v", transaction.Notes)
	}
	if transaction.OwnerID != ownerID {
		t.Errorf("Expected owner %s, got %s", ownerID, transaction.OwnerID)
	}
	if !transaction.InCategory(2) {
		t.Errorf("Expected category 2, got %v", transaction.CategoryID)
	}
	if got := publisher.Types(ownerID); len(got) != 1 || got[0] != "transaction.created" {
		t.Errorf("Expected transaction.created event, got %v", got)
	}
}

func TestCreateTransaction_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(in *TransactionInput)
		sentinel error
	}{
		{"blank description", func(in *TransactionInput) { in.Description = "  " }, domain.ErrNameRequired},
		{"description too long", func(in *TransactionInput) { in.Description = strings.Repeat("a", 256) }, domain.ErrDescriptionTooLong},
		{"zero amount", func(in *TransactionInput) { in.Amount = decimal.Zero }, domain.ErrInvalidAmount},
		{"negative amount", func(in *TransactionInput) { in.Amount = decimal.NewFromInt(-1) }, domain.ErrInvalidAmount},
		{"three decimal places", func(in *TransactionInput) { in.Amount = decimal.RequireFromString("10.005") }, domain.ErrInvalidAmountScale},
		{"unknown type", func(in *TransactionInput) { in.Type = "TRANSFER" }, domain.ErrInvalidType},
		{"missing date", func(in *TransactionInput) { in.OccurredAt = time.Time{} }, domain.ErrDateRequired},
		{"notes too long", func(in *TransactionInput) { in.Notes = strPtr(strings.Repeat("n", 501)) }, domain.ErrNotesTooLong},
		{"unknown category", func(in *TransactionInput) { in.CategoryID = int32Ptr(404) }, domain.ErrCategoryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transactionService, transactionRepo, _, _ := newTransactionFixture()
			input := validTransactionInput()
			tt.mutate(&input)

			_, err := transactionService.CreateTransaction(context.Background(), uuid.New(), input)
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("Expected %v, got %v", tt.sentinel, err)
			}
			if len(transactionRepo.Transactions) != 0 {
				t.Errorf("Expected nothing stored, got %d transactions", len(transactionRepo.Transactions))
			}
		})
	}
}

func TestCreateTransaction_TrailingZerosAccepted(t *testing.T) {
	transactionService, _, _, _ := newTransactionFixture()
	input := validTransactionInput()
	input.Amount = decimal.RequireFromString("10.500")

	if _, err := transactionService.CreateTransaction(context.Background(), uuid.New(), input); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestCreateTransaction_CategoryOfAnotherOwner(t *testing.T) {
	transactionService, _, categoryRepo, _ := newTransactionFixture()
	categoryRepo.AddCategory(&domain.Category{ID: 2, OwnerID: uuid.New(), Name: "Food", IsActive: true})

	input := validTransactionInput()
	input.CategoryID = int32Ptr(2)

	_, err := transactionService.CreateTransaction(context.Background(), uuid.New(), input)
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestUpdateTransaction_ReplacesAllFields(t *testing.T) {
	transactionService, transactionRepo, _, publisher := newTransactionFixture()
	ownerID := uuid.New()
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:          1,
		OwnerID:     ownerID,
		Description: "Old",
		Amount:      decimal.NewFromInt(5),
		Type:        domain.TransactionTypeExpense,
		OccurredAt:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Notes:       strPtr("old notes"),
		CategoryID:  int32Ptr(9),
	})

	input := validTransactionInput()
	input.Type = domain.TransactionTypeIncome
	updated, err := transactionService.UpdateTransaction(context.Background(), ownerID, 1, input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.Description != "Groceries" || updated.Type != domain.TransactionTypeIncome {
		t.Errorf("Expected fields replaced, got %+v", updated)
	}
	if updated.Notes != nil || updated.CategoryID != nil {
		t.Errorf("Expected notes and category cleared, got %v %v", updated.Notes, updated.CategoryID)
	}
	if got := publisher.Types(ownerID); len(got) != 1 || got[0] != "transaction.updated" {
		t.Errorf("Expected transaction.updated event, got %v", got)
	}
}

func TestUpdateTransaction_InvalidInputLeavesStoredCopy(t *testing.T) {
	transactionService, transactionRepo, _, _ := newTransactionFixture()
	ownerID := uuid.New()
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:          1,
		OwnerID:     ownerID,
		Description: "Old",
		Amount:      decimal.NewFromInt(5),
		Type:        domain.TransactionTypeExpense,
		OccurredAt:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})

	input := validTransactionInput()
	input.Amount = decimal.Zero
	if _, err := transactionService.UpdateTransaction(context.Background(), ownerID, 1, input); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("Expected ErrInvalidAmount, got %v", err)
	}

	stored, _ := transactionRepo.GetByID(context.Background(), ownerID, 1)
	if stored.Description != "Old" {
		t.Errorf("Expected stored transaction untouched, got %q", stored.Description)
	}
}

func TestDeleteTransaction(t *testing.T) {
	transactionService, transactionRepo, _, _ := newTransactionFixture()
	ownerID := uuid.New()
	transactionRepo.AddTransaction(&domain.Transaction{ID: 1, OwnerID: ownerID, Description: "x", Amount: decimal.NewFromInt(1), Type: domain.TransactionTypeExpense})

	if err := transactionService.DeleteTransaction(context.Background(), uuid.New(), 1); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("Expected ErrTransactionNotFound for other owner, got %v", err)
	}
	if err := transactionService.DeleteTransaction(context.Background(), ownerID, 1); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := transactionService.GetTransaction(context.Background(), ownerID, 1); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected transaction to be gone, got %v", err)
	}
}

func TestGetTransactions_DefaultsAndFilters(t *testing.T) {
	transactionService, transactionRepo, _, _ := newTransactionFixture()
	ownerID := uuid.New()
	for i := int32(1); i <= 25; i++ {
		txType := domain.TransactionTypeExpense
		if i%5 == 0 {
			txType = domain.TransactionTypeIncome
		}
		transactionRepo.AddTransaction(&domain.Transaction{
			ID:          i,
			OwnerID:     ownerID,
			Description: "t",
			Amount:      decimal.NewFromInt(int64(i)),
			Type:        txType,
			OccurredAt:  time.Date(2024, time.January, int(i), 0, 0, 0, 0, time.UTC),
		})
	}

	page, err := transactionService.GetTransactions(context.Background(), ownerID, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if page.PageSize != domain.DefaultPageSize || len(page.Data) != domain.DefaultPageSize {
		t.Errorf("Expected default page size %d, got %d with %d rows", domain.DefaultPageSize, page.PageSize, len(page.Data))
	}
	if page.TotalItems != 25 || page.TotalPages != 2 {
		t.Errorf("Expected 25 items over 2 pages, got %d over %d", page.TotalItems, page.TotalPages)
	}
	if page.Data[0].ID != 25 {
		t.Errorf("Expected newest first, got ID %d", page.Data[0].ID)
	}

	income := domain.TransactionTypeIncome
	filtered, err := transactionService.GetTransactions(context.Background(), ownerID, &domain.TransactionFilters{Type: &income, PageSize: 500})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if filtered.PageSize != domain.MaxPageSize {
		t.Errorf("Expected page size clamped to %d, got %d", domain.MaxPageSize, filtered.PageSize)
	}
	if filtered.TotalItems != 5 {
		t.Errorf("Expected 5 income transactions, got %d", filtered.TotalItems)
	}
}

func TestGetTransactions_InvalidRange(t *testing.T) {
	transactionService, _, _, _ := newTransactionFixture()
	start := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	_, err := transactionService.GetTransactions(context.Background(), uuid.New(), &domain.TransactionFilters{StartDate: &start, EndDate: &end})
	if !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("Expected ErrInvalidDateRange, got %v", err)
	}
}

func TestGetFinancialSummary(t *testing.T) {
	transactionService, transactionRepo, _, _ := newTransactionFixture()
	ownerID := uuid.New()
	jan := func(d int) time.Time { return time.Date(2024, time.January, d, 9, 0, 0, 0, time.UTC) }
	transactionRepo.AddTransaction(&domain.Transaction{ID: 1, OwnerID: ownerID, Amount: decimal.NewFromInt(3000), Type: domain.TransactionTypeIncome, OccurredAt: jan(1)})
	transactionRepo.AddTransaction(&domain.Transaction{ID: 2, OwnerID: ownerID, Amount: decimal.RequireFromString("1200.50"), Type: domain.TransactionTypeExpense, OccurredAt: jan(10)})
	transactionRepo.AddTransaction(&domain.Transaction{ID: 3, OwnerID: ownerID, Amount: decimal.NewFromInt(999), Type: domain.TransactionTypeExpense, OccurredAt: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)})
	transactionRepo.AddTransaction(&domain.Transaction{ID: 4, OwnerID: uuid.New(), Amount: decimal.NewFromInt(50), Type: domain.TransactionTypeIncome, OccurredAt: jan(2)})

	summary, err := transactionService.GetFinancialSummary(context.Background(), ownerID,
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 31, 23, 59, 59, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if summary.TotalIncome.StringFixed(2) != "3000.00" {
		t.Errorf("Expected income 3000.00, got %s", summary.TotalIncome.StringFixed(2))
	}
	if summary.TotalExpenses.StringFixed(2) != "1200.50" {
		t.Errorf("Expected expenses 1200.50, got %s", summary.TotalExpenses.StringFixed(2))
	}
	if summary.NetWorth.StringFixed(2) != "1799.50" {
		t.Errorf("Expected net 1799.50, got %s", summary.NetWorth.StringFixed(2))
	}
}
