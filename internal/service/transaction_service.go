package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fintrack/fintrack-backend/internal/analytics"
	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/fintrack/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	publisher       websocket.EventPublisher
	now             func() time.Time
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository, publisher websocket.EventPublisher) *TransactionService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		publisher:       publisher,
		now:             time.Now,
	}
}

// TransactionInput holds the full set of client-supplied transaction fields.
// Updates replace every field.
type TransactionInput struct {
	Description string
	Amount      decimal.Decimal
	Type        domain.TransactionType
	OccurredAt  time.Time
	Notes       *string
	CategoryID  *int32
}

// CreateTransaction validates and stores a new transaction
func (s *TransactionService) CreateTransaction(ctx context.Context, ownerID uuid.UUID, input TransactionInput) (*domain.Transaction, error) {
	transaction := &domain.Transaction{OwnerID: ownerID}
	if err := s.apply(ctx, transaction, input); err != nil {
		return nil, err
	}

	created, err := s.transactionRepo.Create(ctx, transaction)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ownerID, websocket.TransactionCreated(created))
	return created, nil
}

// UpdateTransaction replaces all editable fields of an existing transaction
func (s *TransactionService) UpdateTransaction(ctx context.Context, ownerID uuid.UUID, id int32, input TransactionInput) (*domain.Transaction, error) {
	existing, err := s.transactionRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, existing, input); err != nil {
		return nil, err
	}

	updated, err := s.transactionRepo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ownerID, websocket.TransactionUpdated(updated))
	return updated, nil
}

// DeleteTransaction removes a transaction permanently
func (s *TransactionService) DeleteTransaction(ctx context.Context, ownerID uuid.UUID, id int32) error {
	if err := s.transactionRepo.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	s.publisher.Publish(ownerID, websocket.TransactionDeleted(map[string]int32{"id": id}))
	return nil
}

// GetTransaction retrieves a transaction by ID
func (s *TransactionService) GetTransaction(ctx context.Context, ownerID uuid.UUID, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, ownerID, id)
}

// GetTransactions returns a page of transactions matching the filters
func (s *TransactionService) GetTransactions(ctx context.Context, ownerID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = domain.DefaultPageSize
	}
	if filters.PageSize > domain.MaxPageSize {
		filters.PageSize = domain.MaxPageSize
	}
	if filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return nil, domain.NewValidationError("startDate", domain.ErrInvalidDateRange, "Start date cannot be after end date")
	}
	if filters.Type != nil && !filters.Type.IsValid() {
		return nil, domain.NewValidationError("type", domain.ErrInvalidType, "Invalid transaction type: %s", *filters.Type)
	}

	return s.transactionRepo.List(ctx, ownerID, filters)
}

// GetFinancialSummary totals income and expenses with occurredAt in
// [start, end]. The sums are computed by the store.
func (s *TransactionService) GetFinancialSummary(ctx context.Context, ownerID uuid.UUID, start, end time.Time) (*domain.FinancialSummary, error) {
	if start.After(end) {
		return nil, domain.NewValidationError("startDate", domain.ErrInvalidDateRange, "Start date cannot be after end date")
	}

	income, err := s.transactionRepo.SumByType(ctx, ownerID, domain.TransactionTypeIncome, start, end)
	if err != nil {
		return nil, err
	}
	expenses, err := s.transactionRepo.SumByType(ctx, ownerID, domain.TransactionTypeExpense, start, end)
	if err != nil {
		return nil, err
	}

	summary := analytics.NewFinancialSummary(income, expenses)
	return &summary, nil
}

// apply validates input and copies it onto t
func (s *TransactionService) apply(ctx context.Context, t *domain.Transaction, input TransactionInput) error {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return domain.NewValidationError("description", domain.ErrNameRequired, "Transaction description is required")
	}
	if len([]rune(description)) > domain.MaxTransactionDescLength {
		return domain.NewValidationError("description", domain.ErrDescriptionTooLong, "Transaction description must be %d characters or less", domain.MaxTransactionDescLength)
	}

	if !input.Amount.IsPositive() {
		return domain.NewValidationError("amount", domain.ErrInvalidAmount, "Transaction amount must be greater than 0")
	}
	if !input.Amount.Equal(input.Amount.Round(2)) {
		return domain.NewValidationError("amount", domain.ErrInvalidAmountScale, "Transaction amount must have at most 2 decimal places")
	}

	if !input.Type.IsValid() {
		return domain.NewValidationError("type", domain.ErrInvalidType, "Invalid transaction type: %s", input.Type)
	}

	if input.OccurredAt.IsZero() {
		return domain.NewValidationError("occurredAt", domain.ErrDateRequired, "Transaction date is required")
	}

	notes := normalizeOptional(input.Notes)
	if notes != nil && len([]rune(*notes)) > domain.MaxNotesLength {
		return domain.NewValidationError("notes", domain.ErrNotesTooLong, "Transaction notes must be %d characters or less", domain.MaxNotesLength)
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, t.OwnerID, *input.CategoryID); err != nil {
			if errors.Is(err, domain.ErrCategoryNotFound) {
				return domain.NewValidationError("categoryId", domain.ErrCategoryNotFound, "Category not found with id: %d", *input.CategoryID)
			}
			return fmt.Errorf("resolve transaction category: %w", err)
		}
	}

	t.Description = description
	t.Amount = input.Amount
	t.Type = input.Type
	t.OccurredAt = input.OccurredAt
	t.Notes = notes
	t.CategoryID = input.CategoryID
	return nil
}

// normalizeOptional trims s and maps blank values to nil
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
