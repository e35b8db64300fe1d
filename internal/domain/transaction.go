package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

type Transaction struct {
	ID          int32           `json:"id"`
	OwnerID     uuid.UUID       `json:"ownerId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Notes       *string         `json:"notes,omitempty"`
	CategoryID  *int32          `json:"categoryId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// InCategory reports whether the transaction references the given category.
func (t *Transaction) InCategory(categoryID int32) bool {
	return t.CategoryID != nil && *t.CategoryID == categoryID
}

type TransactionFilters struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Type       *TransactionType
	CategoryID *int32
	Page       int32
	PageSize   int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *Transaction) (*Transaction, error)
	GetByID(ctx context.Context, ownerID uuid.UUID, id int32) (*Transaction, error)
	Update(ctx context.Context, transaction *Transaction) (*Transaction, error)
	Delete(ctx context.Context, ownerID uuid.UUID, id int32) error
	List(ctx context.Context, ownerID uuid.UUID, filters *TransactionFilters) (*PaginatedTransactions, error)
	// ListInRange returns every transaction with occurredAt in [start, end].
	// A nil bound leaves that side of the range open.
	ListInRange(ctx context.Context, ownerID uuid.UUID, start, end *time.Time) ([]*Transaction, error)
	SumByType(ctx context.Context, ownerID uuid.UUID, txType TransactionType, start, end time.Time) (decimal.Decimal, error)
	CountByCategory(ctx context.Context, ownerID uuid.UUID) (map[int32]int64, error)
}
