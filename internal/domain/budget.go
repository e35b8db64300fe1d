package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget caps spending over an inclusive date range. A nil CategoryID means
// the budget covers every expense in the range.
type Budget struct {
	ID          int32           `json:"id"`
	OwnerID     uuid.UUID       `json:"ownerId"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	IsActive    bool            `json:"isActive"`
	CategoryID  *int32          `json:"categoryId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Overlaps reports whether the two budgets share at least one day.
// Touching endpoints count as an overlap.
func (b *Budget) Overlaps(other *Budget) bool {
	return DateRangesOverlap(b.StartDate, b.EndDate, other.StartDate, other.EndDate)
}

// DateRangesOverlap compares two inclusive date ranges by calendar day.
func DateRangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !DateOnly(aStart).After(DateOnly(bEnd)) && !DateOnly(bStart).After(DateOnly(aEnd))
}

// IsCurrent reports whether today falls inside the budget range.
func (b *Budget) IsCurrent(today time.Time) bool {
	d := DateOnly(today)
	return !d.Before(DateOnly(b.StartDate)) && !d.After(DateOnly(b.EndDate))
}

// IsExpired reports whether the budget range ended before today.
func (b *Budget) IsExpired(today time.Time) bool {
	return DateOnly(today).After(DateOnly(b.EndDate))
}

// IsFuture reports whether the budget range starts after today.
func (b *Budget) IsFuture(today time.Time) bool {
	return DateOnly(today).Before(DateOnly(b.StartDate))
}

// DaysRemaining counts whole days from today to the end date. Expired
// budgets return 0.
func (b *Budget) DaysRemaining(today time.Time) int {
	if b.IsExpired(today) {
		return 0
	}
	return int(DateOnly(b.EndDate).Sub(DateOnly(today)).Hours() / 24)
}

// SpendWindow returns the instants bounding the budget: the first instant of
// the start date through the last instant of the end date, both in UTC.
// Transactions are matched by their UTC instant, whatever offset they were
// recorded with.
func (b *Budget) SpendWindow() (time.Time, time.Time) {
	start := DateOnly(b.StartDate)
	end := DateOnly(b.EndDate).AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type BudgetRepository interface {
	Create(ctx context.Context, budget *Budget) (*Budget, error)
	GetByID(ctx context.Context, ownerID uuid.UUID, id int32) (*Budget, error)
	Update(ctx context.Context, budget *Budget) (*Budget, error)
	SetActive(ctx context.Context, ownerID uuid.UUID, id int32, active bool) (*Budget, error)
	// ListByOwner returns the owner's budgets ordered by start date descending.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, activeOnly bool) ([]*Budget, error)
	// ExistsByName reports whether another budget of the owner already uses
	// name. excludeID, when set, is left out of the comparison.
	ExistsByName(ctx context.Context, ownerID uuid.UUID, name string, excludeID *int32) (bool, error)
}

// TxManager runs fn inside a store transaction that is serialized per owner.
// Repository calls made with the ctx passed to fn join that transaction.
type TxManager interface {
	WithinOwnerTx(ctx context.Context, ownerID uuid.UUID, fn func(ctx context.Context) error) error
}
