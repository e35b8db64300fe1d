package service

import (
	"sync"
	"time"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func int32Ptr(v int32) *int32 {
	return &v
}

func strPtr(s string) *string {
	return &s
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func activeBudget(id int32, ownerID uuid.UUID, name string, start, end time.Time) *domain.Budget {
	return &domain.Budget{
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		Amount:    dec("500"),
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
	}
}

// recordingMetrics captures what the services report
type recordingMetrics struct {
	mu         sync.Mutex
	rejections []string
	operations []string
}

func (r *recordingMetrics) BudgetRejected(rule string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejections = append(r.rejections, rule)
}

func (r *recordingMetrics) ObserveAnalytics(operation string, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations = append(r.operations, operation)
}
