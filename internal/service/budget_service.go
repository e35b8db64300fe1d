package service

import (
	"context"
	"time"

	"github.com/fintrack/fintrack-backend/internal/analytics"
	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/fintrack/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetInput holds the client-editable fields of a budget
type BudgetInput struct {
	Name        string
	Description *string
	Amount      decimal.Decimal
	StartDate   time.Time
	EndDate     time.Time
	CategoryID  *int32
}

// BudgetService handles budget business logic
type BudgetService struct {
	budgetRepo      domain.BudgetRepository
	transactionRepo domain.TransactionRepository
	txManager       domain.TxManager
	validator       *BudgetValidator
	publisher       websocket.EventPublisher
	now             func() time.Time
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(
	budgetRepo domain.BudgetRepository,
	transactionRepo domain.TransactionRepository,
	txManager domain.TxManager,
	validator *BudgetValidator,
	publisher websocket.EventPublisher,
) *BudgetService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &BudgetService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		txManager:       txManager,
		validator:       validator,
		publisher:       publisher,
		now:             time.Now,
	}
}

// CreateBudget validates and stores a new, active budget. Validation and the
// insert run in one owner-scoped transaction.
func (s *BudgetService) CreateBudget(ctx context.Context, ownerID uuid.UUID, input BudgetInput) (*domain.Budget, error) {
	budget := &domain.Budget{
		OwnerID:     ownerID,
		Name:        input.Name,
		Description: normalizeOptional(input.Description),
		Amount:      input.Amount,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CategoryID:  input.CategoryID,
		IsActive:    true,
	}

	var created *domain.Budget
	err := s.txManager.WithinOwnerTx(ctx, ownerID, func(ctx context.Context) error {
		if err := s.validator.Validate(ctx, budget); err != nil {
			return err
		}
		var err error
		created, err = s.budgetRepo.Create(ctx, budget)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ownerID, websocket.BudgetCreated(created))
	return created, nil
}

// UpdateBudget replaces the editable fields of a budget. The active flag is
// left as is.
func (s *BudgetService) UpdateBudget(ctx context.Context, ownerID uuid.UUID, id int32, input BudgetInput) (*domain.Budget, error) {
	var updated *domain.Budget
	err := s.txManager.WithinOwnerTx(ctx, ownerID, func(ctx context.Context) error {
		existing, err := s.budgetRepo.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}

		candidate := *existing
		candidate.Name = input.Name
		candidate.Description = normalizeOptional(input.Description)
		candidate.Amount = input.Amount
		candidate.StartDate = input.StartDate
		candidate.EndDate = input.EndDate
		candidate.CategoryID = input.CategoryID

		if err := s.validator.Validate(ctx, &candidate); err != nil {
			return err
		}
		updated, err = s.budgetRepo.Update(ctx, &candidate)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ownerID, websocket.BudgetUpdated(updated))
	return updated, nil
}

// GetBudget retrieves a budget by ID
func (s *BudgetService) GetBudget(ctx context.Context, ownerID uuid.UUID, id int32) (*domain.Budget, error) {
	return s.budgetRepo.GetByID(ctx, ownerID, id)
}

// ListBudgets returns the owner's budgets, newest start date first
func (s *BudgetService) ListBudgets(ctx context.Context, ownerID uuid.UUID, activeOnly bool) ([]*domain.Budget, error) {
	return s.budgetRepo.ListByOwner(ctx, ownerID, activeOnly)
}

// ListCurrentBudgets returns the active budgets whose range contains today
func (s *BudgetService) ListCurrentBudgets(ctx context.Context, ownerID uuid.UUID) ([]*domain.Budget, error) {
	active, err := s.budgetRepo.ListByOwner(ctx, ownerID, true)
	if err != nil {
		return nil, err
	}

	today := s.now()
	current := make([]*domain.Budget, 0, len(active))
	for _, b := range active {
		if b.IsCurrent(today) {
			current = append(current, b)
		}
	}
	return current, nil
}

// ActivateBudget re-enables a budget. Because the budget rejoins the active
// set it must pass the overlap check again.
func (s *BudgetService) ActivateBudget(ctx context.Context, ownerID uuid.UUID, id int32) (*domain.Budget, error) {
	var activated *domain.Budget
	err := s.txManager.WithinOwnerTx(ctx, ownerID, func(ctx context.Context) error {
		existing, err := s.budgetRepo.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if existing.IsActive {
			activated = existing
			return nil
		}

		candidate := *existing
		candidate.IsActive = true
		if err := s.validator.Validate(ctx, &candidate); err != nil {
			return err
		}
		activated, err = s.budgetRepo.SetActive(ctx, ownerID, id, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ownerID, websocket.BudgetActivated(activated))
	return activated, nil
}

// DeactivateBudget removes a budget from the active set
func (s *BudgetService) DeactivateBudget(ctx context.Context, ownerID uuid.UUID, id int32) (*domain.Budget, error) {
	deactivated, err := s.budgetRepo.SetActive(ctx, ownerID, id, false)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ownerID, websocket.BudgetDeactivated(deactivated))
	return deactivated, nil
}

// DeleteBudget deactivates a budget; budgets are never removed
func (s *BudgetService) DeleteBudget(ctx context.Context, ownerID uuid.UUID, id int32) error {
	_, err := s.DeactivateBudget(ctx, ownerID, id)
	return err
}

// GetBudgetSummary computes spend and utilization for one budget
func (s *BudgetService) GetBudgetSummary(ctx context.Context, ownerID uuid.UUID, id int32) (*domain.BudgetSummary, error) {
	budget, err := s.budgetRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	summaries, err := s.summarize(ctx, ownerID, []*domain.Budget{budget})
	if err != nil {
		return nil, err
	}
	return &summaries[0], nil
}

// GetBudgetSummaries computes summaries for every active budget
func (s *BudgetService) GetBudgetSummaries(ctx context.Context, ownerID uuid.UUID) ([]domain.BudgetSummary, error) {
	budgets, err := s.budgetRepo.ListByOwner(ctx, ownerID, true)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, ownerID, budgets)
}

// GetCurrentBudgetSummaries computes summaries for the current budgets
func (s *BudgetService) GetCurrentBudgetSummaries(ctx context.Context, ownerID uuid.UUID) ([]domain.BudgetSummary, error) {
	budgets, err := s.ListCurrentBudgets(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, ownerID, budgets)
}

// GetOverview aggregates the current budgets into page-level stats
func (s *BudgetService) GetOverview(ctx context.Context, ownerID uuid.UUID) (*domain.BudgetOverview, error) {
	summaries, err := s.GetCurrentBudgetSummaries(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	overview := analytics.Overview(summaries)
	return &overview, nil
}

// summarize loads the transactions spanning all budgets once and evaluates
// each budget against them.
func (s *BudgetService) summarize(ctx context.Context, ownerID uuid.UUID, budgets []*domain.Budget) ([]domain.BudgetSummary, error) {
	summaries := make([]domain.BudgetSummary, 0, len(budgets))
	if len(budgets) == 0 {
		return summaries, nil
	}

	start, end := budgets[0].SpendWindow()
	for _, b := range budgets[1:] {
		bs, be := b.SpendWindow()
		if bs.Before(start) {
			start = bs
		}
		if be.After(end) {
			end = be
		}
	}

	txns, err := s.transactionRepo.ListInRange(ctx, ownerID, &start, &end)
	if err != nil {
		return nil, err
	}

	for _, b := range budgets {
		summaries = append(summaries, analytics.EvaluateBudget(b, txns))
	}
	return summaries, nil
}
