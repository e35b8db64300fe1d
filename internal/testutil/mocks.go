package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/fintrack/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[string]*domain.User
	ByID     map[uuid.UUID]*domain.User
	CreateFn func(auth0ID, email string, name *string) (*domain.User, error)
	mu       sync.Mutex
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(ctx context.Context, auth0ID, email string, name *string) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(auth0ID, email, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	now := time.Now()
	user := &domain.User{
		ID:        uuid.New(),
		Auth0ID:   auth0ID,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories  map[int32]*domain.Category
	NextID      int32
	CreateFn    func(category *domain.Category) (*domain.Category, error)
	GetByIDFn   func(ownerID uuid.UUID, id int32) (*domain.Category, error)
	GetByNameFn func(ownerID uuid.UUID, name string) (*domain.Category, error)
	ListFn      func(ownerID uuid.UUID, includeInactive bool) ([]*domain.Category, error)
	UpdateFn    func(category *domain.Category) (*domain.Category, error)
	mu          sync.Mutex
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int32]*domain.Category),
		NextID:     1,
	}
}

// Create stores a new category, rejecting duplicate names per owner
func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if m.CreateFn != nil {
		return m.CreateFn(category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findByName(category.OwnerID, category.Name) != nil {
		return nil, domain.ErrCategoryExists
	}
	category.ID = m.NextID
	m.NextID++
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category owned by ownerID
func (m *MockCategoryRepository) GetByID(ctx context.Context, ownerID uuid.UUID, id int32) (*domain.Category, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ownerID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	category, ok := m.Categories[id]
	if !ok || category.OwnerID != ownerID {
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

// GetByName retrieves a category by exact name
func (m *MockCategoryRepository) GetByName(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Category, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ownerID, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if category := m.findByName(ownerID, name); category != nil {
		return category, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// ListByOwner returns the owner's categories ordered by name
func (m *MockCategoryRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]*domain.Category, error) {
	if m.ListFn != nil {
		return m.ListFn(ownerID, includeInactive)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	categories := []*domain.Category{}
	for _, c := range m.Categories {
		if c.OwnerID == ownerID && (includeInactive || c.IsActive) {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// Update replaces a category's editable fields
func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Categories[category.ID]
	if !ok || existing.OwnerID != category.OwnerID {
		return nil, domain.ErrCategoryNotFound
	}
	if other := m.findByName(category.OwnerID, category.Name); other != nil && other.ID != category.ID {
		return nil, domain.ErrCategoryExists
	}
	category.UpdatedAt = time.Now()
	m.Categories[category.ID] = category
	return category, nil
}

// SetActive flips the active flag
func (m *MockCategoryRepository) SetActive(ctx context.Context, ownerID uuid.UUID, id int32, active bool) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	category, ok := m.Categories[id]
	if !ok || category.OwnerID != ownerID {
		return nil, domain.ErrCategoryNotFound
	}
	category.IsActive = active
	category.UpdatedAt = time.Now()
	return category, nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Categories[category.ID] = category
	if category.ID >= m.NextID {
		m.NextID = category.ID + 1
	}
}

func (m *MockCategoryRepository) findByName(ownerID uuid.UUID, name string) *domain.Category {
	for _, c := range m.Categories {
		if c.OwnerID == ownerID && c.Name == name {
			return c
		}
	}
	return nil
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions  map[int32]*domain.Transaction
	NextID        int32
	CreateFn      func(transaction *domain.Transaction) (*domain.Transaction, error)
	ListInRangeFn func(ownerID uuid.UUID, start, end *time.Time) ([]*domain.Transaction, error)
	SumByTypeFn   func(ownerID uuid.UUID, txType domain.TransactionType, start, end time.Time) (decimal.Decimal, error)
	mu            sync.Mutex
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		NextID:       1,
	}
}

// Create stores a new transaction
func (m *MockTransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	transaction.ID = m.NextID
	m.NextID++
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// GetByID retrieves a transaction owned by ownerID
func (m *MockTransactionRepository) GetByID(ctx context.Context, ownerID uuid.UUID, id int32) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	transaction, ok := m.Transactions[id]
	if !ok || transaction.OwnerID != ownerID {
		return nil, domain.ErrTransactionNotFound
	}
	return transaction, nil
}

// Update replaces a stored transaction
func (m *MockTransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Transactions[transaction.ID]
	if !ok || existing.OwnerID != transaction.OwnerID {
		return nil, domain.ErrTransactionNotFound
	}
	transaction.UpdatedAt = time.Now()
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// Delete removes a transaction
func (m *MockTransactionRepository) Delete(ctx context.Context, ownerID uuid.UUID, id int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	transaction, ok := m.Transactions[id]
	if !ok || transaction.OwnerID != ownerID {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

// List returns a filtered page ordered by occurredAt desc, then ID desc
func (m *MockTransactionRepository) List(ctx context.Context, ownerID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := []*domain.Transaction{}
	for _, t := range m.Transactions {
		if t.OwnerID != ownerID {
			continue
		}
		if filters.StartDate != nil && t.OccurredAt.Before(*filters.StartDate) {
			continue
		}
		if filters.EndDate != nil && t.OccurredAt.After(*filters.EndDate) {
			continue
		}
		if filters.Type != nil && t.Type != *filters.Type {
			continue
		}
		if filters.CategoryID != nil && !t.InCategory(*filters.CategoryID) {
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].OccurredAt.Equal(matched[j].OccurredAt) {
			return matched[i].OccurredAt.After(matched[j].OccurredAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	offset := int((filters.Page - 1) * filters.PageSize)
	data := []*domain.Transaction{}
	if offset < len(matched) {
		end := offset + int(filters.PageSize)
		if end > len(matched) {
			end = len(matched)
		}
		data = matched[offset:end]
	}
	totalPages := int32((total + int64(filters.PageSize) - 1) / int64(filters.PageSize))

	return &domain.PaginatedTransactions{
		Data:       data,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// ListInRange returns the owner's transactions with occurredAt in [start, end]
func (m *MockTransactionRepository) ListInRange(ctx context.Context, ownerID uuid.UUID, start, end *time.Time) ([]*domain.Transaction, error) {
	if m.ListInRangeFn != nil {
		return m.ListInRangeFn(ownerID, start, end)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txns := []*domain.Transaction{}
	for _, t := range m.Transactions {
		if t.OwnerID != ownerID {
			continue
		}
		if start != nil && t.OccurredAt.Before(*start) {
			continue
		}
		if end != nil && t.OccurredAt.After(*end) {
			continue
		}
		txns = append(txns, t)
	}
	sort.Slice(txns, func(i, j int) bool { return txns[i].ID < txns[j].ID })
	return txns, nil
}

// SumByType totals amounts of one type with occurredAt in [start, end]
func (m *MockTransactionRepository) SumByType(ctx context.Context, ownerID uuid.UUID, txType domain.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	if m.SumByTypeFn != nil {
		return m.SumByTypeFn(ownerID, txType, start, end)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, t := range m.Transactions {
		if t.OwnerID == ownerID && t.Type == txType && !t.OccurredAt.Before(start) && !t.OccurredAt.After(end) {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

// CountByCategory counts the owner's transactions per category
func (m *MockTransactionRepository) CountByCategory(ctx context.Context, ownerID uuid.UUID) (map[int32]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[int32]int64)
	for _, t := range m.Transactions {
		if t.OwnerID == ownerID && t.CategoryID != nil {
			counts[*t.CategoryID]++
		}
	}
	return counts, nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transactions[transaction.ID] = transaction
	if transaction.ID >= m.NextID {
		m.NextID = transaction.ID + 1
	}
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets        map[int32]*domain.Budget
	NextID         int32
	CreateFn       func(budget *domain.Budget) (*domain.Budget, error)
	ListFn         func(ownerID uuid.UUID, activeOnly bool) ([]*domain.Budget, error)
	ExistsByNameFn func(ownerID uuid.UUID, name string, excludeID *int32) (bool, error)
	mu             sync.Mutex
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[int32]*domain.Budget),
		NextID:  1,
	}
}

// Create stores a new budget, rejecting duplicate names per owner
func (m *MockBudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	if m.CreateFn != nil {
		return m.CreateFn(budget)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.Budgets {
		if b.OwnerID == budget.OwnerID && b.Name == budget.Name {
			return nil, domain.ErrBudgetExists
		}
	}
	stored := *budget
	stored.ID = m.NextID
	m.NextID++
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.Budgets[stored.ID] = &stored
	result := stored
	return &result, nil
}

// GetByID retrieves a budget owned by ownerID
func (m *MockBudgetRepository) GetByID(ctx context.Context, ownerID uuid.UUID, id int32) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	budget, ok := m.Budgets[id]
	if !ok || budget.OwnerID != ownerID {
		return nil, domain.ErrBudgetNotFound
	}
	result := *budget
	return &result, nil
}

// Update replaces a stored budget
func (m *MockBudgetRepository) Update(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Budgets[budget.ID]
	if !ok || existing.OwnerID != budget.OwnerID {
		return nil, domain.ErrBudgetNotFound
	}
	stored := *budget
	stored.UpdatedAt = time.Now()
	m.Budgets[stored.ID] = &stored
	result := stored
	return &result, nil
}

// SetActive flips the active flag
func (m *MockBudgetRepository) SetActive(ctx context.Context, ownerID uuid.UUID, id int32, active bool) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	budget, ok := m.Budgets[id]
	if !ok || budget.OwnerID != ownerID {
		return nil, domain.ErrBudgetNotFound
	}
	budget.IsActive = active
	budget.UpdatedAt = time.Now()
	result := *budget
	return &result, nil
}

// ListByOwner returns the owner's budgets ordered by start date, newest first
func (m *MockBudgetRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, activeOnly bool) ([]*domain.Budget, error) {
	if m.ListFn != nil {
		return m.ListFn(ownerID, activeOnly)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	budgets := []*domain.Budget{}
	for _, b := range m.Budgets {
		if b.OwnerID == ownerID && (!activeOnly || b.IsActive) {
			copied := *b
			budgets = append(budgets, &copied)
		}
	}
	sort.Slice(budgets, func(i, j int) bool {
		if !budgets[i].StartDate.Equal(budgets[j].StartDate) {
			return budgets[i].StartDate.After(budgets[j].StartDate)
		}
		return budgets[i].ID > budgets[j].ID
	})
	return budgets, nil
}

// ExistsByName reports whether another budget of the owner uses name
func (m *MockBudgetRepository) ExistsByName(ctx context.Context, ownerID uuid.UUID, name string, excludeID *int32) (bool, error) {
	if m.ExistsByNameFn != nil {
		return m.ExistsByNameFn(ownerID, name, excludeID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.Budgets {
		if b.OwnerID != ownerID || b.Name != name {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		return true, nil
	}
	return false, nil
}

// AddBudget adds a budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(budget *domain.Budget) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *budget
	m.Budgets[stored.ID] = &stored
	if stored.ID >= m.NextID {
		m.NextID = stored.ID + 1
	}
}

// MockTxManager serializes WithinOwnerTx calls per owner, standing in for
// the advisory lock taken by the Postgres implementation. It does not roll
// back.
type MockTxManager struct {
	Calls           int
	WithinOwnerTxFn func(ctx context.Context, ownerID uuid.UUID, fn func(ctx context.Context) error) error
	mu              sync.Mutex
	locks           map[uuid.UUID]*sync.Mutex
}

// NewMockTxManager creates a new MockTxManager
func NewMockTxManager() *MockTxManager {
	return &MockTxManager{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// WithinOwnerTx runs fn while holding the owner's lock
func (m *MockTxManager) WithinOwnerTx(ctx context.Context, ownerID uuid.UUID, fn func(ctx context.Context) error) error {
	if m.WithinOwnerTxFn != nil {
		return m.WithinOwnerTxFn(ctx, ownerID, fn)
	}
	m.mu.Lock()
	m.Calls++
	lock, ok := m.locks[ownerID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[ownerID] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn(ctx)
}

// RecordingPublisher captures published events per owner
type RecordingPublisher struct {
	Events map[uuid.UUID][]websocket.Event
	mu     sync.Mutex
}

// NewRecordingPublisher creates a new RecordingPublisher
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{Events: make(map[uuid.UUID][]websocket.Event)}
}

// Publish records the event
func (p *RecordingPublisher) Publish(ownerID uuid.UUID, event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events[ownerID] = append(p.Events[ownerID], event)
}

// Types returns the event types published for an owner, in order
func (p *RecordingPublisher) Types(ownerID uuid.UUID) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.Events[ownerID]))
	for _, e := range p.Events[ownerID] {
		types = append(types, e.Type)
	}
	return types
}
