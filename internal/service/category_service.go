package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/fintrack/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultMostUsedLimit is used when no positive limit is requested
const DefaultMostUsedLimit = 5

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo    domain.CategoryRepository
	transactionRepo domain.TransactionRepository
	publisher       websocket.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository, transactionRepo domain.TransactionRepository, publisher websocket.EventPublisher) *CategoryService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &CategoryService{
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
	}
}

// CategoryInput holds the client-editable fields of a category
type CategoryInput struct {
	Name        string
	Description *string
	ColorCode   string
}

// CreateCategory creates a new active category
func (s *CategoryService) CreateCategory(ctx context.Context, ownerID uuid.UUID, input CategoryInput) (*domain.Category, error) {
	category := &domain.Category{OwnerID: ownerID, IsActive: true}
	if err := s.apply(ctx, category, input); err != nil {
		return nil, err
	}

	created, err := s.categoryRepo.Create(ctx, category)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ownerID, websocket.CategoryCreated(created))
	return created, nil
}

// UpdateCategory replaces the editable fields of a category
func (s *CategoryService) UpdateCategory(ctx context.Context, ownerID uuid.UUID, id int32, input CategoryInput) (*domain.Category, error) {
	existing, err := s.categoryRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, existing, input); err != nil {
		return nil, err
	}

	updated, err := s.categoryRepo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ownerID, websocket.CategoryUpdated(updated))
	return updated, nil
}

// GetCategory retrieves a category by ID
func (s *CategoryService) GetCategory(ctx context.Context, ownerID uuid.UUID, id int32) (*domain.Category, error) {
	return s.categoryRepo.GetByID(ctx, ownerID, id)
}

// GetCategories lists the owner's categories ordered by name
func (s *CategoryService) GetCategories(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]*domain.Category, error) {
	return s.categoryRepo.ListByOwner(ctx, ownerID, includeInactive)
}

// ActivateCategory re-enables a deactivated category
func (s *CategoryService) ActivateCategory(ctx context.Context, ownerID uuid.UUID, id int32) (*domain.Category, error) {
	category, err := s.categoryRepo.SetActive(ctx, ownerID, id, true)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ownerID, websocket.CategoryActivated(category))
	return category, nil
}

// DeactivateCategory hides a category. Transactions and budgets keep their
// reference to it.
func (s *CategoryService) DeactivateCategory(ctx context.Context, ownerID uuid.UUID, id int32) (*domain.Category, error) {
	category, err := s.categoryRepo.SetActive(ctx, ownerID, id, false)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ownerID, websocket.CategoryDeactivated(category))
	return category, nil
}

// DeleteCategory deactivates a category; categories are never removed
func (s *CategoryService) DeleteCategory(ctx context.Context, ownerID uuid.UUID, id int32) error {
	_, err := s.DeactivateCategory(ctx, ownerID, id)
	return err
}

// SeedDefaultCategories creates the canned category set. Names the owner
// already uses are skipped, so running it twice creates nothing new.
func (s *CategoryService) SeedDefaultCategories(ctx context.Context, ownerID uuid.UUID) ([]*domain.Category, error) {
	created := make([]*domain.Category, 0, len(domain.DefaultCategories))
	for _, def := range domain.DefaultCategories {
		_, err := s.categoryRepo.GetByName(ctx, ownerID, def.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, err
		}

		description := def.Description
		category, err := s.categoryRepo.Create(ctx, &domain.Category{
			OwnerID:     ownerID,
			Name:        def.Name,
			Description: &description,
			ColorCode:   def.ColorCode,
			IsActive:    true,
		})
		if err != nil {
			return nil, err
		}
		created = append(created, category)
	}

	log.Info().Str("owner_id", ownerID.String()).Int("created", len(created)).Msg("Seeded default categories")
	if len(created) > 0 {
		s.publisher.Publish(ownerID, websocket.CategoriesSeeded(created))
	}
	return created, nil
}

// GetCategoriesWithCounts lists active categories with their transaction
// counts, ordered by name. Unused categories report zero.
func (s *CategoryService) GetCategoriesWithCounts(ctx context.Context, ownerID uuid.UUID) ([]domain.CategoryUsage, error) {
	categories, err := s.categoryRepo.ListByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	counts, err := s.transactionRepo.CountByCategory(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	usage := make([]domain.CategoryUsage, 0, len(categories))
	for _, c := range categories {
		usage = append(usage, domain.CategoryUsage{Category: c, TransactionCount: counts[c.ID]})
	}
	return usage, nil
}

// GetMostUsedCategories returns up to limit active categories that have at
// least one transaction, most used first and ties broken by name.
func (s *CategoryService) GetMostUsedCategories(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.CategoryUsage, error) {
	if limit <= 0 {
		limit = DefaultMostUsedLimit
	}

	usage, err := s.GetCategoriesWithCounts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	used := make([]domain.CategoryUsage, 0, len(usage))
	for _, u := range usage {
		if u.TransactionCount > 0 {
			used = append(used, u)
		}
	}
	sort.SliceStable(used, func(i, j int) bool {
		if used[i].TransactionCount != used[j].TransactionCount {
			return used[i].TransactionCount > used[j].TransactionCount
		}
		return used[i].Category.Name < used[j].Category.Name
	})

	if len(used) > limit {
		used = used[:limit]
	}
	return used, nil
}

// apply validates input and copies it onto c. Name uniqueness is checked
// against every other category of the owner, active or not.
func (s *CategoryService) apply(ctx context.Context, c *domain.Category, input CategoryInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.NewValidationError("name", domain.ErrNameRequired, "Category name is required")
	}
	if len([]rune(name)) > domain.MaxNameLength {
		return domain.NewValidationError("name", domain.ErrNameTooLong, "Category name must be %d characters or less", domain.MaxNameLength)
	}

	description := normalizeOptional(input.Description)
	if description != nil && len([]rune(*description)) > domain.MaxDescriptionLength {
		return domain.NewValidationError("description", domain.ErrDescriptionTooLong, "Category description must be %d characters or less", domain.MaxDescriptionLength)
	}

	existing, err := s.categoryRepo.GetByName(ctx, c.OwnerID, name)
	switch {
	case err == nil && existing.ID != c.ID:
		return domain.NewValidationError("name", domain.ErrCategoryExists, "Category name already exists: %s", name)
	case err != nil && !errors.Is(err, domain.ErrCategoryNotFound):
		return err
	}

	color := strings.TrimSpace(input.ColorCode)
	if color == "" {
		color = domain.DefaultColorCode
	}

	c.Name = name
	c.Description = description
	c.ColorCode = color
	return nil
}
