package postgres

import (
	"context"
	"errors"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoryColumns = `id, owner_id, name, description, color_code, is_active, created_at, updated_at`

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO categories (owner_id, name, description, color_code, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		uuidToPg(category.OwnerID),
		category.Name,
		stringPtrToPgText(category.Description),
		category.ColorCode,
		category.IsActive,
	)
	created, err := scanCategory(row)
	if err != nil {
		return nil, mapCategoryError(err)
	}
	return created, nil
}

// GetByID retrieves a category by its ID within an owner's data
func (r *CategoryRepository) GetByID(ctx context.Context, ownerID uuid.UUID, id int32) (*domain.Category, error) {
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE owner_id = $1 AND id = $2`,
		uuidToPg(ownerID), id)
	return scanCategory(row)
}

// GetByName retrieves a category by its exact name, active or not
func (r *CategoryRepository) GetByName(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Category, error) {
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE owner_id = $1 AND name = $2`,
		uuidToPg(ownerID), name)
	return scanCategory(row)
}

// ListByOwner retrieves the owner's categories ordered by name
func (r *CategoryRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]*domain.Category, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE owner_id = $1 AND ($2 OR is_active)
		ORDER BY name, id`,
		uuidToPg(ownerID), includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// Update replaces the editable fields of a category
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE categories
		SET name = $3, description = $4, color_code = $5, updated_at = NOW()
		WHERE owner_id = $1 AND id = $2
		RETURNING `+categoryColumns,
		uuidToPg(category.OwnerID),
		category.ID,
		category.Name,
		stringPtrToPgText(category.Description),
		category.ColorCode,
	)
	updated, err := scanCategory(row)
	if err != nil {
		return nil, mapCategoryError(err)
	}
	return updated, nil
}

// SetActive flips the active flag of a category
func (r *CategoryRepository) SetActive(ctx context.Context, ownerID uuid.UUID, id int32, active bool) (*domain.Category, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE categories
		SET is_active = $3, updated_at = NOW()
		WHERE owner_id = $1 AND id = $2
		RETURNING `+categoryColumns,
		uuidToPg(ownerID), id, active)
	return scanCategory(row)
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		c           domain.Category
		ownerID     pgtype.UUID
		description pgtype.Text
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)
	err := row.Scan(&c.ID, &ownerID, &c.Name, &description, &c.ColorCode, &c.IsActive, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	c.OwnerID = pgToUUID(ownerID)
	c.Description = pgTextToStringPtr(description)
	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time
	return &c, nil
}

func mapCategoryError(err error) error {
	if pgErrorCode(err) == pgUniqueViolation {
		return domain.ErrCategoryExists
	}
	return err
}
