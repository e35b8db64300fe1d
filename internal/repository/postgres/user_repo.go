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

const userColumns = `id, auth0_id, email, name, created_at, updated_at`

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID retrieves a user by their UUID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, uuidToPg(id))
	return scanUser(row)
}

// GetByAuth0ID retrieves a user by their Auth0 ID
func (r *UserRepository) GetByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error) {
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE auth0_id = $1`, auth0ID)
	return scanUser(row)
}

// CreateOrGetByAuth0ID creates a new user or returns the existing one (upsert on login).
// Email and name are refreshed from the identity provider on every call.
func (r *UserRepository) CreateOrGetByAuth0ID(ctx context.Context, auth0ID, email string, name *string) (*domain.User, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO users (auth0_id, email, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (auth0_id) DO UPDATE
		SET email = EXCLUDED.email,
		    name = COALESCE(EXCLUDED.name, users.name),
		    updated_at = NOW()
		RETURNING `+userColumns,
		auth0ID, email, stringPtrToPgText(name))
	return scanUser(row)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		id        pgtype.UUID
		u         domain.User
		name      pgtype.Text
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &u.Auth0ID, &u.Email, &name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	u.ID = pgToUUID(id)
	u.Name = pgTextToStringPtr(name)
	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time
	return &u, nil
}
