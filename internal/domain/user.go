package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is the owner of every transaction, category and budget.
type User struct {
	ID        uuid.UUID `json:"id"`
	Auth0ID   string    `json:"auth0Id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByAuth0ID(ctx context.Context, auth0ID string) (*User, error)
	CreateOrGetByAuth0ID(ctx context.Context, auth0ID, email string, name *string) (*User, error)
}
