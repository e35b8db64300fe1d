package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UncategorizedLabel names the synthetic bucket for transactions without a category.
const UncategorizedLabel = "Uncategorized"

// UncategorizedColor is the display color used for the synthetic bucket.
const UncategorizedColor = "#6c757d"

// DefaultColorCode is assigned to categories created without a color.
const DefaultColorCode = "#007bff"

type Category struct {
	ID          int32     `json:"id"`
	OwnerID     uuid.UUID `json:"ownerId"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	ColorCode   string    `json:"colorCode"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryUsage pairs a category with the number of transactions referencing it.
type CategoryUsage struct {
	Category         *Category
	TransactionCount int64
}

// DefaultCategory is one entry of the canned seed set.
type DefaultCategory struct {
	Name        string
	Description string
	ColorCode   string
}

// DefaultCategories is the set created by the seed-defaults operation.
var DefaultCategories = []DefaultCategory{
	{Name: "Food & Dining", Description: "Restaurants, groceries, and food expenses", ColorCode: "#e74c3c"},
	{Name: "Transportation", Description: "Gas, public transport, car maintenance", ColorCode: "#3498db"},
	{Name: "Entertainment", Description: "Movies, games, hobbies, and leisure activities", ColorCode: "#9b59b6"},
	{Name: "Shopping", Description: "Clothing, electronics, and general shopping", ColorCode: "#f39c12"},
	{Name: "Bills & Utilities", Description: "Electricity, water, internet, phone bills", ColorCode: "#34495e"},
	{Name: "Healthcare", Description: "Medical expenses, pharmacy, health insurance", ColorCode: "#1abc9c"},
	{Name: "Education", Description: "Books, courses, school fees", ColorCode: "#2ecc71"},
	{Name: "Travel", Description: "Vacation, business trips, accommodation", ColorCode: "#e67e22"},
	{Name: "Salary", Description: "Monthly salary and regular income", ColorCode: "#27ae60"},
	{Name: "Freelance", Description: "Freelance work and side projects", ColorCode: "#16a085"},
	{Name: "Investment", Description: "Investment returns and dividends", ColorCode: "#8e44ad"},
	{Name: "Other", Description: "Miscellaneous income and expenses", ColorCode: "#95a5a6"},
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByID(ctx context.Context, ownerID uuid.UUID, id int32) (*Category, error)
	GetByName(ctx context.Context, ownerID uuid.UUID, name string) (*Category, error)
	// ListByOwner returns the owner's categories ordered by name. Inactive
	// categories are included only when includeInactive is set.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]*Category, error)
	Update(ctx context.Context, category *Category) (*Category, error)
	SetActive(ctx context.Context, ownerID uuid.UUID, id int32, active bool) (*Category, error)
}
