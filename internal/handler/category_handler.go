package handler

import (
	"net/http"

	"github.com/fintrack/fintrack-backend/internal/middleware"
	"github.com/fintrack/fintrack-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const maxMostUsedLimit = 50

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest is the body of create and update requests
type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	ColorCode   string  `json:"colorCode,omitempty" validate:"omitempty,color_code"`
}

func (r *CategoryRequest) toInput() service.CategoryInput {
	return service.CategoryInput{
		Name:        r.Name,
		Description: r.Description,
		ColorCode:   r.ColorCode,
	}
}

// CreateCategory handles POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeRequestError(c, err)
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), ownerID, req.toInput())
	if err != nil {
		return writeServiceError(c, err, "Failed to create category")
	}

	log.Info().
		Str("owner_id", ownerID.String()).
		Int32("category_id", category.ID).
		Str("name", category.Name).
		Msg("Category created")

	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// GetCategories handles GET /api/v1/categories. Pass all=true to list
// deactivated categories too.
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	categories, err := h.categoryService.GetCategories(c.Request().Context(), ownerID, parseBool(c, "all"))
	if err != nil {
		return writeServiceError(c, err, "Failed to get categories")
	}

	return c.JSON(http.StatusOK, toCategoryResponses(categories))
}

// GetCategory handles GET /api/v1/categories/:id
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	category, err := h.categoryService.GetCategory(c.Request().Context(), ownerID, id)
	if err != nil {
		return writeServiceError(c, err, "Failed to get category")
	}

	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// UpdateCategory handles PUT /api/v1/categories/:id
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeRequestError(c, err)
	}

	category, err := h.categoryService.UpdateCategory(c.Request().Context(), ownerID, id, req.toInput())
	if err != nil {
		return writeServiceError(c, err, "Failed to update category")
	}

	log.Info().
		Str("owner_id", ownerID.String()).
		Int32("category_id", id).
		Msg("Category updated")

	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// ActivateCategory handles PUT /api/v1/categories/:id/activate
func (h *CategoryHandler) ActivateCategory(c echo.Context) error {
	return h.setActive(c, true)
}

// DeactivateCategory handles PUT /api/v1/categories/:id/deactivate
func (h *CategoryHandler) DeactivateCategory(c echo.Context) error {
	return h.setActive(c, false)
}

func (h *CategoryHandler) setActive(c echo.Context, active bool) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	toggle := h.categoryService.DeactivateCategory
	if active {
		toggle = h.categoryService.ActivateCategory
	}
	category, err := toggle(c.Request().Context(), ownerID, id)
	if err != nil {
		return writeServiceError(c, err, "Failed to change category status")
	}

	log.Info().
		Str("owner_id", ownerID.String()).
		Int32("category_id", id).
		Bool("active", active).
		Msg("Category status changed")

	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// DeleteCategory handles DELETE /api/v1/categories/:id. The category is
// deactivated, not removed.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	if err := h.categoryService.DeleteCategory(c.Request().Context(), ownerID, id); err != nil {
		return writeServiceError(c, err, "Failed to delete category")
	}

	log.Info().
		Str("owner_id", ownerID.String()).
		Int32("category_id", id).
		Msg("Category deleted")

	return c.NoContent(http.StatusNoContent)
}

// SeedDefaults handles POST /api/v1/categories/defaults
func (h *CategoryHandler) SeedDefaults(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	created, err := h.categoryService.SeedDefaultCategories(c.Request().Context(), ownerID)
	if err != nil {
		return writeServiceError(c, err, "Failed to seed categories")
	}

	return c.JSON(http.StatusCreated, toCategoryResponses(created))
}

// GetCategoriesWithCounts handles GET /api/v1/categories/with-counts
func (h *CategoryHandler) GetCategoriesWithCounts(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	usages, err := h.categoryService.GetCategoriesWithCounts(c.Request().Context(), ownerID)
	if err != nil {
		return writeServiceError(c, err, "Failed to get category usage")
	}

	return c.JSON(http.StatusOK, toCategoryUsageResponses(usages))
}

// GetMostUsed handles GET /api/v1/categories/most-used?limit=N
func (h *CategoryHandler) GetMostUsed(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	limit := parseLimit(c, service.DefaultMostUsedLimit, maxMostUsedLimit)
	usages, err := h.categoryService.GetMostUsedCategories(c.Request().Context(), ownerID, limit)
	if err != nil {
		return writeServiceError(c, err, "Failed to get most used categories")
	}

	return c.JSON(http.StatusOK, toCategoryUsageResponses(usages))
}
