package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/fintrack/fintrack-backend/internal/middleware"
	"github.com/fintrack/fintrack-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CategorySeeder gives a new owner the default categories.
// *service.CategoryService satisfies it.
type CategorySeeder interface {
	SeedDefaultCategories(ctx context.Context, ownerID uuid.UUID) ([]*domain.Category, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	seeder      CategorySeeder
}

// NewAuthHandler creates a new AuthHandler. seeder may be nil, in which
// case new owners start with no categories.
func NewAuthHandler(authService *service.AuthService, seeder CategorySeeder) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		seeder:      seeder,
	}
}

// AuthCallbackResponse represents the response from the auth callback
type AuthCallbackResponse struct {
	User             UserResponse `json:"user"`
	IsNewUser        bool         `json:"isNewUser"`
	SeededCategories int          `json:"seededCategories"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	CreatedAt string  `json:"createdAt"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// Callback handles POST /api/v1/auth/callback. The frontend calls it after
// receiving the Auth0 token; the owner row is created on first sight.
func (h *AuthHandler) Callback(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		log.Error().Msg("No Auth0 ID in context - middleware may not be configured")
		return NewUnauthorizedError(c, "Authentication required")
	}

	var email, name string
	if customClaims := middleware.GetCustomClaims(c); customClaims != nil {
		email = customClaims.Email
		name = customClaims.Name
	}

	if email == "" {
		log.Error().Str("auth0_id", auth0ID).Msg("No email in JWT claims")
		return NewValidationError(c, "Email is required for authentication", []ValidationError{
			{Field: "email", Message: "Email claim is missing from token"},
		})
	}

	var namePtr *string
	if name != "" {
		namePtr = &name
	}

	result, err := h.authService.AuthenticateUser(c.Request().Context(), auth0ID, email, namePtr)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to authenticate user")
		return NewInternalError(c, "Failed to authenticate user")
	}

	response := AuthCallbackResponse{
		User:      toUserResponse(result.User),
		IsNewUser: result.IsNewUser,
	}
	if result.IsNewUser && h.seeder != nil {
		response.SeededCategories = h.seedCategories(c.Request().Context(), result.User.ID)
	}

	return c.JSON(http.StatusOK, response)
}

// seedCategories never fails the login; the owner can seed again from the
// categories endpoint.
func (h *AuthHandler) seedCategories(ctx context.Context, ownerID uuid.UUID) int {
	created, err := h.seeder.SeedDefaultCategories(ctx, ownerID)
	if err != nil {
		log.Warn().Err(err).Str("owner_id", ownerID.String()).Msg("Failed to seed default categories")
		return 0
	}
	return len(created)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	if middleware.GetAuth0ID(c) == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewNotFoundError(c, "User not found")
	}

	user, err := h.authService.GetUserByID(c.Request().Context(), ownerID)
	if err != nil {
		return writeServiceError(c, err, "Failed to get user")
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// LogoutResponse represents the response from logout
type LogoutResponse struct {
	Message string `json:"message"`
}

// Logout handles POST /api/v1/auth/logout. Auth0 ends the session; this only
// records the event.
func (h *AuthHandler) Logout(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	log.Info().Str("auth0_id", auth0ID).Msg("User logged out")

	return c.JSON(http.StatusOK, LogoutResponse{
		Message: "Logged out successfully",
	})
}
