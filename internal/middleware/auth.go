package middleware

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CustomClaims contains the custom claims from Auth0 JWT
type CustomClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"
	// Auth0IDKey is the context key for the Auth0 user ID (subject)
	Auth0IDKey contextKey = "auth0_id"
	// OwnerIDKey is the context key for the owner of the request's data
	OwnerIDKey contextKey = "owner_id"
)

// OwnerProvider resolves an Auth0 subject to an owner
type OwnerProvider interface {
	GetOwnerByAuth0ID(ctx context.Context, auth0ID string) (uuid.UUID, error)
}

// TokenValidator validates a raw bearer token. *validator.Validator
// satisfies it.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (interface{}, error)
}

// AuthMiddleware provides JWT validation middleware
type AuthMiddleware struct {
	validator     TokenValidator
	ownerProvider OwnerProvider
}

// NewAuth0Validator builds an RS256 validator for tokens issued by the
// Auth0 tenant at domain for audience. Signing keys are fetched from the
// tenant's JWKS endpoint and cached for five minutes.
func NewAuth0Validator(domain, audience string) (*validator.Validator, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	return validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
}

// NewAuthMiddleware creates a new AuthMiddleware with Auth0 configuration
func NewAuthMiddleware(domain, audience string, ownerProvider OwnerProvider) (*AuthMiddleware, error) {
	jwtValidator, err := NewAuth0Validator(domain, audience)
	if err != nil {
		return nil, err
	}
	return NewAuthMiddlewareWithValidator(jwtValidator, ownerProvider), nil
}

// Validator returns the token validator, for sharing with other transports
func (m *AuthMiddleware) Validator() TokenValidator {
	return m.validator
}

// NewAuthMiddlewareWithValidator creates an AuthMiddleware around an
// existing token validator
func NewAuthMiddlewareWithValidator(tokenValidator TokenValidator, ownerProvider OwnerProvider) *AuthMiddleware {
	return &AuthMiddleware{
		validator:     tokenValidator,
		ownerProvider: ownerProvider,
	}
}

// Authenticate returns an Echo middleware that validates JWT tokens and
// resolves the owner. A subject with no user row yet passes through without
// an owner so the auth callback can create it.
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorizedError(c, "Missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return unauthorizedError(c, "Invalid authorization header format")
			}

			claims, err := m.validator.ValidateToken(c.Request().Context(), parts[1])
			if err != nil {
				log.Debug().Err(err).Msg("Token validation failed")
				return unauthorizedError(c, "Invalid token")
			}

			validatedClaims, ok := claims.(*validator.ValidatedClaims)
			if !ok {
				return unauthorizedError(c, "Invalid claims")
			}

			auth0ID := validatedClaims.RegisteredClaims.Subject

			ctx := context.WithValue(c.Request().Context(), ClaimsKey, validatedClaims)
			ctx = context.WithValue(ctx, Auth0IDKey, auth0ID)

			if m.ownerProvider != nil {
				ownerID, err := m.ownerProvider.GetOwnerByAuth0ID(ctx, auth0ID)
				switch {
				case err == nil:
					ctx = context.WithValue(ctx, OwnerIDKey, ownerID)
				case errors.Is(err, domain.ErrUserNotFound):
					log.Debug().Str("auth0_id", auth0ID).Msg("No owner yet for subject")
				default:
					log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Owner lookup failed")
					return unauthorizedError(c, "Owner lookup failed")
				}
			}

			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetAuth0ID extracts the Auth0 user ID from the context
func GetAuth0ID(c echo.Context) string {
	if id, ok := c.Request().Context().Value(Auth0IDKey).(string); ok {
		return id
	}
	return ""
}

// GetClaims extracts the validated claims from the context
func GetClaims(c echo.Context) *validator.ValidatedClaims {
	if claims, ok := c.Request().Context().Value(ClaimsKey).(*validator.ValidatedClaims); ok {
		return claims
	}
	return nil
}

// GetCustomClaims extracts the custom claims from the context
func GetCustomClaims(c echo.Context) *CustomClaims {
	claims := GetClaims(c)
	if claims == nil {
		return nil
	}
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok {
		return custom
	}
	return nil
}

// GetOwnerID extracts the owner ID from the context, or uuid.Nil when the
// request has none
func GetOwnerID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(OwnerIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// WithOwnerID returns a copy of ctx carrying ownerID
func WithOwnerID(ctx context.Context, ownerID uuid.UUID) context.Context {
	return context.WithValue(ctx, OwnerIDKey, ownerID)
}
