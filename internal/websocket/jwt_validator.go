package websocket

import (
	"context"
	"errors"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	// ErrInvalidToken is returned when the handshake token fails validation
	ErrInvalidToken = errors.New("invalid token")
	// ErrOwnerNotFound is returned when the token subject has no user record
	ErrOwnerNotFound = errors.New("owner not found")
)

// OwnerLookup resolves the user ID for an Auth0 subject
type OwnerLookup interface {
	GetOwnerByAuth0ID(ctx context.Context, auth0ID string) (uuid.UUID, error)
}

// TokenVerifier checks a raw JWT. The HTTP auth middleware's validator is
// passed in so both transports accept the same tokens.
type TokenVerifier interface {
	ValidateToken(ctx context.Context, token string) (interface{}, error)
}

// Auth0JWTValidator turns a handshake token into the owner whose events the
// connection may receive
type Auth0JWTValidator struct {
	tokens      TokenVerifier
	ownerLookup OwnerLookup
}

// NewAuth0JWTValidator creates an Auth0JWTValidator
func NewAuth0JWTValidator(tokens TokenVerifier, ownerLookup OwnerLookup) *Auth0JWTValidator {
	return &Auth0JWTValidator{
		tokens:      tokens,
		ownerLookup: ownerLookup,
	}
}

// ValidateToken validates token and returns the owner it belongs to.
// Unlike HTTP requests, a subject without a user row is rejected.
func (v *Auth0JWTValidator) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := v.tokens.ValidateToken(ctx, token)
	if err != nil {
		log.Debug().Err(err).Msg("WebSocket token rejected")
		return uuid.Nil, ErrInvalidToken
	}

	validated, ok := claims.(*validator.ValidatedClaims)
	if !ok || validated.RegisteredClaims.Subject == "" {
		return uuid.Nil, ErrInvalidToken
	}

	ownerID, err := v.ownerLookup.GetOwnerByAuth0ID(ctx, validated.RegisteredClaims.Subject)
	if err != nil {
		return uuid.Nil, ErrOwnerNotFound
	}

	return ownerID, nil
}
