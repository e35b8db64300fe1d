package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/fintrack/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// JWTValidator validates JWT tokens and returns the owner they belong to
type JWTValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

// WebSocketHandler upgrades authenticated requests into live-update
// subscriptions for the token's owner
type WebSocketHandler struct {
	ctx       context.Context
	hub       *websocket.Hub
	validator JWTValidator
	anyOrigin bool
	origins   map[string]bool
	upgrader  ws.Upgrader
}

// NewWebSocketHandler creates a WebSocketHandler. Connections it accepts are
// closed when ctx ends. An allowed origin of "*" accepts every origin.
func NewWebSocketHandler(ctx context.Context, hub *websocket.Hub, validator JWTValidator, allowedOrigins []string) *WebSocketHandler {
	h := &WebSocketHandler{
		ctx:       ctx,
		hub:       hub,
		validator: validator,
		origins:   make(map[string]bool, len(allowedOrigins)),
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			h.anyOrigin = true
		}
		h.origins[origin] = true
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	// Non-browser clients send no Origin
	if origin == "" || h.anyOrigin || h.origins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// bearerToken reads the token query parameter, which browsers must use, and
// falls back to an Authorization header for other clients
func bearerToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	scheme, token, ok := strings.Cut(r.Header.Get(echo.HeaderAuthorization), " ")
	if ok && strings.EqualFold(scheme, "bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// HandleWS handles GET /ws
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	token := bearerToken(c.Request())
	if token == "" {
		log.Debug().Msg("WebSocket connection rejected: missing token")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}

	ownerID, err := h.validator.ValidateToken(c.Request().Context(), token)
	if err != nil {
		log.Debug().Err(err).Msg("WebSocket connection rejected: invalid token")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Str("owner_id", ownerID.String()).Msg("WebSocket upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, ownerID)
	log.Info().
		Str("owner_id", ownerID.String()).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	go func() {
		client.Serve(h.ctx, h.hub)
		log.Info().
			Str("owner_id", ownerID.String()).
			Str("client_id", client.ID()).
			Msg("WebSocket client disconnected")
	}()

	return nil
}
