package websocket

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when sending to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface is what the hub needs from a connection. Send must not
// block.
type ClientInterface interface {
	ID() string
	OwnerID() uuid.UUID
	Send(data []byte) error
	Close() error
}

// Hub fans events out to the live connections of each owner. It is safe
// for concurrent use.
type Hub struct {
	mu     sync.RWMutex
	owners map[uuid.UUID]map[string]ClientInterface
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{owners: make(map[uuid.UUID]map[string]ClientInterface)}
}

// Register adds a client under its owner. Registering the same client ID
// twice replaces the earlier entry.
func (h *Hub) Register(client ClientInterface) {
	ownerID := client.OwnerID()

	h.mu.Lock()
	clients, ok := h.owners[ownerID]
	if !ok {
		clients = make(map[string]ClientInterface)
		h.owners[ownerID] = clients
	}
	clients[client.ID()] = client
	count := len(clients)
	h.mu.Unlock()

	log.Debug().
		Str("owner_id", ownerID.String()).
		Str("client_id", client.ID()).
		Int("owner_clients", count).
		Msg("WebSocket client registered")
}

// Unregister removes a client. Unknown clients are ignored.
func (h *Hub) Unregister(client ClientInterface) {
	if h.remove(client) {
		log.Debug().
			Str("owner_id", client.OwnerID().String()).
			Str("client_id", client.ID()).
			Msg("WebSocket client unregistered")
	}
}

func (h *Hub) remove(client ClientInterface) bool {
	ownerID := client.OwnerID()

	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.owners[ownerID]
	if !ok || clients[client.ID()] != client {
		return false
	}
	delete(clients, client.ID())
	if len(clients) == 0 {
		delete(h.owners, ownerID)
	}
	return true
}

// snapshot copies the owner's clients so sends happen without the lock
func (h *Hub) snapshot(ownerID uuid.UUID) []ClientInterface {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.owners[ownerID]
	out := make([]ClientInterface, 0, len(clients))
	for _, client := range clients {
		out = append(out, client)
	}
	return out
}

// Broadcast sends an event to every client of one owner. A client that
// refuses the message is dropped from the hub.
func (h *Hub) Broadcast(ownerID uuid.UUID, event Event) {
	clients := h.snapshot(ownerID)
	if len(clients) == 0 {
		return
	}

	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Str("owner_id", ownerID.String()).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	delivered := 0
	for _, client := range clients {
		if err := client.Send(data); err != nil {
			log.Warn().
				Err(err).
				Str("owner_id", ownerID.String()).
				Str("client_id", client.ID()).
				Msg("Dropping WebSocket client")
			h.remove(client)
			continue
		}
		delivered++
	}

	log.Debug().
		Str("owner_id", ownerID.String()).
		Str("event_type", event.Type).
		Int("delivered", delivered).
		Msg("Broadcast event")
}

// ClientCount returns the number of clients connected for an owner
func (h *Hub) ClientCount(ownerID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.owners[ownerID])
}

// TotalClientCount returns the number of clients across all owners
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.owners {
		total += len(clients)
	}
	return total
}
