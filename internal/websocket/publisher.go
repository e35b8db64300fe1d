package websocket

import "github.com/google/uuid"

// EventPublisher delivers change events to an owner's live connections.
// Services publish after a mutation commits.
type EventPublisher interface {
	Publish(ownerID uuid.UUID, event Event)
}

var _ EventPublisher = (*Hub)(nil)

// Publish broadcasts the event to the owner's clients
func (h *Hub) Publish(ownerID uuid.UUID, event Event) {
	h.Broadcast(ownerID, event)
}

// NoOpPublisher discards events
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(ownerID uuid.UUID, event Event) {}

// EventObserver is told about every event an ObservedPublisher forwards.
// *metrics.Recorder satisfies it.
type EventObserver interface {
	EventPublished(eventType string)
}

// ObservedPublisher reports each event to an observer and then forwards it
type ObservedPublisher struct {
	next     EventPublisher
	observer EventObserver
}

// NewObservedPublisher wraps next
func NewObservedPublisher(next EventPublisher, observer EventObserver) *ObservedPublisher {
	return &ObservedPublisher{next: next, observer: observer}
}

// Publish implements EventPublisher
func (p *ObservedPublisher) Publish(ownerID uuid.UUID, event Event) {
	p.observer.EventPublished(event.Type)
	p.next.Publish(ownerID, event)
}
