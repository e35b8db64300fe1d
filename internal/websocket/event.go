package websocket

import (
	"encoding/json"
	"time"
)

// EventType is the action that happened to an entity
type EventType string

const (
	EventTypeCreated     EventType = "created"
	EventTypeUpdated     EventType = "updated"
	EventTypeDeleted     EventType = "deleted"
	EventTypeActivated   EventType = "activated"
	EventTypeDeactivated EventType = "deactivated"
	EventTypeSeeded      EventType = "seeded"
)

// EntityType is the kind of record an event describes
type EntityType string

const (
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeCategory    EntityType = "category"
	EntityTypeBudget      EntityType = "budget"
)

// Event is the message pushed to clients after a ledger change.
// Type joins entity and action, e.g. "budget.created".
type Event struct {
	Type      string      `json:"type"`
	Entity    EntityType  `json:"entity"`
	Action    EventType   `json:"action"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent stamps an event with the current UTC time
func NewEvent(action EventType, entity EntityType, payload interface{}) Event {
	return Event{
		Type:      string(entity) + "." + string(action),
		Entity:    entity,
		Action:    action,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON encodes the event as sent on the wire
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
}

func TransactionUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeTransaction, payload)
}

func TransactionDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransaction, payload)
}

func CategoryCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeCategory, payload)
}

func CategoryUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeCategory, payload)
}

func CategoryActivated(payload interface{}) Event {
	return NewEvent(EventTypeActivated, EntityTypeCategory, payload)
}

func CategoryDeactivated(payload interface{}) Event {
	return NewEvent(EventTypeDeactivated, EntityTypeCategory, payload)
}

// CategoriesSeeded carries every category created by a default seed
func CategoriesSeeded(payload interface{}) Event {
	return NewEvent(EventTypeSeeded, EntityTypeCategory, payload)
}

func BudgetCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeBudget, payload)
}

func BudgetUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBudget, payload)
}

func BudgetActivated(payload interface{}) Event {
	return NewEvent(EventTypeActivated, EntityTypeBudget, payload)
}

func BudgetDeactivated(payload interface{}) Event {
	return NewEvent(EventTypeDeactivated, EntityTypeBudget, payload)
}
