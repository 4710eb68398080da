package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated   EventType = "created"
	EventTypeUpdated   EventType = "updated"
	EventTypeDeleted   EventType = "deleted"
	EventTypeDismissed EventType = "dismissed"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeBudget      EntityType = "budget"
	EntityTypeGoal        EntityType = "goal"
	EntityTypeRecurring   EntityType = "recurring"
	EntityTypeAlert       EntityType = "alert"
	EntityTypeReminder    EntityType = "reminder"
	EntityTypeHealthScore EntityType = "health_score"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "alert.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "alert"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionCreated creates a transaction.created event
func TransactionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
}

// TransactionUpdated creates a transaction.updated event
func TransactionUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeTransaction, payload)
}

// TransactionDeleted creates a transaction.deleted event
func TransactionDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransaction, payload)
}

// BudgetCreated creates a budget.created event
func BudgetCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeBudget, payload)
}

// BudgetUpdated creates a budget.updated event
func BudgetUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBudget, payload)
}

// BudgetDeleted creates a budget.deleted event
func BudgetDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeBudget, payload)
}

// GoalUpdated creates a goal.updated event
func GoalUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeGoal, payload)
}

// RecurringCreated creates a recurring.created event
func RecurringCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeRecurring, payload)
}

// RecurringUpdated creates a recurring.updated event
func RecurringUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeRecurring, payload)
}

// RecurringDeleted creates a recurring.deleted event
func RecurringDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeRecurring, payload)
}

// AlertCreated creates an alert.created event
func AlertCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeAlert, payload)
}

// ReminderCreated creates a reminder.created event
func ReminderCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeReminder, payload)
}

// ReminderDismissed creates a reminder.dismissed event
func ReminderDismissed(payload interface{}) Event {
	return NewEvent(EventTypeDismissed, EntityTypeReminder, payload)
}

// HealthScoreUpdated creates a health_score.updated event
func HealthScoreUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeHealthScore, payload)
}
