package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserLoggedIn   EventType = "user_logged_in"
	EventUserLoggedOut  EventType = "user_logged_out"
	EventAuthFailed     EventType = "auth_failed"
	EventOrderPlaced    EventType = "order_placed"
	EventOrderFailed    EventType = "order_failed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    int64       `json:"user_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, userID int64, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// AuthFailedPayload payload.
type AuthFailedPayload struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// OrderPlacedPayload payload.
type OrderPlacedPayload struct {
	OrderID int64         `json:"order_id"`
	Pizzas  int           `json:"pizzas"`
	Revenue float64       `json:"revenue"`
	Latency time.Duration `json:"latency"`
}

// OrderFailedPayload payload.
type OrderFailedPayload struct {
	OrderID   int64         `json:"order_id"`
	Latency   time.Duration `json:"latency"`
	ReportURL string        `json:"report_url,omitempty"`
}
