package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginFailed    EventType = "login_failed"
)

// Event is an audit record emitted by the auth service. It never carries credentials.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Identifier string    `json:"identifier"`
	Timestamp  time.Time `json:"timestamp"`
	Payload    any       `json:"payload,omitempty"`
}

// LoginFailedPayload records which internal failure kind occurred.
type LoginFailedPayload struct {
	Reason string `json:"reason"`
}

// NewEvent stamps an event with an ID and the current time.
func NewEvent(eventType EventType, identifier string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Identifier: identifier,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}
