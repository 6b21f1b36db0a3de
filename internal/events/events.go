package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Loan lifecycle event types.
const (
	LoanCreated  = "loan.created"
	LoanReturned = "loan.returned"
	LoanDeleted  = "loan.deleted"
)

// Event records something that happened to the catalog.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the lifecycle event types, e.g. LoanCreated
	Type string `json:"type"`

	// Payload is the event data serialized as JSON
	Payload jsoniter.RawMessage `json:"payload"`

	CreatedAt time.Time `json:"created_at"`
}

// LoanPayload is the payload of every loan lifecycle event.
type LoanPayload struct {
	LoanID int64  `json:"loan_id"`
	BookID int64  `json:"book_id"`
	UserID int64  `json:"user_id"`
	Status string `json:"status"`
}

// UnmarshalPayload decodes the event payload into v.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates an Event of the given type, serializing payload as JSON.
func NewEvent(eventType string, payload any, now time.Time) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: now,
	}, nil
}

// EventHandler processes emitted events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter publishes events without knowing who handles them.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *Event) error
}
