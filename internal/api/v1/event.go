package v1

import (
	"fmt"
	"time"
)

// Event is an immutable telemetry fact reported by the game client.
// The envelope (identity, actor, type, event time) is validated on ingestion;
// Data is carried opaquely and never interpreted by this service.
type Event struct {
	// EventID is the caller-supplied globally unique identifier.
	// Duplicate submissions of the same EventID fold into a success no-op.
	EventID string `json:"eventId"`

	// UserID identifies the player the event belongs to. Must be positive.
	UserID int64 `json:"userId"`

	// Type is the domain event tag (e.g. "match_end", "lesson_step_completed").
	// It selects which player counter, if any, the event bumps.
	Type string `json:"type"`

	// TS is the client-side event time in unix seconds.
	TS int64 `json:"ts"`

	// Optional correlation handles.
	GameID        string `json:"gameId,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
	SessionID     string `json:"sessionId,omitempty"`

	// SchemaVersion of the Data payload. Defaults to 1 when omitted.
	SchemaVersion int `json:"schemaVersion"`

	// Data is the opaque structured payload.
	Data map[string]interface{} `json:"data,omitempty"`

	// ReceivedAt is the server-side ingestion timestamp. Set by the service,
	// never by the caller.
	ReceivedAt time.Time `json:"receivedAt"`
}

// Validate ensures the envelope carries every required attribute and applies
// defaults, producing a fully-defaulted record or an error.
func (e *Event) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("eventId is required")
	}

	if e.UserID <= 0 {
		return fmt.Errorf("userId must be a positive integer")
	}

	if e.Type == "" {
		return fmt.Errorf("type is required")
	}

	if e.TS <= 0 {
		return fmt.Errorf("ts is required")
	}

	if e.SchemaVersion == 0 {
		e.SchemaVersion = 1
	}

	return nil
}
