package storage

import (
	"context"
	"errors"
	"time"

	v1 "github.com/kiddraughts-lab/draughts-telemetry/internal/api/v1"
)

// ErrDuplicate is returned when an event with the same eventId already exists.
var ErrDuplicate = errors.New("event already exists")

// ErrNotFound is returned when a lookup by identity key matches no record.
var ErrNotFound = errors.New("record not found")

// EventStore persists immutable telemetry events.
type EventStore interface {
	// SaveEvent inserts the event. Returns ErrDuplicate when an event with
	// the same eventId is already stored; the caller decides how to fold that.
	SaveEvent(ctx context.Context, event *v1.Event) error

	// GetEvent fetches one event by its eventId. Returns ErrNotFound when absent.
	GetEvent(ctx context.Context, eventID string) (*v1.Event, error)
}

// PlayerMerge is one field-level merge applied to a player aggregate.
// The counter deltas are decided by the counter rules before the store is
// asked to apply them, keeping the merge policy visible and testable.
type PlayerMerge struct {
	UserID           int64
	EventType        string
	EventTS          int64
	SeenAt           time.Time
	GamesDelta       int64
	LessonStepsDelta int64
}

// PlayerStore keeps the per-user rolling aggregates.
type PlayerStore interface {
	// ApplyEvent upserts the aggregate for merge.UserID atomically:
	// last-seen fields are set unconditionally, counters are incremented by
	// the supplied deltas, and a missing record is created with zeroed
	// counters before the deltas apply.
	ApplyEvent(ctx context.Context, merge PlayerMerge) error

	// GetPlayer fetches the aggregate for a user. Returns ErrNotFound when
	// the user has no record yet.
	GetPlayer(ctx context.Context, userID int64) (*v1.Player, error)
}

// GameStore keeps one record per match, keyed by gameId.
type GameStore interface {
	// UpsertHeader creates the record with status=running, or updates the
	// header fields of an existing record without touching its status,
	// creation time, or finalize-only fields.
	UpsertHeader(ctx context.Context, header *v1.GameHeader) error

	// Finalize overwrites the record with the finished state, preserving
	// createdAt when the record already existed. Re-finalizing an already
	// finished game overwrites it again.
	Finalize(ctx context.Context, game *v1.Game) error

	// GetGame fetches one match by its gameId. Returns ErrNotFound when absent.
	GetGame(ctx context.Context, gameID string) (*v1.Game, error)
}
