package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	v1 "github.com/kiddraughts-lab/draughts-telemetry/internal/api/v1"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/core/storage"
)

// PlayerAdapter implements storage.PlayerStore using PostgreSQL.
// The merge is a single INSERT ... ON CONFLICT statement, so concurrent
// events for the same user never interleave into a torn aggregate.
type PlayerAdapter struct {
	db *sql.DB
}

// NewPlayerAdapter creates a new PlayerAdapter sharing the given connection.
func NewPlayerAdapter(db *sql.DB) *PlayerAdapter {
	return &PlayerAdapter{db: db}
}

// ApplyEvent upserts the per-user aggregate. The insert path creates the
// record with the deltas as initial counter values and stamps created_at;
// the update path increments the counters and refreshes the last-seen fields.
func (a *PlayerAdapter) ApplyEvent(ctx context.Context, merge storage.PlayerMerge) error {
	_, err := a.db.ExecContext(ctx, queryMergePlayer,
		merge.UserID,
		merge.GamesDelta,
		merge.LessonStepsDelta,
		merge.SeenAt,
		merge.EventType,
		merge.EventTS,
	)
	if err != nil {
		return fmt.Errorf("player merge for user %d: %w", merge.UserID, err)
	}

	slog.Debug("[Postgres] Merged player aggregate",
		"user_id", merge.UserID,
		"event_type", merge.EventType,
		"games_delta", merge.GamesDelta,
		"lesson_steps_delta", merge.LessonStepsDelta)
	return nil
}

// GetPlayer fetches the aggregate for one user.
// Returns storage.ErrNotFound when the user has no record yet.
func (a *PlayerAdapter) GetPlayer(ctx context.Context, userID int64) (*v1.Player, error) {
	player, err := scanPlayerRow(a.db.QueryRowContext(ctx, queryGetPlayer, userID))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return player, nil
}
