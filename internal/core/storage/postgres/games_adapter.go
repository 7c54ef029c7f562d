package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/kiddraughts-lab/draughts-telemetry/internal/api/v1"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/core/storage"
)

// GameAdapter implements storage.GameStore using PostgreSQL.
// Both lifecycle writes are single-statement upserts keyed on game_id.
type GameAdapter struct {
	db    *sql.DB
	nowFn func() time.Time
}

// NewGameAdapter creates a new GameAdapter sharing the given connection.
func NewGameAdapter(db *sql.DB) *GameAdapter {
	return &GameAdapter{
		db: db,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// UpsertHeader creates the match record with status=running, or refreshes the
// header fields of an existing record. status, created_at and the
// finalize-only columns are never touched on the update path.
func (a *GameAdapter) UpsertHeader(ctx context.Context, header *v1.GameHeader) error {
	whiteJSON, err := marshalJSONField(header.White, "white")
	if err != nil {
		return err
	}
	blackJSON, err := marshalJSONField(header.Black, "black")
	if err != nil {
		return err
	}

	_, err = a.db.ExecContext(ctx, queryUpsertGameHeader,
		header.GameID,
		header.Variant,
		nullString(header.Mode),
		header.Rated,
		nullString(header.TimeControl),
		whiteJSON,
		blackJSON,
		header.StartFEN,
		a.nowFn(),
	)
	if err != nil {
		return fmt.Errorf("game header upsert for %s: %w", header.GameID, err)
	}

	slog.Debug("[Postgres] Upserted game header",
		"game_id", header.GameID,
		"variant", header.Variant)
	return nil
}

// Finalize overwrites the match record with the finished state. created_at is
// the only column preserved from a pre-existing row.
func (a *GameAdapter) Finalize(ctx context.Context, game *v1.Game) error {
	whiteJSON, err := marshalJSONField(game.White, "white")
	if err != nil {
		return err
	}
	blackJSON, err := marshalJSONField(game.Black, "black")
	if err != nil {
		return err
	}
	movesJSON, err := marshalJSONField(game.Moves, "moves")
	if err != nil {
		return err
	}
	statsJSON, err := marshalMapField(game.Stats, "stats")
	if err != nil {
		return err
	}
	ratingsJSON, err := marshalMapField(game.Ratings, "ratings")
	if err != nil {
		return err
	}
	pdnTagsJSON, err := marshalMapField(game.PDNTags, "pdn_tags")
	if err != nil {
		return err
	}

	_, err = a.db.ExecContext(ctx, queryFinalizeGame,
		game.GameID,
		game.Variant,
		nullString(game.Mode),
		game.Rated,
		nullString(game.TimeControl),
		whiteJSON,
		blackJSON,
		game.StartFEN,
		game.Result,
		nullString(game.EndReason),
		game.FinalFEN,
		movesJSON,
		statsJSON,
		ratingsJSON,
		game.EndAt,
		pdnTagsJSON,
		game.PDN,
		a.nowFn(),
	)
	if err != nil {
		return fmt.Errorf("game finalize for %s: %w", game.GameID, err)
	}

	slog.Debug("[Postgres] Finalized game",
		"game_id", game.GameID,
		"result", game.Result,
		"moves", len(game.Moves))
	return nil
}

// GetGame fetches one match by gameId.
// Returns storage.ErrNotFound when no such game exists.
func (a *GameAdapter) GetGame(ctx context.Context, gameID string) (*v1.Game, error) {
	game, err := scanGameRow(a.db.QueryRowContext(ctx, queryGetGame, gameID))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return game, nil
}
