package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	v1 "github.com/kiddraughts-lab/draughts-telemetry/internal/api/v1"
)

// nullString maps an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// marshalJSONField marshals an optional JSON column value.
// A nil value produces nil (SQL NULL) rather than the JSON "null" string.
func marshalJSONField(v interface{}, name string) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return raw, nil
}

// marshalMapField is marshalJSONField for map-valued columns: an empty or
// nil map becomes SQL NULL.
func marshalMapField[V any](m map[string]V, name string) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return marshalJSONField(m, name)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanEventRow scans a database row into an Event.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
// sql.ErrNoRows passes through unwrapped so callers can map it to ErrNotFound.
func scanEventRow(row scanner) (*v1.Event, error) {
	var (
		evt                              v1.Event
		gameID, correlationID, sessionID sql.NullString
		dataJSON                         []byte
	)

	err := row.Scan(
		&evt.EventID,
		&evt.UserID,
		&evt.Type,
		&evt.TS,
		&gameID,
		&correlationID,
		&sessionID,
		&evt.SchemaVersion,
		&dataJSON,
		&evt.ReceivedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan event row: %w", err)
	}

	evt.GameID = gameID.String
	evt.CorrelationID = correlationID.String
	evt.SessionID = sessionID.String

	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &evt.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event data: %w", err)
		}
	}

	return &evt, nil
}

// scanPlayerRow scans a database row into a Player aggregate.
func scanPlayerRow(row scanner) (*v1.Player, error) {
	var (
		player        v1.Player
		lastEventType sql.NullString
		lastEventAt   sql.NullInt64
	)

	err := row.Scan(
		&player.UserID,
		&player.Totals.Games,
		&player.Totals.LessonSteps,
		&player.LastSeenAt,
		&lastEventType,
		&lastEventAt,
		&player.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan player row: %w", err)
	}

	player.LastEventType = lastEventType.String
	player.LastEventAt = lastEventAt.Int64

	return &player, nil
}

// scanGameRow scans a database row into a Game record, unmarshalling the
// JSONB columns. Finalize-only columns are NULL on running games.
func scanGameRow(row scanner) (*v1.Game, error) {
	var (
		game                          v1.Game
		mode, timeControl             sql.NullString
		result, endReason, finalFEN   sql.NullString
		pdnText                       sql.NullString
		endAt                         sql.NullTime
		whiteJSON, blackJSON          []byte
		movesJSON, statsJSON          []byte
		ratingsJSON, pdnTagsJSON      []byte
	)

	err := row.Scan(
		&game.GameID,
		&game.Variant,
		&mode,
		&game.Rated,
		&timeControl,
		&whiteJSON,
		&blackJSON,
		&game.StartFEN,
		&game.Status,
		&result,
		&endReason,
		&finalFEN,
		&movesJSON,
		&statsJSON,
		&ratingsJSON,
		&endAt,
		&pdnTagsJSON,
		&pdnText,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan game row: %w", err)
	}

	game.Mode = mode.String
	game.TimeControl = timeControl.String
	game.Result = result.String
	game.EndReason = endReason.String
	game.FinalFEN = finalFEN.String
	game.PDN = pdnText.String
	if endAt.Valid {
		game.EndAt = endAt.Time
	}

	for _, col := range []struct {
		raw  []byte
		dest interface{}
		name string
	}{
		{whiteJSON, &game.White, "white"},
		{blackJSON, &game.Black, "black"},
		{movesJSON, &game.Moves, "moves"},
		{statsJSON, &game.Stats, "stats"},
		{ratingsJSON, &game.Ratings, "ratings"},
		{pdnTagsJSON, &game.PDNTags, "pdn_tags"},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dest); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game %s: %w", col.name, err)
		}
	}

	return &game, nil
}
