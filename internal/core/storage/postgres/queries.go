package postgres

// SQL for event, player and game storage. Per-key atomicity comes from the
// single-statement ON CONFLICT upserts; no application-level locking.

const (
	// queryInsertEvent inserts an immutable telemetry event.
	// ON CONFLICT DO NOTHING returns no rows (sql.ErrNoRows) for duplicates,
	// which the adapter maps to storage.ErrDuplicate.
	queryInsertEvent = `
		INSERT INTO events (
			event_id, user_id, type, ts,
			game_id, correlation_id, session_id,
			schema_version, data, received_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (event_id) DO NOTHING
		RETURNING received_at
	`

	queryGetEvent = `
		SELECT
			event_id, user_id, type, ts,
			game_id, correlation_id, session_id,
			schema_version, data, received_at
		FROM events
		WHERE event_id = $1
	`

	// queryMergePlayer applies one event to the per-user aggregate.
	// Insert path zero-initializes the record (the deltas are the first
	// values) and stamps created_at; update path increments counters and
	// unconditionally refreshes the last-seen fields, leaving created_at
	// untouched.
	queryMergePlayer = `
		INSERT INTO players (
			user_id, games, lesson_steps,
			last_seen_at, last_event_type, last_event_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET
			games           = players.games + EXCLUDED.games,
			lesson_steps    = players.lesson_steps + EXCLUDED.lesson_steps,
			last_seen_at    = EXCLUDED.last_seen_at,
			last_event_type = EXCLUDED.last_event_type,
			last_event_at   = EXCLUDED.last_event_at
	`

	queryGetPlayer = `
		SELECT
			user_id, games, lesson_steps,
			last_seen_at, last_event_type, last_event_at, created_at
		FROM players
		WHERE user_id = $1
	`

	// queryUpsertGameHeader creates a running match record or refreshes the
	// header fields of an existing one. status, created_at and every
	// finalize-only column stay untouched on the update path.
	queryUpsertGameHeader = `
		INSERT INTO games (
			game_id, variant, mode, rated, time_control,
			white, black, start_fen, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'running', $9, $9)
		ON CONFLICT (game_id)
		DO UPDATE SET
			variant      = EXCLUDED.variant,
			mode         = EXCLUDED.mode,
			rated        = EXCLUDED.rated,
			time_control = EXCLUDED.time_control,
			white        = EXCLUDED.white,
			black        = EXCLUDED.black,
			start_fen    = EXCLUDED.start_fen,
			updated_at   = EXCLUDED.updated_at
	`

	// queryFinalizeGame overwrites the full match record as finished.
	// Only created_at survives from a pre-existing row; re-finalizing an
	// already finished game overwrites it again.
	queryFinalizeGame = `
		INSERT INTO games (
			game_id, variant, mode, rated, time_control,
			white, black, start_fen, status,
			result, end_reason, final_fen, moves, stats, ratings,
			end_at, pdn_tags, pdn, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'finished',
		        $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
		ON CONFLICT (game_id)
		DO UPDATE SET
			variant      = EXCLUDED.variant,
			mode         = EXCLUDED.mode,
			rated        = EXCLUDED.rated,
			time_control = EXCLUDED.time_control,
			white        = EXCLUDED.white,
			black        = EXCLUDED.black,
			start_fen    = EXCLUDED.start_fen,
			status       = EXCLUDED.status,
			result       = EXCLUDED.result,
			end_reason   = EXCLUDED.end_reason,
			final_fen    = EXCLUDED.final_fen,
			moves        = EXCLUDED.moves,
			stats        = EXCLUDED.stats,
			ratings      = EXCLUDED.ratings,
			end_at       = EXCLUDED.end_at,
			pdn_tags     = EXCLUDED.pdn_tags,
			pdn          = EXCLUDED.pdn,
			updated_at   = EXCLUDED.updated_at
	`

	queryGetGame = `
		SELECT
			game_id, variant, mode, rated, time_control,
			white, black, start_fen, status,
			result, end_reason, final_fen, moves, stats, ratings,
			end_at, pdn_tags, pdn, created_at, updated_at
		FROM games
		WHERE game_id = $1
	`
)
