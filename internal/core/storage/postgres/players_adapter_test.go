package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/kiddraughts-lab/draughts-telemetry/internal/core/storage"
)

func TestPlayerAdapter_ApplyEvent(t *testing.T) {
	seenAt := time.Date(2026, 2, 8, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		merge storage.PlayerMerge
	}{
		{
			name: "match end bumps games",
			merge: storage.PlayerMerge{
				UserID:     7,
				EventType:  "match_end",
				EventTS:    seenAt.Unix(),
				SeenAt:     seenAt,
				GamesDelta: 1,
			},
		},
		{
			name: "lesson step bumps lesson counter",
			merge: storage.PlayerMerge{
				UserID:           7,
				EventType:        "lesson_step_completed",
				EventTS:          seenAt.Unix(),
				SeenAt:           seenAt,
				LessonStepsDelta: 1,
			},
		},
		{
			name: "unmatched type only refreshes last-seen fields",
			merge: storage.PlayerMerge{
				UserID:    7,
				EventType: "lesson_started",
				EventTS:   seenAt.Unix(),
				SeenAt:    seenAt,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(regexp.QuoteMeta(queryMergePlayer)).
				WithArgs(
					tc.merge.UserID,
					tc.merge.GamesDelta,
					tc.merge.LessonStepsDelta,
					tc.merge.SeenAt,
					tc.merge.EventType,
					tc.merge.EventTS,
				).
				WillReturnResult(sqlmock.NewResult(0, 1))

			adapter := NewPlayerAdapter(db)
			require.NoError(t, adapter.ApplyEvent(context.Background(), tc.merge))
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPlayerAdapter_ApplyEvent_StoreError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(queryMergePlayer)).
		WillReturnError(errors.New("connection reset"))

	adapter := NewPlayerAdapter(db)
	err = adapter.ApplyEvent(context.Background(), storage.PlayerMerge{UserID: 7})
	require.Error(t, err)
	require.ErrorContains(t, err, "player merge for user 7")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlayerAdapter_GetPlayer(t *testing.T) {
	now := time.Date(2026, 2, 8, 12, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryGetPlayer)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(playerRowColumns()).
			AddRow(int64(7), int64(3), int64(12), now, "match_end", now.Unix(), now.Add(-time.Hour)),
		)

	adapter := NewPlayerAdapter(db)
	player, err := adapter.GetPlayer(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, int64(7), player.UserID)
	require.Equal(t, int64(3), player.Totals.Games)
	require.Equal(t, int64(12), player.Totals.LessonSteps)
	require.Equal(t, "match_end", player.LastEventType)
	require.Equal(t, now.Unix(), player.LastEventAt)
	require.Equal(t, now, player.LastSeenAt)
	require.Equal(t, now.Add(-time.Hour), player.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlayerAdapter_GetPlayer_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryGetPlayer)).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	adapter := NewPlayerAdapter(db)
	_, err = adapter.GetPlayer(context.Background(), 404)
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func playerRowColumns() []string {
	return []string{
		"user_id",
		"games",
		"lesson_steps",
		"last_seen_at",
		"last_event_type",
		"last_event_at",
		"created_at",
	}
}
