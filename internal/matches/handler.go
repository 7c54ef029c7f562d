package matches

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kiddraughts-lab/draughts-telemetry/internal/api/v1"
	httperr "github.com/kiddraughts-lab/draughts-telemetry/internal/core/errors"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/core/storage"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/metrics"
)

// UpsertHeaderHandler handles POST /roblox/games/upsert. It creates the match
// record at game start, or refreshes the header fields of a record that is
// already there.
func (s *Service) UpsertHeaderHandler(c *gin.Context) {
	var header v1.GameHeader
	if err := c.ShouldBindJSON(&header); err != nil {
		slog.Warn("Invalid game header body", "error", err)
		c.JSON(http.StatusBadRequest, httperr.Fail(httperr.CodeInvalidJSON))
		return
	}

	if err := header.Validate(); err != nil {
		slog.Warn("Game header validation failed", "error", err, "game_id", header.GameID)
		c.JSON(http.StatusBadRequest, httperr.Fail(httperr.CodeMissingFields))
		return
	}

	if err := s.games.UpsertHeader(c.Request.Context(), &header); err != nil {
		slog.Error("Failed to upsert game header", "error", err, "game_id", header.GameID)
		c.JSON(http.StatusInternalServerError, httperr.Fail(httperr.CodeDBError))
		return
	}

	metrics.GamesUpserted.Inc()
	slog.Info("Game header upserted", "game_id", header.GameID, "variant", header.Variant)
	c.JSON(http.StatusOK, httperr.OK())
}

// FinalizeHandler handles POST /roblox/games/finalize. The payload repeats the
// header fields, so a finalize with no prior upsert still lands a complete
// record. Re-finalizing overwrites; it is never rejected.
func (s *Service) FinalizeHandler(c *gin.Context) {
	var final v1.GameFinal
	if err := c.ShouldBindJSON(&final); err != nil {
		slog.Warn("Invalid finalize body", "error", err)
		c.JSON(http.StatusBadRequest, httperr.Fail(httperr.CodeInvalidJSON))
		return
	}

	if err := final.Validate(); err != nil {
		slog.Warn("Finalize validation failed", "error", err, "game_id", final.GameID)
		c.JSON(http.StatusBadRequest, httperr.Fail(httperr.CodeMissingFields))
		return
	}

	game := s.buildFinishedGame(&final)

	if err := s.games.Finalize(c.Request.Context(), game); err != nil {
		slog.Error("Failed to finalize game", "error", err, "game_id", game.GameID)
		c.JSON(http.StatusInternalServerError, httperr.Fail(httperr.CodeDBError))
		return
	}

	metrics.GamesFinalized.Inc()
	slog.Info("Game finalized",
		"game_id", game.GameID,
		"result", game.Result,
		"moves", len(game.Moves))
	c.JSON(http.StatusOK, httperr.OK())
}

// buildFinishedGame assembles the finished record, including the cached
// notation document computed from the finalize payload.
func (s *Service) buildFinishedGame(final *v1.GameFinal) *v1.Game {
	game := &v1.Game{
		GameID:      final.GameID,
		Variant:     final.Variant,
		Mode:        final.Mode,
		Rated:       final.Rated,
		TimeControl: final.TimeControl,
		White:       final.White,
		Black:       final.Black,
		StartFEN:    final.StartFEN,
		Status:      v1.StatusFinished,
		Result:      final.Result,
		EndReason:   final.EndReason,
		FinalFEN:    final.FinalFEN,
		Moves:       final.Moves,
		Stats:       final.Stats,
		Ratings:     final.Ratings,
		EndAt:       s.nowFn(),
	}

	doc := s.formatter.Format(matchFromGame(game))
	game.PDNTags = doc.Tags
	game.PDN = doc.Text

	return game
}

// ExportPDNHandler handles GET /games/:gameId/pdn. The cached notation is
// served when present; records without one (finalized through another path,
// or still running) are rendered on demand and the result is not persisted.
func (s *Service) ExportPDNHandler(c *gin.Context) {
	gameID := c.Param("gameId")

	text, err, _ := s.exports.Do(gameID, func() (interface{}, error) {
		// The flight is shared by every coalesced waiter; detach from the
		// leader's request lifetime so its disconnect cannot fail the others.
		ctx := context.WithoutCancel(c.Request.Context())
		game, err := s.games.GetGame(ctx, gameID)
		if err != nil {
			return nil, err
		}
		if game.PDN != "" {
			return game.PDN, nil
		}
		return s.formatter.Format(matchFromGame(game)).Text, nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.String(http.StatusNotFound, "Not found")
			return
		}
		slog.Error("Failed to export game notation", "error", err, "game_id", gameID)
		c.JSON(http.StatusInternalServerError, httperr.Fail(httperr.CodeDBError))
		return
	}

	metrics.PDNExports.Inc()
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text.(string)))
}
