package players

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	v1 "github.com/kiddraughts-lab/draughts-telemetry/internal/api/v1"
	httperr "github.com/kiddraughts-lab/draughts-telemetry/internal/core/errors"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/core/storage"
)

// Service serves the per-player rolling aggregates.
type Service struct {
	players storage.PlayerStore
}

func NewService(players storage.PlayerStore) *Service {
	if players == nil {
		panic("players: player store must not be nil")
	}
	return &Service{players: players}
}

// RegisterRoutes registers the player routes. Summaries are public reads.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/players/:userId/summary", s.SummaryHandler)
}

// SummaryHandler handles GET /players/:userId/summary. A user with no events
// yet gets the zero-valued summary rather than a 404.
func (s *Service) SummaryHandler(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, httperr.Fail(httperr.CodeMissingFields))
		return
	}

	player, err := s.players.GetPlayer(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusOK, v1.EmptyPlayer(userID))
			return
		}
		slog.Error("Failed to load player summary", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, httperr.Fail(httperr.CodeDBError))
		return
	}

	c.JSON(http.StatusOK, player)
}
