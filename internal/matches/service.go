package matches

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	v1 "github.com/kiddraughts-lab/draughts-telemetry/internal/api/v1"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/core/storage"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/pdn"
)

// Service tracks the match lifecycle: header upsert at start, full overwrite
// at finish, and notation export of the stored record.
type Service struct {
	games     storage.GameStore
	formatter *pdn.Formatter

	// exports coalesces concurrent notation recomputes for the same game so
	// a popular uncached game renders once per flight, not once per request.
	exports singleflight.Group

	nowFn func() time.Time
}

func NewService(games storage.GameStore, formatter *pdn.Formatter) *Service {
	if games == nil {
		panic("matches: game store must not be nil")
	}
	if formatter == nil {
		panic("matches: formatter must not be nil")
	}
	return &Service{
		games:     games,
		formatter: formatter,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// RegisterRoutes registers the match routes. Writes require the pre-shared
// key; notation export is public.
func (s *Service) RegisterRoutes(r gin.IRouter, auth gin.HandlerFunc) {
	r.POST("/roblox/games/upsert", auth, s.UpsertHeaderHandler)
	r.POST("/roblox/games/finalize", auth, s.FinalizeHandler)
	r.GET("/games/:gameId/pdn", s.ExportPDNHandler)
}

// matchFromGame projects the stored record into the formatter input.
// Empty names and variants stay empty; the formatter owns the defaults.
func matchFromGame(g *v1.Game) pdn.Match {
	plies := make([]pdn.Ply, len(g.Moves))
	for i, m := range g.Moves {
		plies[i] = pdn.Ply{Notation: m.Notation}
	}
	return pdn.Match{
		Variant: g.Variant,
		White:   g.White.Name,
		Black:   g.Black.Name,
		Result:  g.Result,
		Plies:   plies,
	}
}
