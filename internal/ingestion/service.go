package ingestion

import (
	"github.com/gin-gonic/gin"

	"github.com/kiddraughts-lab/draughts-telemetry/internal/core/rules"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/core/storage"
)

// Service records telemetry events and keeps the player aggregates current.
type Service struct {
	events           storage.EventStore
	players          storage.PlayerStore
	counters         *rules.Repository
	maxBodySizeBytes int
}

func NewService(events storage.EventStore, players storage.PlayerStore, counters *rules.Repository, maxBodySizeMB int) *Service {
	if events == nil {
		panic("ingestion: event store must not be nil")
	}
	if players == nil {
		panic("ingestion: player store must not be nil")
	}
	if counters == nil {
		panic("ingestion: counter rules must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		events:           events,
		players:          players,
		counters:         counters,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// RegisterRoutes registers the ingestion routes. Event submission requires
// the pre-shared key.
func (s *Service) RegisterRoutes(r gin.IRouter, auth gin.HandlerFunc) {
	r.POST("/roblox/events", auth, s.RecordEventHandler)
}
