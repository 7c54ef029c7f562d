// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EventsIngested = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "draughts_events_ingested_total",
		Help: "Total number of telemetry events durably recorded",
	})

	EventsDeduped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "draughts_events_deduped_total",
		Help: "Total number of duplicate event submissions folded into success",
	})

	PlayerMergeFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "draughts_player_merge_failures_total",
		Help: "Total number of best-effort player aggregate updates that failed",
	})

	GamesUpserted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "draughts_games_upserted_total",
		Help: "Total number of match header upserts",
	})

	GamesFinalized = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "draughts_games_finalized_total",
		Help: "Total number of match finalizations",
	})

	PDNExports = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "draughts_pdn_exports_total",
		Help: "Total number of PDN export requests served",
	})
)

// Register adds all collectors to the given registry.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		EventsIngested,
		EventsDeduped,
		PlayerMergeFailures,
		GamesUpserted,
		GamesFinalized,
		PDNExports,
	)
}
