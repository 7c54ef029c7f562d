package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	corecfg "github.com/kiddraughts-lab/draughts-telemetry/internal/core/config"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/core/rules"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/core/storage/postgres"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/ingestion"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/matches"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/metrics"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/migrations"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/pdn"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/players"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/server"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Local .env files are a convenience for development; absence is fine.
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded environment from .env file")
	}

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"counter_rules", len(cfg.CounterRules))

	counters, err := rules.NewRepository(cfg.CounterRules)
	if err != nil {
		slog.Error("Invalid counter rules", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Storage (PostgreSQL)
	db, err := postgres.Open(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	// 2.1. Run Database Migrations
	if err := migrations.RunMigrations(db, cfg.Database.AutoMigrate); err != nil {
		db.Close()
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	eventStore, err := postgres.NewAdapter(db)
	if err != nil {
		slog.Error("Failed to initialize event store", "error", err)
		os.Exit(1)
	}
	defer eventStore.Close()

	playerStore := postgres.NewPlayerAdapter(eventStore.DB())
	gameStore := postgres.NewGameAdapter(eventStore.DB())

	// 3. Initialize Metrics
	metrics.Register(prometheus.DefaultRegisterer)

	// 4. Initialize Services
	ingestionSvc := ingestion.NewService(eventStore, playerStore, counters, cfg.Server.MaxBodySizeMB)
	matchesSvc := matches.NewService(gameStore, pdn.NewFormatter())
	playersSvc := players.NewService(playerStore)

	// 5. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), eventStore.DB(), cfg.Server.Mode)
	auth := server.APIKeyAuth(cfg.Auth.APIKey)
	ingestionSvc.RegisterRoutes(srv.Engine, auth)
	matchesSvc.RegisterRoutes(srv.Engine, auth)
	playersSvc.RegisterRoutes(srv.Engine)

	// 6. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
