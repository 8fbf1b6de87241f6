package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kittenfree/kitten-server-go/internal/config"
	"github.com/kittenfree/kitten-server-go/internal/game"
	"github.com/kittenfree/kitten-server-go/internal/identity"
	"github.com/kittenfree/kitten-server-go/internal/repository"
	"github.com/kittenfree/kitten-server-go/internal/room"
	"github.com/kittenfree/kitten-server-go/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting kitten server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Match persistence is optional; without a database the server still
	// runs, it just forgets finished games.
	var matchRepo *repository.MatchRepository
	if cfg.Database.URL != "" {
		db, dbErr := repository.NewDB(ctx, cfg.Database.URL, logger)
		if dbErr != nil {
			logger.Fatal("failed to connect to database", zap.Error(dbErr))
		}
		defer db.Close()

		stats := db.Stats()
		logger.Info("database connection pool initialized",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("idle_conns", stats.IdleConns()),
		)

		matchRepo = repository.NewMatchRepository(db)
		if schemaErr := matchRepo.EnsureSchema(ctx); schemaErr != nil {
			logger.Fatal("failed to ensure database schema", zap.Error(schemaErr))
		}
		logger.Info("match repository initialized")
	} else {
		logger.Info("no database configured; match results will not be recorded")
	}

	// Initialize identity directory
	ids := identity.NewDirectory()

	// Initialize hub and room registry. The hub needs the registry for
	// command dispatch and the registry needs the hub as its notifier, so
	// the registry is attached after construction.
	hub := server.NewHub(ids, logger)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	registry := room.NewRegistry(hub, rng, logger)
	hub.SetRegistry(registry)
	logger.Info("room registry initialized", zap.Strings("modes", game.ModeIDs()))

	if matchRepo != nil {
		registry.SetFinishHook(func(res game.Result) {
			recordCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if recordErr := matchRepo.RecordMatch(recordCtx, res); recordErr != nil {
				logger.Warn("failed to record match result",
					zap.Int("room_code", res.Code),
					zap.Error(recordErr),
				)
			}
		})
	}

	// Start WebSocket server
	go func() {
		if wsErr := server.Start(cfg.Server.Address, hub, logger); wsErr != nil {
			logger.Error("WebSocket server error", zap.Error(wsErr))
		}
	}()

	logger.Info("kitten server initialized",
		zap.String("version", version),
		zap.String("address", cfg.Server.Address),
	)

	// Wait for termination signal
	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	// Graceful shutdown
	logger.Info("shutting down gracefully...")
	cancel()

	logger.Info("kitten server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
