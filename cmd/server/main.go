package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/anonto42/bank-backoffice/backend/internal/repositories"
	"github.com/anonto42/bank-backoffice/backend/internal/router"
	"github.com/anonto42/bank-backoffice/backend/internal/validators"
	"github.com/anonto42/bank-backoffice/backend/pkg/config"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg, envLoaded := config.Load()
	log := config.NewLogger(cfg.Log)
	if !envLoaded {
		log.Warn("No .env file found, using system environment variables")
	}

	// Initialize the record store
	var store repositories.Store
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		if cfg.IsProduction() {
			log.Error("STORE_DRIVER=memory is not allowed in production")
			os.Exit(1)
		}
		log.Warn("Using in-memory store; data is lost on exit")
		store = repositories.NewMemoryStore()
	case config.StoreDriverPostgres:
		db, err := config.InitDB(cfg, log)
		if err != nil {
			log.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer config.CloseDB(db, log)

		if cfg.AutoMigrate {
			if err := router.Migrate(db, log); err != nil {
				log.Error("Failed to migrate database", "error", err)
				config.CloseDB(db, log)
				os.Exit(1)
			}
		}
		store = repositories.NewPostgresStore(db)
	default:
		log.Error("Unknown STORE_DRIVER", "driver", cfg.StoreDriver)
		os.Exit(1)
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e, log)

	// Setup routes and dependencies
	router.SetupRoutes(e, store, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Starting server", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped unexpectedly", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
		return
	}
	log.Info("Server shut down")
}
