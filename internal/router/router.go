package router

import (
	"fmt"
	"log/slog"

	"github.com/anonto42/bank-backoffice/backend/internal/handlers"
	"github.com/anonto42/bank-backoffice/backend/internal/models"
	"github.com/anonto42/bank-backoffice/backend/internal/repositories"
	"github.com/anonto42/bank-backoffice/backend/internal/services"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for all models
func Migrate(db *gorm.DB, log *slog.Logger) error {
	err := db.AutoMigrate(
		&models.Account{},
		&models.User{},
		&models.Transaction{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	log.Info("PostgreSQL auto-migrations completed for all models")
	return nil
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, store repositories.Store, log *slog.Logger) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Services ---
	accountService := services.NewAccountService(store, log)
	notificationService := services.NewNotificationService(store, log)

	api := e.Group("/api")

	accountHandler := handlers.NewAccountHandler(accountService, log)
	accountHandler.RegisterAccountRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationService, log)
	notificationHandler.RegisterNotificationRoutes(api)

	log.Debug("All routes configured")
}
