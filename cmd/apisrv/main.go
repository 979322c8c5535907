package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/busline-vn/backoffice/pkg/config"
	"github.com/busline-vn/backoffice/pkg/db"
	"github.com/busline-vn/backoffice/pkg/editor"
	"github.com/busline-vn/backoffice/pkg/log"
	"github.com/busline-vn/backoffice/pkg/utils"
	"github.com/busline-vn/backoffice/pkg/webserver"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := log.Init(&cfg.Logging); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.GetLogger()

	logger.Info("Starting Busline back-office API server")
	logger.WithField("version", "1.0.0").Info("Server initialization")

	// Initialize database
	logger.Info("Connecting to database...")
	database, err := db.New(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.WithError(err).Error("Failed to close database connection")
		}
	}()

	// Run database migrations
	logger.Info("Running database migrations...")
	if err := database.Migrate(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Seed initial data
	logger.Info("Seeding initial data...")
	hasher, err := utils.NewPasswordHasher(cfg.Security.PasswordSalt)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize password hasher")
	}
	adminHash := ""
	if cfg.Security.AdminPassword != "" {
		adminHash = hasher.Hash(cfg.Security.AdminPassword)
	}
	if err := database.SeedInitialData(cfg.Security.AdminEmail, adminHash); err != nil {
		logger.WithError(err).Fatal("Failed to seed initial data")
	}

	// Initialize way editor manager
	logger.Info("Initializing way editor...")
	repo := db.NewRepository(database)
	editorManager := editor.NewManager(&cfg.Editor, repo, repo, logger)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the editor session sweeper
	if err := editorManager.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to start way editor")
	}

	// Initialize web server
	logger.Info("Initializing web server...")
	server, err := webserver.New(cfg, database, editorManager, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize web server")
	}

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	logger.WithField("address", cfg.Server.GetServerAddr()).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Cancel context to stop the editor sweeper
	cancel()

	// Create a context with timeout for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.GracefulStop)*time.Second)
	defer shutdownCancel()

	// Gracefully stop the web server
	if err := server.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	} else {
		logger.Info("Web server exited gracefully")
	}

	// Stop the editor manager, discarding open drafts
	editorManager.Stop()

	logger.Info("Application exited gracefully")
}
