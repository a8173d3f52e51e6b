package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nutricoach/nutricoach-backend/config"
	"github.com/nutricoach/nutricoach-backend/internal/database"
	"github.com/nutricoach/nutricoach-backend/internal/router"
	"github.com/nutricoach/nutricoach-backend/internal/server"
	"github.com/nutricoach/nutricoach-backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	s3Config, err := config.NewS3Config(context.Background())
	if err != nil {
		log.Printf("Warning: S3 storage unavailable, photo uploads disabled: %v", err)
		s3Config = nil
	}

	// Keep the catalog in sync with the NEVO dataset overnight.
	var nevoService *service.NevoService
	if cfg.NevoDatasetURL != "" {
		nevoService = service.NewNevoService(db, cfg.NevoDatasetURL)
		nevoService.StartNightlyRefresh()
	}

	engine := router.SetupRouter(db, cfg, s3Config)
	srv := server.NewServer(engine)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(cfg.ServerHost + ":" + cfg.ServerPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	if nevoService != nil {
		nevoService.StopNightlyRefresh()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
