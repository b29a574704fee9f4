package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"mailroom/internal/api"
	"mailroom/internal/config"
	"mailroom/internal/db"
	"mailroom/internal/services"
	"mailroom/internal/tasks"
	"mailroom/internal/utils"
	"mailroom/internal/utils/logger"
	"mailroom/internal/workers"
)

// @title Mailroom API
// @version 1.0
// @description List management API
// @BasePath /api

func main() {
	logger := logger.New("MAILROOM")

	// check if .env file exists
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		logger.Info("No .env file found, skipping environment variable loading")
	} else {
		logger.Info("Loading environment variables from .env file")
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := db.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	conn := db.GetDB()

	var redis *utils.RedisClient
	if cfg.RateLimit.Enabled {
		redis, err = utils.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redis.Close()
	}

	// Task queue
	taskClient := tasks.NewTaskClient(cfg.Redis)
	defer taskClient.Close()

	taskHandler := tasks.NewTaskHandler(conn, logger.Zap())
	taskServer := tasks.NewServer(cfg, taskHandler, logger.Zap())
	if err := taskServer.Start(); err != nil {
		log.Fatalf("Failed to start task server: %v", err)
	}

	// Maintenance jobs
	scheduler := workers.NewScheduler()
	if err := workers.RegisterMaintenance(
		scheduler,
		cfg.Worker,
		services.NewConfirmationService(conn, taskClient, cfg.Confirmation),
		services.NewCampaignService(conn, services.NewListService(conn), taskClient),
	); err != nil {
		log.Fatalf("Failed to register maintenance jobs: %v", err)
	}
	scheduler.Start()

	// Initialize API server
	apiServer := api.NewServer(cfg, conn, redis, taskClient)
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("API server error", err)
		}
	}()
	logger.Success("API server started")

	// Wait for interrupt signal to gracefully shutdown the servers
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown API server", err)
	}
	scheduler.Stop()
	taskServer.Shutdown()

	logger.Info("Servers shutdown gracefully")
}
