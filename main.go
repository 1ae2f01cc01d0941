package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forca/config"
	"forca/game"
	"forca/handlers"
	"forca/middleware"
	"forca/models"
	"forca/routes"
	"forca/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger := config.NewLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Auto-migrate database models
	if err := db.AutoMigrate(&models.Word{}, &models.Player{}); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)
	defer redisClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	wordService := services.NewWordService(db, logger)
	victoryService := services.NewVictoryService(db, redisClient, logger)

	if cfg.SeedWords {
		if err := wordService.SeedDefaults(ctx); err != nil {
			logger.Warn("failed to seed words", "error", err)
		}
	}

	registry := game.NewRegistry(wordService, victoryService, logger, game.Options{
		GracePeriod:       cfg.ReconnectGrace,
		TeardownDelay:     cfg.TeardownDelay,
		WordLookupTimeout: cfg.WordLookupTimeout,
	})

	// Initialize WebSocket hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := services.NewHub(registry, logger)
	go hub.Run(hubCtx)

	// Initialize handlers
	roomHandler := handlers.NewRoomHandler(registry)
	wordHandler := handlers.NewWordHandler(wordService, logger)
	rankingHandler := handlers.NewRankingHandler(victoryService, logger)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery(), middleware.CORS())
	routes.SetupRoutes(router, roomHandler, wordHandler, rankingHandler, hub, cfg.JWTSecret, logger)

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	// Start server
	go func() {
		logger.Info("server starting", "addr", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	stopHub()
	if err := registry.Shutdown(shutdownCtx); err != nil {
		logger.Warn("rooms did not stop in time", "rooms", registry.Count(), "error", err)
	}
	logger.Info("server stopped")
}
