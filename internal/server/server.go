// Package server wires the application together and serves the HTTP API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"catsnap/internal/config"
	"catsnap/internal/database"
	"catsnap/internal/session"
	"catsnap/internal/storage"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	port int

	db           database.Service
	storage      storage.Service
	sessionStore session.Store
	sessions     session.Manager
	logger       *slog.Logger
}

// Config holds HTTP server configuration.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LoadConfigFromEnv loads server configuration from environment variables.
func LoadConfigFromEnv() *Config {
	port, _ := strconv.Atoi(config.GetEnvOrDefault("PORT", "8080"))

	return &Config{
		Port:         port,
		ReadTimeout:  config.GetEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: config.GetEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:  config.GetEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
	}
}

// NewServer creates and configures the HTTP server with all dependencies.
// The returned cleanup function closes the database pool.
func NewServer(logger *slog.Logger) (*http.Server, func(), error) {
	cfg := LoadConfigFromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize database: %w", err)
	}
	if err := database.ApplySchema(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	logger.Info("database initialized")

	storageService, err := storage.New(ctx, logger)
	if err != nil {
		// Uploads are unavailable but the feed still works.
		logger.Warn("storage service unavailable", "error", err)
	} else {
		if err := storageService.EnsureBucketExists(ctx); err != nil {
			logger.Warn("ensure storage bucket", "error", err)
		}
		logger.Info("storage initialized")
	}

	redisAddr := config.GetEnvOrDefault("REDIS_ADDR", "localhost:6379")
	redisDB, _ := strconv.Atoi(config.GetEnvOrDefault("REDIS_DB", "0"))
	sessionStore := session.NewRedisStore(redisAddr, os.Getenv("REDIS_PASSWORD"), redisDB)
	sessions := session.NewManager(sessionStore)

	appServer := &Server{
		port:         cfg.Port,
		db:           db,
		storage:      storageService,
		sessionStore: sessionStore,
		sessions:     sessions,
		logger:       logger,
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           appServer.RegisterRoutes(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	logger.Info("http server configured", "port", cfg.Port)
	return httpServer, db.Close, nil
}

// publicURL derives a served image URL from an object key, falling back to
// environment configuration when storage is unavailable.
func (s *Server) publicURL(key string) string {
	if s.storage != nil {
		return s.storage.PublicURL(key)
	}
	endpoint := config.GetEnvOrDefault("S3_PUBLIC_ENDPOINT", os.Getenv("S3_ENDPOINT"))
	return fmt.Sprintf("%s/%s/%s", endpoint, os.Getenv("S3_BUCKET"), key)
}
