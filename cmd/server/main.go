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

	_ "github.com/joho/godotenv/autoload"

	"catsnap/internal/logger"
	"catsnap/internal/server"
)

func gracefulShutdown(apiServer *http.Server, log *slog.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info("shutting down gracefully, press Ctrl+C again to force")
	stop()

	// Give in-flight requests five seconds to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exiting")
	done <- true
}

func main() {
	log := logger.New()
	logger.SetDefault(log)

	apiServer, cleanup, err := server.NewServer(log)
	if err != nil {
		log.Error("failed to start server", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, log, done)

	log.Info("catsnap listening", "addr", apiServer.Addr)
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http server error", "error", err)
		os.Exit(1)
	}

	<-done
	log.Info("graceful shutdown complete")
}
