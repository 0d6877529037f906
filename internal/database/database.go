// Package database provides the shared PostgreSQL access layer for all
// domain packages. It exposes a narrow Service interface over pgxpool so
// repositories can be tested against a fake store.
package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// Service defines the database operations used by repositories.
type Service interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Health(ctx context.Context) map[string]string
	Close()
}

type service struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New connects to PostgreSQL using DATABASE_URL and verifies the connection.
func New(ctx context.Context, logger *slog.Logger) (Service, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return Open(ctx, url, logger)
}

// Open connects to PostgreSQL at the given URL.
func Open(ctx context.Context, url string, logger *slog.Logger) (Service, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &service{pool: pool, logger: logger}, nil
}

// ApplySchema creates the tables and indexes if they do not exist yet.
func ApplySchema(ctx context.Context, db Service) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *service) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return s.pool.Query(ctx, sql, args...)
}

func (s *service) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return s.pool.QueryRow(ctx, sql, args...)
}

func (s *service) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return s.pool.Exec(ctx, sql, args...)
}

func (s *service) Begin(ctx context.Context) (pgx.Tx, error) {
	return s.pool.Begin(ctx)
}

// Health reports connection status and basic pool statistics.
func (s *service) Health(ctx context.Context) map[string]string {
	stats := make(map[string]string)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.pool.Ping(pingCtx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		s.logger.Error("database health check failed", "error", err)
		return stats
	}

	poolStats := s.pool.Stat()
	stats["status"] = "up"
	stats["total_conns"] = fmt.Sprintf("%d", poolStats.TotalConns())
	stats["idle_conns"] = fmt.Sprintf("%d", poolStats.IdleConns())
	return stats
}

func (s *service) Close() {
	s.pool.Close()
}
