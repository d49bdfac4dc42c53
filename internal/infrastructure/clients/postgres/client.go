package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/aiclinimatch/pkg/config"
	"github.com/zatekoja/aiclinimatch/pkg/retry"
)

// Client represents a PostgreSQL database client
type Client struct {
	db *sql.DB
}

// NewClient opens the pool and retries PING with exponential backoff
func NewClient(ctx context.Context, cfg *config.DatabaseConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	err = retry.Connect(ctx, retry.DefaultConfig(), "postgres", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL after retries: %w", err)
	}

	log.Info().Str("host", cfg.Host).Str("database", cfg.Database).Msg("connected to PostgreSQL")
	return &Client{db: db}, nil
}

// Wrap returns a Client over an already open pool.
func Wrap(db *sql.DB) *Client {
	return &Client{db: db}
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	return c.db
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// Ping verifies the connection to the database
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// EnsureSchema creates the referral and search analytics tables when missing.
func (c *Client) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS referrals (
		id TEXT PRIMARY KEY,
		patient_name TEXT NOT NULL,
		specialist_id TEXT NOT NULL,
		specialist_name TEXT NOT NULL,
		condition TEXT NOT NULL DEFAULT '',
		urgency TEXT NOT NULL DEFAULT '',
		insurance TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL,
		status TEXT NOT NULL,
		document_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS search_events (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		location_term TEXT NOT NULL DEFAULT '',
		proximity_applied BOOLEAN NOT NULL DEFAULT FALSE,
		radius_miles DOUBLE PRECISION NOT NULL DEFAULT 0,
		result_count INTEGER NOT NULL,
		latency_ms INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
}
