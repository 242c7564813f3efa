// Package db provides PostgreSQL storage for the cleaned player catalog.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Ping verifies the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS players (
	fifa_version INTEGER NOT NULL,
	player_id TEXT NOT NULL,
	short_name TEXT NOT NULL,
	long_name TEXT,
	category TEXT NOT NULL,
	roles TEXT[] NOT NULL DEFAULT '{}',
	overall INTEGER NOT NULL,
	value_eur DOUBLE PRECISION,
	wage_eur DOUBLE PRECISION,
	nationality TEXT,
	club TEXT,
	data JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (fifa_version, player_id)
);
CREATE INDEX IF NOT EXISTS idx_players_version_overall ON players (fifa_version, overall DESC);
`

// Migrate creates the catalog tables if they do not exist
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
