package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// scansSchema creates the scans table and its listing indexes. The table is
// keyed by normalized URL, one row per scanned site.
const scansSchema = `
CREATE TABLE IF NOT EXISTS scans (
	url TEXT PRIMARY KEY,
	product_name TEXT NOT NULL,
	price DOUBLE PRECISION,
	currency TEXT NOT NULL DEFAULT 'USD',
	buy_link_found BOOLEAN NOT NULL DEFAULT FALSE,
	summary TEXT NOT NULL DEFAULT '',
	agent_readability_score INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_scans_updated_at ON scans (updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_scans_score ON scans (agent_readability_score DESC);
`

// EnsureSchema creates the scans table if it does not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, scansSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
