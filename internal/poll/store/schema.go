// Package store provides the poll and vote persistence backends: a
// PostgreSQL store for durable deployments and an in-memory store used when
// no database is configured.
package store

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS polls (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	options       TEXT[] NOT NULL,
	poll_type     TEXT NOT NULL DEFAULT 'single' CHECK (poll_type IN ('single', 'multi')),
	is_anonymous  BOOLEAN NOT NULL DEFAULT FALSE,
	closing_time  TIMESTAMPTZ,
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL,
	created_by    TEXT NOT NULL DEFAULT 'anonymous'
);

CREATE INDEX IF NOT EXISTS idx_polls_active_created ON polls (is_active, created_at DESC);

CREATE TABLE IF NOT EXISTS votes (
	id                TEXT PRIMARY KEY,
	poll_id           TEXT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
	voter_id          TEXT NOT NULL,
	voter_name        TEXT,
	voter_email       TEXT,
	selected_options  TEXT[] NOT NULL,
	voted_at          TIMESTAMPTZ NOT NULL,
	ip_address        TEXT,
	UNIQUE (poll_id, voter_id)
);

CREATE INDEX IF NOT EXISTS idx_votes_poll_voted ON votes (poll_id, voted_at);
`

// CreateSchema creates the poll tables if they do not exist.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
