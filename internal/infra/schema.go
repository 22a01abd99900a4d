package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// seq columns keep insertion order, which is the canonical history order.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        email TEXT NOT NULL UNIQUE,
        secret BYTEA NOT NULL,
        balance NUMERIC(14, 2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
        created_at TIMESTAMPTZ NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS surveys (
        seq BIGSERIAL,
        id TEXT PRIMARY KEY,
        title TEXT NOT NULL,
        length INTEGER NOT NULL,
        reward NUMERIC(14, 2) NOT NULL CHECK (reward >= 0),
        country TEXT,
        category TEXT,
        active BOOLEAN NOT NULL DEFAULT TRUE
    )`,
	`CREATE TABLE IF NOT EXISTS attempts (
        seq BIGSERIAL,
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL REFERENCES users (id),
        survey_id TEXT,
        status TEXT NOT NULL CHECK (status IN ('attempted', 'payout')),
        amount NUMERIC(14, 2) NOT NULL DEFAULT 0,
        at TIMESTAMPTZ NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS attempts_user_seq_idx ON attempts (user_id, seq DESC)`,
}

// EnsureSchema creates the users, surveys and attempts tables when absent.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
