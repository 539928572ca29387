package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS user_activity (
		user_id TEXT PRIMARY KEY,
		last_activity_time TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS voice_open_sessions (
		user_id TEXT NOT NULL,
		channel_id TEXT NOT NULL,
		join_time TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, channel_id)
	)`,
	`CREATE TABLE IF NOT EXISTS message_counts (
		user_id TEXT NOT NULL,
		channel_id TEXT NOT NULL,
		count BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, channel_id)
	)`,
	`CREATE TABLE IF NOT EXISTS voice_time (
		user_id TEXT NOT NULL,
		channel_id TEXT NOT NULL,
		seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, channel_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_message_counts_channel ON message_counts (channel_id)`,
	`CREATE INDEX IF NOT EXISTS idx_voice_time_channel ON voice_time (channel_id)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
