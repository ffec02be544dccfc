package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	log "github.com/sirupsen/logrus"

	"vidtube/internal/config"
)

func Connect(cfg *config.Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Infof("[Database] Connected to postgres host=%s db=%s", cfg.DBHost, cfg.DBName)
	return db, nil
}

// schema creates the tables this backend reads and writes. users and videos are
// owned by other services; they are created here so a fresh database is usable.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         UUID PRIMARY KEY,
		username   TEXT NOT NULL UNIQUE,
		full_name  TEXT NOT NULL DEFAULT '',
		avatar     TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS videos (
		id           UUID PRIMARY KEY,
		owner_id     UUID NOT NULL REFERENCES users(id),
		title        TEXT NOT NULL,
		thumbnail    TEXT NOT NULL DEFAULT '',
		views        BIGINT NOT NULL DEFAULT 0,
		is_published BOOLEAN NOT NULL DEFAULT TRUE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id                UUID PRIMARY KEY,
		video_id          UUID NOT NULL,
		owner_id          UUID NOT NULL,
		parent_comment_id UUID REFERENCES comments(id) ON DELETE CASCADE,
		content           TEXT NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS comments_video_top_idx ON comments (video_id, parent_comment_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS comments_parent_idx ON comments (parent_comment_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS playlists (
		id          UUID PRIMARY KEY,
		owner_id    UUID NOT NULL,
		name        TEXT NOT NULL,
		description TEXT NOT NULL,
		is_public   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS playlists_owner_idx ON playlists (owner_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS playlist_videos (
		playlist_id UUID NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
		video_id    UUID NOT NULL,
		position    BIGSERIAL,
		added_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (playlist_id, video_id)
	)`,
	`CREATE INDEX IF NOT EXISTS playlist_videos_video_idx ON playlist_videos (video_id)`,
}

// EnsureSchema applies the schema idempotently.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	log.Infof("[Database] Schema ready (%d statements)", len(schema))
	return nil
}
