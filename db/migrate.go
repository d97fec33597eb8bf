package database

import (
	"context"
	"fmt"
)

// Schema statements are idempotent so they run at every boot. The unique
// constraints on username, google_id, (user_id, post_id) and
// (follower_id, following_id) are what make conflict-ignored inserts safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id              UUID PRIMARY KEY,
		username        TEXT NOT NULL UNIQUE,
		password_hash   TEXT,
		google_id       TEXT UNIQUE,
		profile_pic_url TEXT,
		bio             TEXT,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id         UUID PRIMARY KEY,
		user_id    UUID NOT NULL REFERENCES users(id),
		username   TEXT NOT NULL,
		caption    TEXT NOT NULL DEFAULT '',
		image_url  TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS likes (
		id         UUID PRIMARY KEY,
		user_id    UUID NOT NULL,
		post_id    UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, post_id)
	)`,
	`CREATE TABLE IF NOT EXISTS follows (
		id           UUID PRIMARY KEY,
		follower_id  UUID NOT NULL,
		following_id UUID NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (follower_id, following_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_likes_post_id ON likes(post_id)`,
	`CREATE INDEX IF NOT EXISTS idx_follows_following_id ON follows(following_id)`,
}

// Migrate applies the schema.
func (d *Database) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
