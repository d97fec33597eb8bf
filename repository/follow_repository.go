package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	models "github.com/sarathradhan/social-media-app/model"
)

type FollowRepository interface {
	// Follow inserts the directed edge; duplicate edges are a no-op.
	Follow(ctx context.Context, followerID, followingID uuid.UUID) error
	// Unfollow deletes the edge; deleting an absent edge is a no-op success.
	Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error
	// Counts computes follower/following totals on demand.
	Counts(ctx context.Context, userID uuid.UUID) (*models.FollowCounts, error)
	// ListFollowedPreview returns a username-ordered sample of followed users.
	ListFollowedPreview(ctx context.Context, userID uuid.UUID, limit int32) ([]models.FollowedUser, error)
}

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	query := `
		INSERT INTO follows (id, follower_id, following_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, uuid.New(), followerID, followingID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to follow user: %w", err)
	}
	return nil
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	query := `
		DELETE FROM follows
		WHERE follower_id = $1 AND following_id = $2
	`

	_, err := r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}
	return nil
}

func (r *followRepository) Counts(ctx context.Context, userID uuid.UUID) (*models.FollowCounts, error) {
	var counts models.FollowCounts
	query := `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE following_id = $1) AS followers,
			(SELECT COUNT(*) FROM follows WHERE follower_id = $1)  AS following
	`

	err := r.db.GetContext(ctx, &counts, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get follow counts: %w", err)
	}
	return &counts, nil
}

func (r *followRepository) ListFollowedPreview(ctx context.Context, userID uuid.UUID, limit int32) ([]models.FollowedUser, error) {
	if limit <= 0 {
		limit = 8
	}

	query := `
		SELECT u.username, u.profile_pic_url
		FROM follows f
		JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = $1
		ORDER BY u.username
		LIMIT $2
	`

	users := []models.FollowedUser{}
	err := r.db.SelectContext(ctx, &users, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list followed users: %w", err)
	}
	return users, nil
}
