package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type LikeRepository interface {
	// Toggle deletes the like if it exists, otherwise inserts it. Returns the
	// resulting state (true when the post is now liked). Two calls with the
	// same arguments restore the original state; the unique constraint on
	// (user_id, post_id) resolves concurrent toggles.
	Toggle(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	CountByPost(ctx context.Context, postID uuid.UUID) (int32, error)
}

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Toggle(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM likes WHERE user_id = $1 AND post_id = $2`,
		userID, postID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if deleted > 0 {
		return false, nil
	}

	insert := `
		INSERT INTO likes (id, user_id, post_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, post_id) DO NOTHING
	`
	_, err = r.db.ExecContext(ctx, insert, uuid.New(), userID, postID, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to create like: %w", err)
	}
	return true, nil
}

func (r *likeRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int32, error) {
	var count int32
	query := `SELECT COUNT(*) FROM likes WHERE post_id = $1`

	err := r.db.GetContext(ctx, &count, query, postID)
	if err != nil {
		return 0, fmt.Errorf("failed to get like count: %w", err)
	}
	return count, nil
}
