package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	models "github.com/sarathradhan/social-media-app/model"
)

// feedColumns is the shared projection for annotated post listings: author
// avatar, aggregate like count and the viewer's like state ($1 is always the
// viewer id). A zero viewer id simply matches no likes.
const feedColumns = `
	p.id, p.user_id, p.username, p.caption, p.image_url, p.created_at,
	u.profile_pic_url,
	COUNT(l.id) AS like_count,
	EXISTS(
		SELECT 1 FROM likes l2
		WHERE l2.user_id = $1 AND l2.post_id = p.id
	) AS user_liked
`

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	// ListFeed returns all posts newest-first, annotated for the viewer.
	ListFeed(ctx context.Context, viewerID uuid.UUID) ([]models.FeedPost, error)
	// ListByUser returns one user's posts newest-first, annotated for the viewer.
	ListByUser(ctx context.Context, viewerID, userID uuid.UUID) ([]models.FeedPost, error)
	// ListLiked returns the posts the user has liked, newest-first.
	ListLiked(ctx context.Context, userID uuid.UUID) ([]models.FeedPost, error)
	// Delete removes the owner's post and its likes as one unit. Unknown ids
	// and posts owned by someone else are a no-op, not an error.
	Delete(ctx context.Context, postID, ownerID uuid.UUID) error
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, user_id, username, caption, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx, query,
		post.ID, post.UserID, post.Username, post.Caption, post.ImageURL, post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	query := `
		SELECT id, user_id, username, caption, image_url, created_at
		FROM posts
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &post, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

func (r *postRepository) ListFeed(ctx context.Context, viewerID uuid.UUID) ([]models.FeedPost, error) {
	query := `
		SELECT ` + feedColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		LEFT JOIN likes l ON l.post_id = p.id
		GROUP BY p.id, u.id
		ORDER BY p.created_at DESC
	`

	posts := []models.FeedPost{}
	err := r.db.SelectContext(ctx, &posts, query, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed: %w", err)
	}
	return posts, nil
}

func (r *postRepository) ListByUser(ctx context.Context, viewerID, userID uuid.UUID) ([]models.FeedPost, error) {
	query := `
		SELECT ` + feedColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		LEFT JOIN likes l ON l.post_id = p.id
		WHERE p.user_id = $2
		GROUP BY p.id, u.id
		ORDER BY p.created_at DESC
	`

	posts := []models.FeedPost{}
	err := r.db.SelectContext(ctx, &posts, query, viewerID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user posts: %w", err)
	}
	return posts, nil
}

func (r *postRepository) ListLiked(ctx context.Context, userID uuid.UUID) ([]models.FeedPost, error) {
	query := `
		SELECT p.id, p.user_id, p.username, p.caption, p.image_url, p.created_at,
		       u.profile_pic_url,
		       (SELECT COUNT(*) FROM likes WHERE post_id = p.id) AS like_count,
		       TRUE AS user_liked
		FROM likes l
		JOIN posts p ON p.id = l.post_id
		JOIN users u ON u.id = p.user_id
		WHERE l.user_id = $1
		ORDER BY p.created_at DESC
	`

	posts := []models.FeedPost{}
	err := r.db.SelectContext(ctx, &posts, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list liked posts: %w", err)
	}
	return posts, nil
}

func (r *postRepository) Delete(ctx context.Context, postID, ownerID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Likes carry no FK cascade, so they go first.
	deleteLikes := `
		DELETE FROM likes
		WHERE post_id IN (SELECT id FROM posts WHERE id = $1 AND user_id = $2)
	`
	if _, err := tx.ExecContext(ctx, deleteLikes, postID, ownerID); err != nil {
		return fmt.Errorf("failed to delete post likes: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1 AND user_id = $2`, postID, ownerID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit post delete: %w", err)
	}
	return nil
}
