package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	models "github.com/sarathradhan/social-media-app/model"
	"github.com/sarathradhan/social-media-app/pkg/errs"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// FindOrCreateByGoogleID looks a user up by external id and creates one
	// when absent. A username collision on create attaches the external id to
	// the existing row instead of failing.
	FindOrCreateByGoogleID(ctx context.Context, googleID, username string, avatarURL *string) (*models.User, error)
	// UpdateProfile is a partial update: nil fields are left untouched.
	UpdateProfile(ctx context.Context, userID uuid.UUID, bio *string, avatarURL *string) error
	// ListExplore returns every user except the viewer, annotated with
	// whether the viewer follows them, ordered by username.
	ListExplore(ctx context.Context, viewerID uuid.UUID) ([]models.ExploreUser, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, google_id, profile_pic_url, bio, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx, query,
		user.ID, user.Username, user.PasswordHash, user.GoogleID,
		user.ProfilePicURL, user.Bio, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.Wrap(errs.Conflict, "username already taken", err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, password_hash, google_id, profile_pic_url, bio, created_at
		FROM users
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, password_hash, google_id, profile_pic_url, bio, created_at
		FROM users
		WHERE username = $1
	`

	err := r.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindOrCreateByGoogleID(ctx context.Context, googleID, username string, avatarURL *string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, password_hash, google_id, profile_pic_url, bio, created_at
		FROM users
		WHERE google_id = $1
	`

	err := r.db.GetContext(ctx, &user, query, googleID)
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up google user: %w", err)
	}

	// Merge policy: if the display name collides with an existing username,
	// the external id is attached to that row rather than erroring out.
	insert := `
		INSERT INTO users (id, username, google_id, profile_pic_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO UPDATE
			SET google_id = EXCLUDED.google_id,
			    profile_pic_url = EXCLUDED.profile_pic_url
		RETURNING id, username, password_hash, google_id, profile_pic_url, bio, created_at
	`

	err = r.db.GetContext(ctx, &user, insert, uuid.New(), username, googleID, avatarURL, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create google user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, bio *string, avatarURL *string) error {
	updates := []string{}
	args := []interface{}{}

	if bio != nil {
		args = append(args, strings.TrimSpace(*bio))
		updates = append(updates, fmt.Sprintf("bio = $%d", len(args)))
	}
	if avatarURL != nil {
		args = append(args, *avatarURL)
		updates = append(updates, fmt.Sprintf("profile_pic_url = $%d", len(args)))
	}
	if len(updates) == 0 {
		return nil
	}

	args = append(args, userID)
	query := fmt.Sprintf(
		"UPDATE users SET %s WHERE id = $%d",
		strings.Join(updates, ", "), len(args),
	)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return errs.E(errs.NotFound, "user not found")
	}
	return nil
}

func (r *userRepository) ListExplore(ctx context.Context, viewerID uuid.UUID) ([]models.ExploreUser, error) {
	query := `
		SELECT u.id, u.username, u.profile_pic_url,
		       EXISTS(
		           SELECT 1 FROM follows f
		           WHERE f.follower_id = $1 AND f.following_id = u.id
		       ) AS is_following
		FROM users u
		WHERE u.id <> $1
		ORDER BY u.username
	`

	users := []models.ExploreUser{}
	err := r.db.SelectContext(ctx, &users, query, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
