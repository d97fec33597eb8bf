package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Username  string    `json:"username" db:"username"`
	Caption   string    `json:"caption" db:"caption"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FeedPost is a post annotated for display: author avatar, aggregate like
// count and whether the viewer has liked it. UserLiked is always false for a
// zero viewer id.
type FeedPost struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Username      string    `json:"username" db:"username"`
	Caption       string    `json:"caption" db:"caption"`
	ImageURL      string    `json:"image_url" db:"image_url"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	ProfilePicURL *string   `json:"profile_pic_url,omitempty" db:"profile_pic_url"`
	LikeCount     int32     `json:"like_count" db:"like_count"`
	UserLiked     bool      `json:"user_liked" db:"user_liked"`
}
