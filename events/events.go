package events

import (
	"time"

	"github.com/google/uuid"
)

// Subjects
const (
	PostCreated  = "post.created"
	PostDeleted  = "post.deleted"
	PostLiked    = "post.liked"
	UserFollowed = "user.followed"
)

// Event payloads
type PostCreatedEvent struct {
	PostID    uuid.UUID `json:"post_id"`
	UserID    uuid.UUID `json:"user_id"`
	Caption   string    `json:"caption"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

type PostDeletedEvent struct {
	PostID    uuid.UUID `json:"post_id"`
	UserID    uuid.UUID `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// PostLikedEvent is emitted for both halves of the toggle; Liked carries the
// resulting state.
type PostLikedEvent struct {
	PostID  uuid.UUID `json:"post_id"`
	UserID  uuid.UUID `json:"user_id"`
	OwnerID uuid.UUID `json:"owner_id"`
	Liked   bool      `json:"liked"`
	At      time.Time `json:"at"`
}

// UserFollowedEvent is emitted on follow and unfollow; Following carries the
// resulting state.
type UserFollowedEvent struct {
	FollowerID  uuid.UUID `json:"follower_id"`
	FollowingID uuid.UUID `json:"following_id"`
	Following   bool      `json:"following"`
	At          time.Time `json:"at"`
}
