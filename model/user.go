package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Username      string    `json:"username" db:"username"`
	PasswordHash  *string   `json:"-" db:"password_hash"`
	GoogleID      *string   `json:"-" db:"google_id"`
	ProfilePicURL *string   `json:"profile_pic_url,omitempty" db:"profile_pic_url"`
	Bio           *string   `json:"bio,omitempty" db:"bio"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// ExploreUser is a row in the explore listing, annotated with whether the
// viewer already follows them.
type ExploreUser struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Username      string    `json:"username" db:"username"`
	ProfilePicURL *string   `json:"profile_pic_url,omitempty" db:"profile_pic_url"`
	IsFollowing   bool      `json:"is_following" db:"is_following"`
}

// FollowedUser is an entry in the followed-users sidebar preview.
type FollowedUser struct {
	Username      string  `json:"username" db:"username"`
	ProfilePicURL *string `json:"profile_pic_url,omitempty" db:"profile_pic_url"`
}
