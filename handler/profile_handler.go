package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sarathradhan/social-media-app/pkg/errs"
	"github.com/sarathradhan/social-media-app/repository"
	"github.com/sarathradhan/social-media-app/storage"
)

type ProfileHandler struct {
	users   repository.UserRepository
	posts   repository.PostRepository
	follows repository.FollowRepository
	avatars *storage.FileStore
}

func NewProfileHandler(users repository.UserRepository, posts repository.PostRepository, follows repository.FollowRepository, avatars *storage.FileStore) *ProfileHandler {
	return &ProfileHandler{
		users:   users,
		posts:   posts,
		follows: follows,
		avatars: avatars,
	}
}

// Me redirects to the viewer's own profile page.
func (h *ProfileHandler) Me(c *gin.Context) {
	sess := CurrentSession(c)
	c.Redirect(http.StatusFound, "/profile/"+sess.Username)
}

func (h *ProfileHandler) Show(c *gin.Context) {
	sess := CurrentSession(c)

	user, err := h.users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		respondError(c, errs.E(errs.NotFound, "user not found"))
		return
	}

	posts, err := h.posts.ListByUser(c.Request.Context(), sess.UserID, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	counts, err := h.follows.Counts(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":            user,
		"posts":           posts,
		"is_owner":        sess.UserID == user.ID,
		"follower_count":  counts.Followers,
		"following_count": counts.Following,
		"followed_users":  FollowedUsers(c),
		"session":         sess,
	})
}

// Edit applies a partial profile update: only supplied fields change. With
// neither a bio field nor an avatar file the request is a no-op redirect.
func (h *ProfileHandler) Edit(c *gin.Context) {
	sess := CurrentSession(c)

	var bio *string
	if v, ok := c.GetPostForm("bio"); ok {
		bio = &v
	}

	var avatarURL *string
	if file, header, err := c.Request.FormFile("avatar"); err == nil {
		defer file.Close()
		url, err := h.avatars.Save(file, header.Filename)
		if err != nil {
			respondError(c, errs.Wrap(errs.Internal, "failed to store avatar", err))
			return
		}
		avatarURL = &url
	}

	if bio == nil && avatarURL == nil {
		c.Redirect(http.StatusFound, "/profile/"+sess.Username)
		return
	}

	var previousAvatar *string
	if avatarURL != nil {
		if current, err := h.users.GetByID(c.Request.Context(), sess.UserID); err == nil && current != nil {
			previousAvatar = current.ProfilePicURL
		}
	}

	if err := h.users.UpdateProfile(c.Request.Context(), sess.UserID, bio, avatarURL); err != nil {
		respondError(c, err)
		return
	}

	// The replaced avatar file is dead weight once the row points elsewhere.
	if avatarURL != nil && previousAvatar != nil {
		if err := h.avatars.Remove(*previousAvatar); err != nil {
			log.Printf("failed to remove old avatar: %v", err)
		}
	}

	c.Redirect(http.StatusFound, "/profile/"+sess.Username)
}
