package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sarathradhan/social-media-app/events"
	"github.com/sarathradhan/social-media-app/pkg/errs"
	"github.com/sarathradhan/social-media-app/publisher"
	"github.com/sarathradhan/social-media-app/repository"
)

type FollowHandler struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	events  *publisher.EventPublisher
}

func NewFollowHandler(users repository.UserRepository, follows repository.FollowRepository, events *publisher.EventPublisher) *FollowHandler {
	return &FollowHandler{
		users:   users,
		follows: follows,
		events:  events,
	}
}

func (h *FollowHandler) Explore(c *gin.Context) {
	sess := CurrentSession(c)

	users, err := h.users.ListExplore(c.Request.Context(), sess.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":          users,
		"followed_users": FollowedUsers(c),
		"session":        sess,
	})
}

func (h *FollowHandler) Follow(c *gin.Context) {
	sess := CurrentSession(c)

	target, err := h.users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	if target == nil {
		respondError(c, errs.E(errs.NotFound, "user not found"))
		return
	}

	if err := h.follows.Follow(c.Request.Context(), sess.UserID, target.ID); err != nil {
		respondError(c, err)
		return
	}

	h.events.PublishUserFollowed(events.UserFollowedEvent{
		FollowerID:  sess.UserID,
		FollowingID: target.ID,
		Following:   true,
		At:          time.Now(),
	})

	redirectBack(c)
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	sess := CurrentSession(c)

	target, err := h.users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	if target == nil {
		respondError(c, errs.E(errs.NotFound, "user not found"))
		return
	}

	if err := h.follows.Unfollow(c.Request.Context(), sess.UserID, target.ID); err != nil {
		respondError(c, err)
		return
	}

	h.events.PublishUserFollowed(events.UserFollowedEvent{
		FollowerID:  sess.UserID,
		FollowingID: target.ID,
		Following:   false,
		At:          time.Now(),
	})

	redirectBack(c)
}

// redirectBack returns the browser to the page the form was posted from.
func redirectBack(c *gin.Context) {
	ref := c.GetHeader("Referer")
	if ref == "" {
		ref = "/explore"
	}
	c.Redirect(http.StatusFound, ref)
}
