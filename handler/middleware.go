package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	models "github.com/sarathradhan/social-media-app/model"
	"github.com/sarathradhan/social-media-app/repository"
	"github.com/sarathradhan/social-media-app/session"
)

const (
	// SessionCookie carries the opaque server-side session id.
	SessionCookie = "session_id"

	ctxSessionKey  = "session"
	ctxFollowedKey = "followed_users"

	followedPreviewLimit = 8
)

type Middleware struct {
	sessions session.Store
	follows  repository.FollowRepository
}

func NewMiddleware(sessions session.Store, follows repository.FollowRepository) *Middleware {
	return &Middleware{sessions: sessions, follows: follows}
}

// LoadSession resolves the session cookie against the server-side store and
// attaches the session to the request. Missing or stale cookies leave the
// request anonymous.
func (m *Middleware) LoadSession(c *gin.Context) {
	id, err := c.Cookie(SessionCookie)
	if err != nil || id == "" {
		c.Next()
		return
	}

	sess, err := m.sessions.Get(c.Request.Context(), id)
	if err != nil {
		log.Printf("session lookup failed: %v", err)
		c.Next()
		return
	}
	if sess.LoggedIn() {
		c.Set(ctxSessionKey, sess)
	}
	c.Next()
}

// RequireLogin gates personalized and mutating routes.
func (m *Middleware) RequireLogin(c *gin.Context) {
	if !CurrentSession(c).LoggedIn() {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}

// FollowedPreview loads the sidebar sample of followed users for logged-in
// requests. Best-effort: failures are logged and the page renders without it.
func (m *Middleware) FollowedPreview(c *gin.Context) {
	sess := CurrentSession(c)
	if !sess.LoggedIn() {
		c.Next()
		return
	}

	users, err := m.follows.ListFollowedPreview(c.Request.Context(), sess.UserID, followedPreviewLimit)
	if err != nil {
		log.Printf("followed preview failed: %v", err)
		c.Next()
		return
	}
	c.Set(ctxFollowedKey, users)
	c.Next()
}

// CurrentSession returns the request's session, or nil when anonymous.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(ctxSessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

// FollowedUsers returns the sidebar preview loaded by FollowedPreview.
func FollowedUsers(c *gin.Context) []models.FollowedUser {
	v, ok := c.Get(ctxFollowedKey)
	if !ok {
		return []models.FollowedUser{}
	}
	users, _ := v.([]models.FollowedUser)
	return users
}
