package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sarathradhan/social-media-app/pkg/googleauth"
	"github.com/sarathradhan/social-media-app/publisher"
	"github.com/sarathradhan/social-media-app/repository"
	"github.com/sarathradhan/social-media-app/session"
	"github.com/sarathradhan/social-media-app/storage"
)

type RouterConfig struct {
	Sessions   session.Store
	Users      repository.UserRepository
	Posts      repository.PostRepository
	Likes      repository.LikeRepository
	Follows    repository.FollowRepository
	Uploads    *storage.FileStore
	Avatars    *storage.FileStore
	Google     *googleauth.Client
	Events     *publisher.EventPublisher
	SessionTTL time.Duration
}

// NewRouter wires the middleware chain and the full route surface.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}

	mw := NewMiddleware(cfg.Sessions, cfg.Follows)
	authHandler := NewAuthHandler(cfg.Users, cfg.Sessions, cfg.Google, cfg.SessionTTL)
	postHandler := NewPostHandler(cfg.Posts, cfg.Likes, cfg.Uploads, cfg.Events)
	followHandler := NewFollowHandler(cfg.Users, cfg.Follows, cfg.Events)
	profileHandler := NewProfileHandler(cfg.Users, cfg.Posts, cfg.Follows, cfg.Avatars)

	r := gin.Default()
	r.Use(mw.LoadSession, mw.FollowedPreview)

	// Uploaded files are referenced by relative URL, so their directories are
	// served as-is.
	if cfg.Uploads != nil {
		r.Static(cfg.Uploads.URLPrefix(), cfg.Uploads.Dir())
	}
	if cfg.Avatars != nil {
		r.Static(cfg.Avatars.URLPrefix(), cfg.Avatars.Dir())
	}

	r.GET("/signup", authHandler.SignupPage)
	r.POST("/signup", authHandler.Signup)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.GET("/auth/google", authHandler.GoogleLogin)
	r.GET("/auth/google/callback", authHandler.GoogleCallback)

	// No anonymous browsing: every personalized or mutating route, the feed
	// and explore included, sits behind the login gate.
	private := r.Group("", mw.RequireLogin)
	private.GET("/", postHandler.Feed)
	private.POST("/posts", postHandler.Create)
	private.GET("/myposts", postHandler.MyPosts)
	private.POST("/posts/:id/delete", postHandler.Delete)
	private.POST("/posts/:id/like", postHandler.ToggleLike)
	private.GET("/liked", postHandler.Liked)
	private.GET("/profile", profileHandler.Me)
	private.GET("/profile/:username", profileHandler.Show)
	private.POST("/profile/edit", profileHandler.Edit)
	private.GET("/explore", followHandler.Explore)
	private.POST("/follow/:username", followHandler.Follow)
	private.POST("/unfollow/:username", followHandler.Unfollow)

	return r
}
