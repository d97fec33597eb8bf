package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	models "github.com/sarathradhan/social-media-app/model"
	"github.com/sarathradhan/social-media-app/pkg/errs"
	"github.com/sarathradhan/social-media-app/pkg/googleauth"
	"github.com/sarathradhan/social-media-app/repository"
	"github.com/sarathradhan/social-media-app/session"
)

const stateCookie = "oauth_state"

type AuthHandler struct {
	users      repository.UserRepository
	sessions   session.Store
	google     *googleauth.Client
	sessionTTL time.Duration
}

func NewAuthHandler(users repository.UserRepository, sessions session.Store, google *googleauth.Client, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		users:      users,
		sessions:   sessions,
		google:     google,
		sessionTTL: sessionTTL,
	}
}

func (h *AuthHandler) SignupPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "signup"})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if username == "" || password == "" {
		respondError(c, errs.E(errs.Invalid, "username and password are required"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, errs.Wrap(errs.Internal, "failed to hash password", err))
		return
	}

	hashStr := string(hash)
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: &hashStr,
		CreatedAt:    time.Now(),
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "login"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	user, err := h.users.GetByUsername(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	// Unknown username and wrong password fail identically.
	if user == nil || user.PasswordHash == nil {
		respondError(c, errs.E(errs.Unauthorized, "invalid credentials"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		respondError(c, errs.E(errs.Unauthorized, "invalid credentials"))
		return
	}

	if err := h.startSession(c, user); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Logout destroys the server-side session so the cookie cannot be replayed.
func (h *AuthHandler) Logout(c *gin.Context) {
	if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
		if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
			log.Printf("failed to destroy session: %v", err)
		}
	}

	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.google == nil {
		respondError(c, errs.E(errs.NotFound, "google login is not configured"))
		return
	}

	state := uuid.NewString()
	c.SetCookie(stateCookie, state, 300, "/", "", false, true)
	c.Redirect(http.StatusFound, h.google.AuthCodeURL(state))
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.google == nil {
		respondError(c, errs.E(errs.NotFound, "google login is not configured"))
		return
	}

	state, err := c.Cookie(stateCookie)
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)
	if err != nil || state == "" || c.Query("state") != state {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	identity, err := h.google.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		log.Printf("google exchange failed: %v", err)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := h.users.FindOrCreateByGoogleID(c.Request.Context(), identity.GoogleID, identity.Name, identity.PictureURL)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.startSession(c, user); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+user.Username)
}

// startSession populates the session store identically for both credential
// paths and sets the opaque cookie.
func (h *AuthHandler) startSession(c *gin.Context, user *models.User) error {
	id, err := h.sessions.Create(c.Request.Context(), &session.Session{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		return errs.Wrap(errs.Internal, "failed to create session", err)
	}

	c.SetCookie(SessionCookie, id, int(h.sessionTTL.Seconds()), "/", "", false, true)
	return nil
}
