package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sarathradhan/social-media-app/events"
	models "github.com/sarathradhan/social-media-app/model"
	"github.com/sarathradhan/social-media-app/pkg/errs"
	"github.com/sarathradhan/social-media-app/publisher"
	"github.com/sarathradhan/social-media-app/repository"
	"github.com/sarathradhan/social-media-app/storage"
)

type PostHandler struct {
	posts   repository.PostRepository
	likes   repository.LikeRepository
	uploads *storage.FileStore
	events  *publisher.EventPublisher
}

func NewPostHandler(posts repository.PostRepository, likes repository.LikeRepository, uploads *storage.FileStore, events *publisher.EventPublisher) *PostHandler {
	return &PostHandler{
		posts:   posts,
		likes:   likes,
		uploads: uploads,
		events:  events,
	}
}

func (h *PostHandler) Feed(c *gin.Context) {
	viewerID := uuid.Nil
	sess := CurrentSession(c)
	if sess.LoggedIn() {
		viewerID = sess.UserID
	}

	posts, err := h.posts.ListFeed(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":          posts,
		"followed_users": FollowedUsers(c),
		"session":        sess,
	})
}

func (h *PostHandler) Create(c *gin.Context) {
	sess := CurrentSession(c)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		respondError(c, errs.E(errs.Invalid, "image file is required"))
		return
	}
	defer file.Close()

	imageURL, err := h.uploads.Save(file, header.Filename)
	if err != nil {
		respondError(c, errs.Wrap(errs.Internal, "failed to store image", err))
		return
	}

	post := &models.Post{
		ID:        uuid.New(),
		UserID:    sess.UserID,
		Username:  sess.Username,
		Caption:   c.PostForm("caption"),
		ImageURL:  imageURL,
		CreatedAt: time.Now(),
	}

	if err := h.posts.Create(c.Request.Context(), post); err != nil {
		respondError(c, err)
		return
	}

	h.events.PublishPostCreated(events.PostCreatedEvent{
		PostID:    post.ID,
		UserID:    post.UserID,
		Caption:   post.Caption,
		ImageURL:  post.ImageURL,
		CreatedAt: post.CreatedAt,
	})

	c.Redirect(http.StatusFound, "/")
}

func (h *PostHandler) MyPosts(c *gin.Context) {
	sess := CurrentSession(c)

	posts, err := h.posts.ListByUser(c.Request.Context(), sess.UserID, sess.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":   posts,
		"session": sess,
	})
}

func (h *PostHandler) Delete(c *gin.Context) {
	sess := CurrentSession(c)

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errs.E(errs.Invalid, "invalid post id"))
		return
	}

	// Owner-scoped: deleting an unknown id or another user's post is a no-op.
	if err := h.posts.Delete(c.Request.Context(), postID, sess.UserID); err != nil {
		respondError(c, err)
		return
	}

	h.events.PublishPostDeleted(events.PostDeletedEvent{
		PostID:    postID,
		UserID:    sess.UserID,
		DeletedAt: time.Now(),
	})

	c.Redirect(http.StatusFound, "/myposts")
}

func (h *PostHandler) ToggleLike(c *gin.Context) {
	sess := CurrentSession(c)

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errs.E(errs.Invalid, "invalid post id"))
		return
	}

	liked, err := h.likes.Toggle(c.Request.Context(), sess.UserID, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	if post, err := h.posts.GetByID(c.Request.Context(), postID); err == nil && post != nil {
		h.events.PublishPostLiked(events.PostLikedEvent{
			PostID:  postID,
			UserID:  sess.UserID,
			OwnerID: post.UserID,
			Liked:   liked,
			At:      time.Now(),
		})
	}

	c.Status(http.StatusOK)
}

func (h *PostHandler) Liked(c *gin.Context) {
	sess := CurrentSession(c)

	posts, err := h.posts.ListLiked(c.Request.Context(), sess.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":   posts,
		"session": sess,
	})
}
