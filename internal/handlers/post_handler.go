package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/preference/backend/internal/moderation"
	"github.com/anonto42/preference/backend/internal/models"
	"github.com/anonto42/preference/backend/internal/realtime"
	"github.com/anonto42/preference/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	wordRepository repositories.SensitiveWordRepository
	presenter      *PostPresenter
	notifier       *Notifier
	publisher      realtime.Publisher
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	wordRepo repositories.SensitiveWordRepository,
	presenter *PostPresenter,
	notifier *Notifier,
	publisher realtime.Publisher,
) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		wordRepository: wordRepo,
		presenter:      presenter,
		notifier:       notifier,
		publisher:      publisher,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/repost", h.Repost)
}

// checkSensitive rejects text containing a listed word with 422.
func checkSensitive(words repositories.SensitiveWordRepository, text string) error {
	list, err := words.GetWords()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if _, found := moderation.Contains(text, list); found {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "Content contains sensitive words")
	}
	return nil
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	author, err := currentProfile(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" && len(req.Images) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Post needs content or images")
	}
	if err := checkSensitive(h.wordRepository, content); err != nil {
		return err
	}

	post := &models.Post{
		UserID:  author.ID,
		Content: content,
		Images:  req.Images,
		Type:    models.PostTypeOriginal,
	}
	if err := h.postRepository.CreatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	post.Author = author

	h.publishPost(realtime.Insert, post.ID)

	view, err := h.presenter.post(author.ID, post)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusCreated, view)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return lookupError(err, "Post")
	}
	view, err := h.presenter.post(getUserIDFromContext(c), post)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, view)
}

// DeletePost deletes a post
func (h *PostHandler) DeletePost(c echo.Context) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return lookupError(err, "Post")
	}

	// Ensure the user deleting the post is the owner
	if post.UserID != getUserIDFromContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
	}

	if err := h.postRepository.DeletePost(postID); err != nil {
		return lookupError(err, "Post")
	}
	h.publishPost(realtime.Delete, postID)

	return c.NoContent(http.StatusNoContent)
}

// Repost copies a post onto the caller's timeline
func (h *PostHandler) Repost(c echo.Context) error {
	actor, err := currentProfile(c)
	if err != nil {
		return err
	}
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	original, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return lookupError(err, "Post")
	}

	images := make([]string, len(original.Images))
	copy(images, original.Images)
	repost := &models.Post{
		UserID:   actor.ID,
		Content:  original.Content,
		Images:   images,
		Type:     models.PostTypeRepost,
		ParentID: &original.ID,
	}
	if err := h.postRepository.CreatePost(repost); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	repost.Author = actor

	h.publishPost(realtime.Insert, repost.ID)
	h.notifier.Notify(actor, original.UserID, models.NotificationRepost, &original.ID)

	view, err := h.presenter.post(actor.ID, repost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusCreated, view)
}

func (h *PostHandler) publishPost(kind string, id uint) {
	h.publisher.Publish(realtime.Event{
		Table:    realtime.TablePosts,
		Type:     kind,
		RecordID: strconv.FormatUint(uint64(id), 10),
	})
}
