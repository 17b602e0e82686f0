package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/preference/backend/internal/models"
	"github.com/anonto42/preference/backend/internal/realtime"
	"github.com/anonto42/preference/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	wordRepository    repositories.SensitiveWordRepository
	presenter         *PostPresenter
	notifier          *Notifier
	publisher         realtime.Publisher
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	wordRepo repositories.SensitiveWordRepository,
	presenter *PostPresenter,
	notifier *Notifier,
	publisher realtime.Publisher,
) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		wordRepository:    wordRepo,
		presenter:         presenter,
		notifier:          notifier,
		publisher:         publisher,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/posts/:id/comments", h.GetCommentsByPostID)
	g.POST("/posts/:id/comments", h.CreateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment adds a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	author, err := currentProfile(c)
	if err != nil {
		return err
	}
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" && len(req.Images) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment needs content or images")
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return lookupError(err, "Post")
	}
	if err := checkSensitive(h.wordRepository, content); err != nil {
		return err
	}

	comment := &models.Comment{
		PostID:  post.ID,
		UserID:  author.ID,
		Content: content,
		Images:  req.Images,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	comment.Author = author

	h.publishComment(realtime.Insert, comment.ID)
	h.notifier.Notify(author, post.UserID, models.NotificationComment, &post.ID)

	views, err := h.presenter.comments([]models.Comment{*comment}, false)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusCreated, views[0])
}

// GetCommentsByPostID lists a post's comments oldest first
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.postRepository.GetPostByID(postID); err != nil {
		return lookupError(err, "Post")
	}
	comments, err := h.commentRepository.GetCommentsByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	views, err := h.presenter.comments(comments, false)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, views)
}

// DeleteComment deletes the caller's own comment
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	commentID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	comment, err := h.commentRepository.GetCommentByID(commentID)
	if err != nil {
		return lookupError(err, "Comment")
	}
	if comment.UserID != getUserIDFromContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this comment")
	}
	if err := h.commentRepository.DeleteComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.publishComment(realtime.Delete, comment.ID)
	return c.NoContent(http.StatusNoContent)
}

func (h *CommentHandler) publishComment(kind string, id uint) {
	h.publisher.Publish(realtime.Event{
		Table:    realtime.TableComments,
		Type:     kind,
		RecordID: strconv.FormatUint(uint64(id), 10),
	})
}
