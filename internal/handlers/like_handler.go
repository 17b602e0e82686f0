package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/preference/backend/internal/models"
	"github.com/anonto42/preference/backend/internal/realtime"
	"github.com/anonto42/preference/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository repositories.LikeRepository
	postRepository repositories.PostRepository
	notifier       *Notifier
	publisher      realtime.Publisher
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, postRepo repositories.PostRepository, notifier *Notifier, publisher realtime.Publisher) *LikeHandler {
	return &LikeHandler{
		likeRepository: likeRepo,
		postRepository: postRepo,
		notifier:       notifier,
		publisher:      publisher,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.LikePost)
	g.DELETE("/posts/:id/like", h.UnlikePost)
}

// LikePost likes a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	actor, err := currentProfile(c)
	if err != nil {
		return err
	}
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return lookupError(err, "Post")
	}

	if err := h.likeRepository.LikePost(post.ID, actor.ID); err != nil {
		if errors.Is(err, repositories.ErrAlreadyLiked) {
			return echo.NewHTTPError(http.StatusConflict, "Post already liked")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publishLike(realtime.Insert, post.ID)
	h.notifier.Notify(actor, post.UserID, models.NotificationLike, &post.ID)

	return respond(c, http.StatusOK, echo.Map{"liked": true, "likes_count": post.LikesCount + 1})
}

// UnlikePost removes the caller's like
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.likeRepository.UnlikePost(postID, getUserIDFromContext(c)); err != nil {
		if errors.Is(err, repositories.ErrLikeNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Like not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publishLike(realtime.Delete, postID)

	return respond(c, http.StatusOK, echo.Map{"liked": false})
}

func (h *LikeHandler) publishLike(kind string, postID uint) {
	h.publisher.Publish(realtime.Event{
		Table:    realtime.TableLikes,
		Type:     kind,
		RecordID: strconv.FormatUint(uint64(postID), 10),
	})
}
