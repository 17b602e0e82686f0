package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/preference/backend/internal/models"
	"github.com/anonto42/preference/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository  repositories.FollowRepository
	profileRepository repositories.ProfileRepository
	notifier          *Notifier
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, profileRepo repositories.ProfileRepository, notifier *Notifier) *FollowHandler {
	return &FollowHandler{
		followRepository:  followRepo,
		profileRepository: profileRepo,
		notifier:          notifier,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/follows/:id", h.FollowUser)
	g.DELETE("/follows/:id", h.UnfollowUser)
	g.GET("/friends", h.GetFriends)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	actor, err := currentProfile(c)
	if err != nil {
		return err
	}
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if actor.ID == targetID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}
	if _, err := h.profileRepository.GetProfileByID(targetID); err != nil {
		return lookupError(err, "User")
	}

	follow := &models.Follow{FollowerID: actor.ID, FollowingID: targetID}
	if err := h.followRepository.CreateFollow(follow); err != nil {
		if errors.Is(err, repositories.ErrAlreadyFollowing) {
			return echo.NewHTTPError(http.StatusConflict, "Already following this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.notifier.Notify(actor, targetID, models.NotificationFollow, nil)

	return respond(c, http.StatusOK, echo.Map{"following": true})
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.followRepository.DeleteFollow(currentUserID, targetID); err != nil {
		if errors.Is(err, repositories.ErrFollowNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Not following this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return respond(c, http.StatusOK, echo.Map{"following": false})
}

// GetFriends lists mutual follows
func (h *FollowHandler) GetFriends(c echo.Context) error {
	friends, err := h.followRepository.GetMutualFollows(getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, compactProfiles(friends))
}
