package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/preference/backend/internal/models"
	"github.com/anonto42/preference/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

const searchLimit = 20

// ProfileHandler handles HTTP requests related to profiles
type ProfileHandler struct {
	profileRepository repositories.ProfileRepository
	followRepository  repositories.FollowRepository
	postRepository    repositories.PostRepository
	commentRepository repositories.CommentRepository
	presenter         *PostPresenter
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(
	profileRepo repositories.ProfileRepository,
	followRepo repositories.FollowRepository,
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	presenter *PostPresenter,
) *ProfileHandler {
	return &ProfileHandler{
		profileRepository: profileRepo,
		followRepository:  followRepo,
		postRepository:    postRepo,
		commentRepository: commentRepo,
		presenter:         presenter,
	}
}

// RegisterProfileRoutes registers profile-related routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/me", h.GetMe)
	g.PUT("/me", h.UpdateProfile)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:username", h.GetProfile)
	g.GET("/users/:username/posts", h.GetUserPosts)
	g.GET("/users/:username/comments", h.GetUserComments)
	g.GET("/users/:username/likes", h.GetUserLikes)
}

// GetMe returns the caller's own profile
func (h *ProfileHandler) GetMe(c echo.Context) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}
	return h.detail(c, profile, profile.ID)
}

// UpdateProfile changes username, bio or avatar
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Username cannot be empty")
		}
		profile.Username = username
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = req.AvatarURL
	}

	if err := h.profileRepository.UpdateProfile(profile); err != nil {
		if errors.Is(err, repositories.ErrUsernameTaken) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, profile)
}

// GetProfile returns a profile page by username
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	target, err := h.profileRepository.GetProfileByUsername(c.Param("username"))
	if err != nil {
		return lookupError(err, "User")
	}
	return h.detail(c, target, getUserIDFromContext(c))
}

func (h *ProfileHandler) detail(c echo.Context, profile *models.Profile, viewerID uint) error {
	stats, err := h.followRepository.GetFollowStats(profile.ID, viewerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return respond(c, http.StatusOK, models.ProfileDetail{
		Profile:        *profile,
		FollowersCount: stats.Followers,
		FollowingCount: stats.Following,
		IsFollowing:    viewerID != profile.ID && stats.IsFollowing,
	})
}

// SearchUsers finds users whose username contains q
func (h *ProfileHandler) SearchUsers(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return respond(c, http.StatusOK, []models.ProfileCompact{})
	}
	profiles, err := h.profileRepository.SearchProfiles(q, searchLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, compactProfiles(profiles))
}

// GetUserPosts lists a user's originals or reposts (?type=original|repost)
func (h *ProfileHandler) GetUserPosts(c echo.Context) error {
	target, err := h.profileRepository.GetProfileByUsername(c.Param("username"))
	if err != nil {
		return lookupError(err, "User")
	}

	postType := c.QueryParam("type")
	if postType == "" {
		postType = models.PostTypeOriginal
	}
	if postType != models.PostTypeOriginal && postType != models.PostTypeRepost {
		return echo.NewHTTPError(http.StatusBadRequest, "type must be original or repost")
	}

	posts, err := h.postRepository.GetPostsByUserID(target.ID, postType)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	views, err := h.presenter.posts(getUserIDFromContext(c), posts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, views)
}

// GetUserComments lists a user's comments with the posts they belong to
func (h *ProfileHandler) GetUserComments(c echo.Context) error {
	target, err := h.profileRepository.GetProfileByUsername(c.Param("username"))
	if err != nil {
		return lookupError(err, "User")
	}
	comments, err := h.commentRepository.GetCommentsByUserID(target.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	views, err := h.presenter.comments(comments, true)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, views)
}

// GetUserLikes lists the posts a user liked
func (h *ProfileHandler) GetUserLikes(c echo.Context) error {
	target, err := h.profileRepository.GetProfileByUsername(c.Param("username"))
	if err != nil {
		return lookupError(err, "User")
	}
	posts, err := h.postRepository.GetLikedPosts(target.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	views, err := h.presenter.posts(getUserIDFromContext(c), posts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, views)
}

func compactProfiles(profiles []models.Profile) []models.ProfileCompact {
	out := make([]models.ProfileCompact, len(profiles))
	for i := range profiles {
		out[i] = profiles[i].ToCompact()
	}
	return out
}
