package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/preference/backend/internal/models"
	"github.com/anonto42/preference/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// feedUserMatches caps the users returned alongside a first search page.
const feedUserMatches = 5

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	postRepository    repositories.PostRepository
	profileRepository repositories.ProfileRepository
	presenter         *PostPresenter
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository, profileRepo repositories.ProfileRepository, presenter *PostPresenter) *FeedHandler {
	return &FeedHandler{
		postRepository:    postRepo,
		profileRepository: profileRepo,
		presenter:         presenter,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns one page of the global timeline starting at ?offset.
// With ?q the page is filtered by content and the first page also carries matching users.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}
	q := strings.TrimSpace(c.QueryParam("q"))

	posts, err := h.postRepository.GetFeed(offset, repositories.FeedPageSize, q)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	views, err := h.presenter.posts(getUserIDFromContext(c), posts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	data := echo.Map{
		"posts":       views,
		"has_more":    len(posts) == repositories.FeedPageSize,
		"next_offset": offset + len(posts),
	}
	if q != "" && offset == 0 {
		users, err := h.profileRepository.SearchProfiles(q, feedUserMatches)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		data["users"] = compactProfiles(users)
	} else if q != "" {
		data["users"] = []models.ProfileCompact{}
	}

	return respond(c, http.StatusOK, data)
}
