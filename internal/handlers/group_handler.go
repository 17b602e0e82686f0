package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/preference/backend/internal/models"
	"github.com/anonto42/preference/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// GroupHandler handles group chat membership
type GroupHandler struct {
	groupRepository   repositories.GroupRepository
	profileRepository repositories.ProfileRepository
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupRepo repositories.GroupRepository, profileRepo repositories.ProfileRepository) *GroupHandler {
	return &GroupHandler{
		groupRepository:   groupRepo,
		profileRepository: profileRepo,
	}
}

// RegisterGroupRoutes registers group routes
func (h *GroupHandler) RegisterGroupRoutes(g *echo.Group) {
	g.POST("/groups", h.CreateGroup)
	g.GET("/groups", h.GetMyGroups)
	g.GET("/groups/:id/members", h.GetMembers)
}

// CreateGroup creates a group with the caller and the selected members
func (h *GroupHandler) CreateGroup(c echo.Context) error {
	me := getUserIDFromContext(c)

	var req models.CreateGroupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Group name is required")
	}

	memberIDs := append([]uint{me}, req.MemberIDs...)
	found, err := h.profileRepository.GetProfilesByIDs(memberIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	known := make(map[uint]bool, len(found))
	for _, p := range found {
		known[p.ID] = true
	}
	for _, id := range memberIDs {
		if !known[id] {
			return echo.NewHTTPError(http.StatusBadRequest, "Unknown member")
		}
	}

	group := &models.Group{Name: name, CreatedBy: &me}
	if err := h.groupRepository.CreateGroup(group, memberIDs); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusCreated, group)
}

// GetMyGroups lists the groups the caller belongs to
func (h *GroupHandler) GetMyGroups(c echo.Context) error {
	groups, err := h.groupRepository.GetGroupsByUserID(getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, groups)
}

// GetMembers lists a group's members; only members may look
func (h *GroupHandler) GetMembers(c echo.Context) error {
	group, err := loadMemberGroup(c, h.groupRepository, "id")
	if err != nil {
		return err
	}
	members, err := h.groupRepository.GetMembers(group.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, compactProfiles(members))
}
