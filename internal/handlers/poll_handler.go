package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/anonto42/preference/backend/internal/models"
	"github.com/anonto42/preference/backend/internal/realtime"
	"github.com/anonto42/preference/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PollHandler handles polls inside group chats
type PollHandler struct {
	chat            *Chat
	pollRepository  repositories.PollRepository
	groupRepository repositories.GroupRepository
	publisher       realtime.Publisher
	now             func() time.Time
}

// NewPollHandler creates a new PollHandler
func NewPollHandler(chat *Chat, pollRepo repositories.PollRepository, groupRepo repositories.GroupRepository, publisher realtime.Publisher) *PollHandler {
	return &PollHandler{
		chat:            chat,
		pollRepository:  pollRepo,
		groupRepository: groupRepo,
		publisher:       publisher,
		now:             time.Now,
	}
}

// RegisterPollRoutes registers poll routes
func (h *PollHandler) RegisterPollRoutes(g *echo.Group) {
	g.POST("/groups/:id/polls", h.CreatePoll)
	g.GET("/polls/:id", h.GetPoll)
	g.POST("/polls/:id/vote", h.Vote)
}

// CreatePoll creates a poll and announces it in the group
func (h *PollHandler) CreatePoll(c echo.Context) error {
	group, err := loadMemberGroup(c, h.groupRepository, "id")
	if err != nil {
		return err
	}
	var req models.CreatePollRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Poll question is required")
	}
	options := make([]models.PollOption, 0, len(req.Options))
	for _, text := range req.Options {
		text = strings.TrimSpace(text)
		if text == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Poll options cannot be empty")
		}
		options = append(options, models.PollOption{OptionText: text})
	}
	if len(options) < 2 {
		return echo.NewHTTPError(http.StatusBadRequest, "A poll needs at least two options")
	}
	if !models.PollDurations[req.DurationHours] {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid poll duration")
	}

	me := getUserIDFromContext(c)
	now := h.now()
	expires := now.Add(time.Duration(req.DurationHours) * time.Hour)
	poll := &models.Poll{
		GroupID:          group.ID,
		Question:         question,
		IsMultipleChoice: req.IsMultipleChoice,
		ExpiresAt:        &expires,
		CreatedBy:        me,
		Options:          options,
	}
	if err := h.pollRepository.CreatePoll(poll); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if _, err := h.chat.SendGroup(c.Request().Context(), me, group.ID, "📊 Poll: "+question, nil, &poll.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusCreated, poll.Results(now, nil))
}

// loadPoll fetches the :id poll and checks the caller belongs to its group.
func (h *PollHandler) loadPoll(c echo.Context) (*models.Poll, error) {
	pollID, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	poll, err := h.pollRepository.GetPollByID(pollID)
	if err != nil {
		return nil, lookupError(err, "Poll")
	}
	member, err := h.groupRepository.IsMember(poll.GroupID, getUserIDFromContext(c))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !member {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You are not a member of this group")
	}
	return poll, nil
}

// GetPoll returns a poll with its current tally
func (h *PollHandler) GetPoll(c echo.Context) error {
	poll, err := h.loadPoll(c)
	if err != nil {
		return err
	}
	return h.results(c, poll.ID)
}

// Vote casts the caller's vote on a poll option
func (h *PollHandler) Vote(c echo.Context) error {
	poll, err := h.loadPoll(c)
	if err != nil {
		return err
	}
	var req models.VoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	voted, err := h.pollRepository.Vote(poll.ID, req.OptionID, getUserIDFromContext(c), h.now())
	switch {
	case errors.Is(err, repositories.ErrPollExpired):
		return echo.NewHTTPError(http.StatusBadRequest, "Poll has expired")
	case errors.Is(err, repositories.ErrAlreadyVoted):
		return echo.NewHTTPError(http.StatusConflict, "You have already voted")
	case errors.Is(err, repositories.ErrOptionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Option not found")
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if voted {
		if members, err := h.chat.memberIDs(poll.GroupID); err == nil {
			h.publisher.Publish(realtime.Event{
				Table:    realtime.TablePollVotes,
				Type:     realtime.Insert,
				RecordID: strconv.FormatUint(uint64(poll.ID), 10),
				UserIDs:  members,
			})
		}
	}
	return h.results(c, poll.ID)
}

func (h *PollHandler) results(c echo.Context, pollID uint) error {
	poll, err := h.pollRepository.GetPollByID(pollID)
	if err != nil {
		return lookupError(err, "Poll")
	}
	voted, err := h.pollRepository.GetVotedOptionIDs(getUserIDFromContext(c), []uint{poll.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, poll.Results(h.now(), voted))
}
