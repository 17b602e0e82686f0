package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/preference/backend/internal/models"
	"github.com/anonto42/preference/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// MessageHandler handles conversations, direct and group messages
type MessageHandler struct {
	chat                   *Chat
	messageRepository      repositories.MessageRepository
	profileRepository      repositories.ProfileRepository
	followRepository       repositories.FollowRepository
	groupRepository        repositories.GroupRepository
	pollRepository         repositories.PollRepository
	notificationRepository repositories.NotificationRepository
	postRepository         repositories.PostRepository
	commentRepository      repositories.CommentRepository
	managementSlug         string
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(
	chat *Chat,
	messageRepo repositories.MessageRepository,
	profileRepo repositories.ProfileRepository,
	followRepo repositories.FollowRepository,
	groupRepo repositories.GroupRepository,
	pollRepo repositories.PollRepository,
	notifRepo repositories.NotificationRepository,
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	managementSlug string,
) *MessageHandler {
	return &MessageHandler{
		chat:                   chat,
		messageRepository:      messageRepo,
		profileRepository:      profileRepo,
		followRepository:       followRepo,
		groupRepository:        groupRepo,
		pollRepository:         pollRepo,
		notificationRepository: notifRepo,
		postRepository:         postRepo,
		commentRepository:      commentRepo,
		managementSlug:         managementSlug,
	}
}

// RegisterMessageRoutes registers chat routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/conversations", h.GetConversations)
	g.GET("/messages/direct/:userId", h.GetDirectMessages)
	g.POST("/messages/direct/:userId", h.SendDirectMessage)
	g.GET("/groups/:id/messages", h.GetGroupMessages)
	g.POST("/groups/:id/messages", h.SendGroupMessage)
	g.POST("/posts/:id/share", h.SharePost)
	g.POST("/comments/:id/share", h.ShareComment)
	g.GET("/unread-counts", h.GetUnreadCounts)
}

// GetConversations lists friends (mutual follows) and the caller's groups.
// Staff are added to the management group first.
func (h *MessageHandler) GetConversations(c echo.Context) error {
	me, err := currentProfile(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if me.IsStaff() {
		if err := h.joinManagementGroup(me.ID); err != nil {
			log.Printf("Failed to add user %d to management group: %v", me.ID, err)
		}
	}

	friends, err := h.followRepository.GetMutualFollows(me.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	groups, err := h.groupRepository.GetGroupsByUserID(me.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	conversations := make([]models.Conversation, 0, len(friends)+len(groups))
	for i := range friends {
		unread, err := h.messageRepository.CountUnreadFrom(ctx, friends[i].ID, me.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		compact := friends[i].ToCompact()
		conversations = append(conversations, models.Conversation{Kind: "direct", User: &compact, Unread: unread})
	}
	for i := range groups {
		conversations = append(conversations, models.Conversation{Kind: "group", Group: &groups[i]})
	}

	return respond(c, http.StatusOK, conversations)
}

func (h *MessageHandler) joinManagementGroup(userID uint) error {
	group, err := h.groupRepository.GetGroupBySlug(h.managementSlug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		slug := h.managementSlug
		group = &models.Group{Name: "Management", Slug: &slug}
		if err := h.groupRepository.CreateGroup(group, nil); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	return h.groupRepository.EnsureMember(group.ID, userID)
}

// GetDirectMessages returns the conversation with a user and marks their messages read
func (h *MessageHandler) GetDirectMessages(c echo.Context) error {
	me := getUserIDFromContext(c)
	peerID, err := parseIDParam(c, "userId")
	if err != nil {
		return err
	}
	peer, err := h.profileRepository.GetProfileByID(peerID)
	if err != nil {
		return lookupError(err, "User")
	}
	ctx := c.Request().Context()

	if err := h.messageRepository.MarkRead(ctx, peer.ID, me); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	messages, err := h.messageRepository.GetDirectMessages(ctx, me, peer.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	views, err := h.messageViews(me, messages)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, views)
}

// SendDirectMessage sends a message to a user
func (h *MessageHandler) SendDirectMessage(c echo.Context) error {
	me := getUserIDFromContext(c)
	peerID, err := parseIDParam(c, "userId")
	if err != nil {
		return err
	}
	if peerID == me {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot message yourself")
	}
	if _, err := h.profileRepository.GetProfileByID(peerID); err != nil {
		return lookupError(err, "User")
	}

	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" && len(req.Images) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Message needs content or images")
	}

	msg, err := h.chat.SendDirect(c.Request().Context(), me, peerID, content, req.Images)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusCreated, msg)
}

// requireMember loads the :id group and checks the caller belongs to it.
func (h *MessageHandler) requireMember(c echo.Context) (*models.Group, error) {
	return loadMemberGroup(c, h.groupRepository, "id")
}

func loadMemberGroup(c echo.Context, groups repositories.GroupRepository, param string) (*models.Group, error) {
	groupID, err := parseIDParam(c, param)
	if err != nil {
		return nil, err
	}
	group, err := groups.GetGroupByID(groupID)
	if err != nil {
		return nil, lookupError(err, "Group")
	}
	member, err := groups.IsMember(group.ID, getUserIDFromContext(c))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !member {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You are not a member of this group")
	}
	return group, nil
}

// GetGroupMessages lists a group's messages with any polls tallied
func (h *MessageHandler) GetGroupMessages(c echo.Context) error {
	group, err := h.requireMember(c)
	if err != nil {
		return err
	}
	messages, err := h.messageRepository.GetGroupMessages(c.Request().Context(), group.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	views, err := h.messageViews(getUserIDFromContext(c), messages)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, views)
}

// SendGroupMessage posts into a group the caller belongs to
func (h *MessageHandler) SendGroupMessage(c echo.Context) error {
	group, err := h.requireMember(c)
	if err != nil {
		return err
	}
	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" && len(req.Images) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Message needs content or images")
	}

	msg, err := h.chat.SendGroup(c.Request().Context(), getUserIDFromContext(c), group.ID, content, req.Images, nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusCreated, msg)
}

// SharePost sends a post snippet to a user or group
func (h *MessageHandler) SharePost(c echo.Context) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return lookupError(err, "Post")
	}
	author := ""
	if post.Author != nil {
		author = post.Author.Username
	}
	return h.share(c, ShareSnippet("post", post.Content, author))
}

// ShareComment sends a comment snippet to a user or group
func (h *MessageHandler) ShareComment(c echo.Context) error {
	commentID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	comment, err := h.commentRepository.GetCommentByID(commentID)
	if err != nil {
		return lookupError(err, "Comment")
	}
	author := ""
	if comment.Author != nil {
		author = comment.Author.Username
	}
	return h.share(c, ShareSnippet("comment", comment.Content, author))
}

func (h *MessageHandler) share(c echo.Context, content string) error {
	var req models.ShareRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	me := getUserIDFromContext(c)
	ctx := c.Request().Context()

	if req.IsGroup {
		member, err := h.groupRepository.IsMember(req.TargetID, me)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if !member {
			return echo.NewHTTPError(http.StatusForbidden, "You are not a member of this group")
		}
		msg, err := h.chat.SendGroup(ctx, me, req.TargetID, content, nil, nil)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return respond(c, http.StatusCreated, msg)
	}

	if req.TargetID == me {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot share to yourself")
	}
	if _, err := h.profileRepository.GetProfileByID(req.TargetID); err != nil {
		return lookupError(err, "User")
	}
	msg, err := h.chat.SendDirect(ctx, me, req.TargetID, content, nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusCreated, msg)
}

// GetUnreadCounts returns unread notification and direct message counts
func (h *MessageHandler) GetUnreadCounts(c echo.Context) error {
	me := getUserIDFromContext(c)
	notifications, err := h.notificationRepository.GetUnreadCount(me)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	messages, err := h.messageRepository.CountUnread(c.Request().Context(), me)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, echo.Map{
		"notifications": notifications,
		"messages":      messages,
	})
}

// messageViews attaches sender profiles and poll tallies.
func (h *MessageHandler) messageViews(viewerID uint, messages []models.Message) ([]models.MessageView, error) {
	senderSet := make(map[uint]bool)
	var pollIDs []uint
	for _, m := range messages {
		senderSet[m.SenderID] = true
		if m.PollID != nil {
			pollIDs = append(pollIDs, *m.PollID)
		}
	}
	senderIDs := make([]uint, 0, len(senderSet))
	for id := range senderSet {
		senderIDs = append(senderIDs, id)
	}

	profiles, err := h.profileRepository.GetProfilesByIDs(senderIDs)
	if err != nil {
		return nil, err
	}
	senders := make(map[uint]models.ProfileCompact, len(profiles))
	for i := range profiles {
		senders[profiles[i].ID] = profiles[i].ToCompact()
	}

	polls, err := h.pollRepository.GetPollsByIDs(pollIDs)
	if err != nil {
		return nil, err
	}
	voted, err := h.pollRepository.GetVotedOptionIDs(viewerID, pollIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]models.MessageView, len(messages))
	for i, m := range messages {
		views[i] = models.MessageView{Message: m}
		if s, ok := senders[m.SenderID]; ok {
			sender := s
			views[i].Sender = &sender
		}
		if m.PollID != nil {
			if p, ok := polls[*m.PollID]; ok {
				result := p.Results(now, voted)
				views[i].Poll = &result
			}
		}
	}
	return views, nil
}
