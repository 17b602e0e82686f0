package handlers

import (
	"net/http"

	"github.com/anonto42/preference/backend/internal/models"
	"github.com/anonto42/preference/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	profileRepository      repositories.ProfileRepository
	pusher                 Pusher
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, profileRepo repositories.ProfileRepository, pusher Pusher) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		profileRepository:      profileRepo,
		pusher:                 pusher,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.GET("/push/public-key", h.GetPushPublicKey)
	g.POST("/push/subscribe", h.Subscribe)
}

// EnrichedNotification includes actor info
type EnrichedNotification struct {
	models.Notification
	Actor *models.ProfileCompact `json:"actor"`
}

func (h *NotificationHandler) enrichNotifications(notifications []models.Notification) ([]EnrichedNotification, error) {
	seen := make(map[uint]bool)
	var actorIDs []uint
	for _, n := range notifications {
		if !seen[n.ActorID] {
			seen[n.ActorID] = true
			actorIDs = append(actorIDs, n.ActorID)
		}
	}
	actors, err := h.profileRepository.GetProfilesByIDs(actorIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.ProfileCompact, len(actors))
	for i := range actors {
		byID[actors[i].ID] = actors[i].ToCompact()
	}

	enriched := make([]EnrichedNotification, len(notifications))
	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}
		if actor, ok := byID[n.ActorID]; ok {
			enriched[i].Actor = &actor
		}
	}
	return enriched, nil
}

// GetNotifications returns paginated notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	page, limit := pageParams(c, 20)

	notifications, total, err := h.notificationRepository.GetByRecipientID(getUserIDFromContext(c), page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	enriched, err := h.enrichNotifications(notifications)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": enriched,
		},
		"meta": paginationMeta(page, limit, total),
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.notificationRepository.GetUnreadCount(getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	notifID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.notificationRepository.MarkAsRead(notifID, getUserIDFromContext(c)); err != nil {
		return lookupError(err, "Notification")
	}
	return respond(c, http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	if err := h.notificationRepository.MarkAllAsRead(getUserIDFromContext(c)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, echo.Map{"success": true})
}

// GetPushPublicKey returns the VAPID key browsers subscribe with
func (h *NotificationHandler) GetPushPublicKey(c echo.Context) error {
	if h.pusher == nil || !h.pusher.Enabled() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Push notifications are not configured")
	}
	return respond(c, http.StatusOK, echo.Map{"public_key": h.pusher.PublicKey()})
}

// Subscribe stores the caller's Web Push subscription
func (h *NotificationHandler) Subscribe(c echo.Context) error {
	var req models.SubscribePushRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sub := &models.PushSubscription{
		UserID:   getUserIDFromContext(c),
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	}
	if err := h.notificationRepository.SaveSubscription(sub); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusCreated, sub)
}
