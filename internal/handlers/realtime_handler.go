package handlers

import (
	"log"

	"github.com/anonto42/preference/backend/internal/realtime"
	"github.com/labstack/echo/v4"
)

// RealtimeHandler upgrades authenticated clients to the change-event stream
type RealtimeHandler struct {
	hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

func (h *RealtimeHandler) RegisterRealtimeRoutes(g *echo.Group) {
	g.GET("/realtime", h.Stream)
}

// Stream blocks for the lifetime of the websocket connection.
func (h *RealtimeHandler) Stream(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if err := h.hub.Serve(c.Response(), c.Request(), userID); err != nil {
		log.Printf("realtime: upgrade failed for user %d: %v", userID, err)
	}
	return nil
}
