package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/course-portal-backend/internal/http/response"
	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
	"github.com/yungbote/course-portal-backend/internal/platform/ctxutil"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
	"github.com/yungbote/course-portal-backend/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub}
}

// GET /api/events
func (h *RealtimeHandler) Stream(c *gin.Context) {
	actor := ctxutil.ActorFrom(c.Request.Context())
	if !actor.Authenticated() {
		response.RespondAPIError(c, pkgerrors.ErrUnauthorized)
		return
	}
	client := h.hub.NewSSEClient(actor.UserID)
	for _, ch := range realtime.DefaultChannels {
		h.hub.AddChannel(client, ch)
	}
	h.log.Debug("event stream open", "user_id", actor.UserID, "client_id", client.ID)

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.hub.CloseClient(client)
	h.log.Debug("event stream closed", "user_id", actor.UserID, "client_id", client.ID)
}
