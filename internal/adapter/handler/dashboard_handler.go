package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mindnest/wellness/internal/infrastructure/config"
	"github.com/mindnest/wellness/internal/infrastructure/feed"
	"github.com/mindnest/wellness/internal/infrastructure/middleware"
	"github.com/mindnest/wellness/internal/usecase/dashboard"
	"github.com/mindnest/wellness/pkg/response"
)

// DashboardHandler serves the dashboard summary and its live feed
type DashboardHandler struct {
	dashboardUseCase dashboard.UseCase
	hub              *feed.Hub
	upgrader         websocket.Upgrader
	pingInterval     time.Duration
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardUseCase dashboard.UseCase, hub *feed.Hub, cfg *config.CaptureConfig) *DashboardHandler {
	return &DashboardHandler{
		dashboardUseCase: dashboardUseCase,
		hub:              hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		pingInterval: cfg.GetPingInterval(),
	}
}

// Summary godoc
// @Summary Get the dashboard summary for the current user
// @Tags dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response{data=dashboard.Summary}
// @Failure 401 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	summary, err := h.dashboardUseCase.Summary(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, summary)
}

// Feed godoc
// @Summary Stream the current user's newly logged entries over a WebSocket
// @Tags dashboard
// @Security BearerAuth
// @Param token query string false "Access token for clients that cannot set headers"
// @Router /api/v1/dashboard/ws [get]
func (h *DashboardHandler) Feed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		middleware.RequestLog(c).Error().Err(err).Msg("Failed to upgrade to WebSocket")
		return
	}
	defer conn.Close()

	sessionID := uuid.New().String()
	events := make(chan *feed.Event, 16)
	h.hub.Register(userID.String(), sessionID, events)
	defer h.hub.Unregister(userID.String(), sessionID)

	// The feed is one-way; reading only detects the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case evt := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(evt); err != nil {
				log.Debug().Err(err).Msg("Failed to write feed event")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
