package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mindnest/wellness/internal/domain/entity"
	"github.com/mindnest/wellness/internal/infrastructure/config"
	"github.com/mindnest/wellness/internal/infrastructure/middleware"
	"github.com/mindnest/wellness/internal/usecase/capture"
	"github.com/mindnest/wellness/internal/usecase/mood"
	apperrors "github.com/mindnest/wellness/pkg/errors"
	"github.com/mindnest/wellness/pkg/response"
)

const (
	writeWait     = 10 * time.Second
	submitTimeout = 30 * time.Second
)

// Capture socket operations sent by the client
const (
	opSelectMood = "select_mood"
	opSetEnergy  = "set_energy"
	opSetStress  = "set_stress"
	opSetAnxiety = "set_anxiety"
	opToggleTag  = "toggle_tag"
	opSetNotes   = "set_notes"
	opSubmit     = "submit"
	opSnapshot   = "snapshot"
)

// captureMessage is one client operation on the capture socket
type captureMessage struct {
	Op    string `json:"op"`
	Score int    `json:"score,omitempty"`
	Level int    `json:"level,omitempty"`
	Tag   string `json:"tag,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// captureReply is what the server sends back on the capture socket
type captureReply struct {
	Type  string                    `json:"type"`
	State *capture.State            `json:"state,omitempty"`
	Error string                    `json:"error,omitempty"`
	Entry *entity.MoodEntryResponse `json:"entry,omitempty"`
}

// MoodHandler handles mood logging over HTTP and WebSocket
type MoodHandler struct {
	moodUseCase  mood.UseCase
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	readLimit    int64
}

// NewMoodHandler creates a new mood handler
func NewMoodHandler(moodUseCase mood.UseCase, cfg *config.CaptureConfig) *MoodHandler {
	return &MoodHandler{
		moodUseCase: moodUseCase,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		pingInterval: cfg.GetPingInterval(),
		readLimit:    cfg.WSReadLimit,
	}
}

// Options godoc
// @Summary List the moods, context tags and level bounds of the capture form
// @Tags moods
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response{data=mood.OptionsOutput}
// @Router /api/v1/moods/options [get]
func (h *MoodHandler) Options(c *gin.Context) {
	response.Success(c, h.moodUseCase.Options())
}

// Log godoc
// @Summary Log a mood entry in one request
// @Tags moods
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body mood.LogInput true "Mood entry"
// @Success 201 {object} response.Response{data=entity.MoodEntryResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /api/v1/moods [post]
func (h *MoodHandler) Log(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input mood.LogInput
	if !bindJSON(c, &input) {
		return
	}

	entry, err := h.moodUseCase.Log(c.Request.Context(), userID.String(), &input)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, entry)
}

// List godoc
// @Summary List the current user's mood entries, newest first
// @Tags moods
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} response.PaginatedResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /api/v1/moods [get]
func (h *MoodHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	entries, total, err := h.moodUseCase.List(c.Request.Context(), userID.String(), page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithPagination(c, entries, page, pageSize, total)
}

// captureSession serializes writes to one capture socket
type captureSession struct {
	conn *websocket.Conn
	out  chan *captureReply
	done chan struct{}
}

// send queues a reply unless the connection is gone
func (s *captureSession) send(reply *captureReply) {
	select {
	case s.out <- reply:
	case <-s.done:
	}
}

func (s *captureSession) sendState(flow *capture.Flow) {
	state := flow.Snapshot()
	s.send(&captureReply{Type: "state", State: &state})
}

func (s *captureSession) sendError(err error) {
	s.send(&captureReply{Type: "error", Error: flowMessage(err)})
}

// writeLoop owns every write to the connection. Closing the connection on
// exit unblocks the read loop.
func (s *captureSession) writeLoop(pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer s.conn.Close()

	for {
		select {
		case reply := <-s.out:
			data, err := json.Marshal(reply)
			if err != nil {
				log.Error().Err(err).Msg("Failed to marshal capture reply")
				continue
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug().Err(err).Msg("Failed to write capture reply")
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// CaptureWebSocket godoc
// @Summary Drive one capture flow over a WebSocket
// @Description Each connection owns a single flow. Closing the socket dismisses
// @Description the flow; a submit already in flight still completes.
// @Tags moods
// @Security BearerAuth
// @Param token query string false "Access token for clients that cannot set headers"
// @Router /api/v1/moods/capture/ws [get]
func (h *MoodHandler) CaptureWebSocket(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		middleware.RequestLog(c).Error().Err(err).Msg("Failed to upgrade to WebSocket")
		return
	}
	if h.readLimit > 0 {
		conn.SetReadLimit(h.readLimit)
	}

	session := &captureSession{
		conn: conn,
		out:  make(chan *captureReply, 16),
		done: make(chan struct{}),
	}

	flow := h.moodUseCase.NewFlow(userID.String(), capture.WithOnComplete(func(entry entity.MoodEntry) {
		session.send(&captureReply{Type: "submitted", Entry: mood.SubmittedResponse(entry)})
	}))

	var submits sync.WaitGroup
	defer func() {
		flow.Dismiss()
		close(session.done)
		conn.Close()
		submits.Wait()
	}()

	go session.writeLoop(h.pingInterval)
	session.sendState(flow)

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("user_id", userID.String()).Msg("Capture socket read error")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg captureMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			session.send(&captureReply{Type: "error", Error: "invalid message"})
			continue
		}

		if msg.Op == opSubmit {
			h.submit(flow, session, &submits)
			continue
		}

		if err := applyCaptureOp(flow, &msg); err != nil {
			session.sendError(err)
		}
		session.sendState(flow)
	}
}

// submit runs the flow's submit off the read loop so the client can still
// dismiss while the store call is in flight
func (h *MoodHandler) submit(flow *capture.Flow, session *captureSession, submits *sync.WaitGroup) {
	state := flow.Snapshot()
	if state.Status == capture.StatusIdle && state.Mood != nil {
		state.Status = capture.StatusSubmitting
		state.Loading = true
		session.send(&captureReply{Type: "state", State: &state})
	}

	submits.Add(1)
	go func() {
		defer submits.Done()

		// The write must not be tied to the socket's lifetime
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()

		if err := flow.Submit(ctx); err != nil {
			session.sendError(err)
		}
		session.sendState(flow)
	}()
}

// flowMessage is the user-facing text of a flow error
func flowMessage(err error) string {
	if appErr := apperrors.GetAppError(mood.FlowError(err)); appErr != nil {
		return appErr.Message
	}
	return err.Error()
}

func applyCaptureOp(flow *capture.Flow, msg *captureMessage) error {
	var err error
	switch msg.Op {
	case opSelectMood:
		err = flow.SelectMood(msg.Score)
	case opSetEnergy:
		_, err = flow.SetEnergy(msg.Level)
	case opSetStress:
		_, err = flow.SetStress(msg.Level)
	case opSetAnxiety:
		_, err = flow.SetAnxiety(msg.Level)
	case opToggleTag:
		_, err = flow.ToggleTag(msg.Tag)
	case opSetNotes:
		err = flow.SetNotes(msg.Notes)
	case opSnapshot:
	default:
		err = apperrors.ValidationError("unknown operation: " + msg.Op)
	}
	return err
}
