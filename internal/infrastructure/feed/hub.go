// Package feed fans newly logged mood entries out to a user's open dashboards.
package feed

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindnest/wellness/internal/domain/entity"
	"github.com/mindnest/wellness/internal/infrastructure/logger"
)

// EventTypeEntry is sent for each newly logged entry
const EventTypeEntry = "entry"

// Event is one message on a user's feed
type Event struct {
	Type  string                    `json:"type"`
	Entry *entity.MoodEntryResponse `json:"entry"`
	At    time.Time                 `json:"at"`
}

// Hub routes events to the channels registered for a user
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]chan *Event // userID -> sessionID -> channel
	logger      zerolog.Logger
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[string]chan *Event),
		logger:      logger.NewLogger("feed"),
	}
}

// Register registers a channel to receive the user's events
func (h *Hub) Register(userID, sessionID string, ch chan *Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessions, ok := h.subscribers[userID]
	if !ok {
		sessions = make(map[string]chan *Event)
		h.subscribers[userID] = sessions
	}
	sessions[sessionID] = ch
}

// Unregister unregisters a session's channel
func (h *Hub) Unregister(userID, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessions, ok := h.subscribers[userID]
	if !ok {
		return
	}
	delete(sessions, sessionID)
	if len(sessions) == 0 {
		delete(h.subscribers, userID)
	}
}

// Subscribers returns how many sessions listen to the user's feed
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}

// Publish sends evt to every session of the user without blocking.
// Sessions whose buffer is full miss the event.
func (h *Hub) Publish(userID string, evt *Event) {
	if evt == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sessionID, ch := range h.subscribers[userID] {
		select {
		case ch <- evt:
		default:
			h.logger.Warn().Str("user_id", userID).Str("session_id", sessionID).Msg("Feed channel full, dropping event")
		}
	}
}

// NewEntryEvent wraps a newly logged entry
func NewEntryEvent(entry *entity.MoodEntryResponse) *Event {
	return &Event{Type: EventTypeEntry, Entry: entry, At: time.Now().UTC()}
}

// PublishEntry publishes a newly logged entry
func (h *Hub) PublishEntry(userID string, entry *entity.MoodEntryResponse) {
	h.Publish(userID, NewEntryEvent(entry))
}
