package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mindnest/wellness/internal/domain/entity"
	"github.com/mindnest/wellness/internal/infrastructure/logger"
)

const publishTimeout = 2 * time.Second

// envelope is what travels over the Redis channel
type envelope struct {
	Origin string `json:"origin"`
	UserID string `json:"user_id"`
	Event  *Event `json:"event"`
}

// RedisRelay shares feed events between service instances over Redis pub/sub.
// Each instance delivers its own events directly and relays the others'.
type RedisRelay struct {
	client  redis.UniversalClient
	hub     *Hub
	channel string
	origin  string
	logger  zerolog.Logger
}

// NewRedisRelay creates a relay publishing on channel
func NewRedisRelay(client redis.UniversalClient, hub *Hub, channel string) *RedisRelay {
	return &RedisRelay{
		client:  client,
		hub:     hub,
		channel: channel,
		origin:  uuid.New().String(),
		logger:  logger.NewLogger("feed-relay"),
	}
}

// PublishEntry delivers the entry locally, then to other instances.
// A Redis failure only costs remote delivery.
func (r *RedisRelay) PublishEntry(userID string, entry *entity.MoodEntryResponse) {
	evt := NewEntryEvent(entry)
	r.hub.Publish(userID, evt)

	payload, err := json.Marshal(envelope{Origin: r.origin, UserID: userID, Event: evt})
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to marshal feed event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		r.logger.Warn().Err(err).Str("channel", r.channel).Msg("Failed to relay feed event")
	}
}

// Run relays events published by other instances until ctx is done
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", r.channel, err)
	}
	r.logger.Info().Str("channel", r.channel).Msg("Relaying feed events")

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			r.deliver(msg.Payload)
		}
	}
}

func (r *RedisRelay) deliver(payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		r.logger.Warn().Err(err).Msg("Ignoring malformed feed event")
		return
	}
	if env.Origin == r.origin {
		return
	}
	if env.UserID == "" || env.Event == nil {
		r.logger.Warn().Msg("Ignoring incomplete feed event")
		return
	}
	r.hub.Publish(env.UserID, env.Event)
}
