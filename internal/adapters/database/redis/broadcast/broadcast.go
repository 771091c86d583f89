package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Broadcaster publishes realtime envelopes onto redis pub/sub channels.
// Subscribing gateways fan the envelopes out to connected clients.
type Broadcaster struct {
	redis *redis.Client
}

func NewBroadcaster(client *redis.Client) *Broadcaster {
	return &Broadcaster{
		redis: client,
	}
}

// Envelope is the wire format for one realtime event.
type Envelope struct {
	ID      string      `json:"id"`
	Channel string      `json:"channel"`
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	SentAt  time.Time   `json:"sentAt"`
}

func (b *Broadcaster) publish(ctx context.Context, key, channel, eventType string, payload interface{}) error {
	envelope := Envelope{
		ID:      uuid.New().String(),
		Channel: channel,
		Type:    eventType,
		Payload: payload,
		SentAt:  time.Now(),
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return b.redis.Publish(ctx, key, data).Err()
}

func (b *Broadcaster) BroadcastToUser(ctx context.Context, email, channel, eventType string, payload interface{}) error {
	return b.publish(ctx, fmt.Sprintf("broadcast:user:%s", email), channel, eventType, payload)
}

func (b *Broadcaster) BroadcastToClub(ctx context.Context, clubID, channel, eventType string, payload interface{}) error {
	return b.publish(ctx, fmt.Sprintf("broadcast:club:%s", clubID), channel, eventType, payload)
}

func (b *Broadcaster) BroadcastToSystemRole(ctx context.Context, role, channel, eventType string, payload interface{}) error {
	return b.publish(ctx, fmt.Sprintf("broadcast:role:%s", role), channel, eventType, payload)
}

func (b *Broadcaster) BroadcastSystemWide(ctx context.Context, channel, eventType string, payload interface{}) error {
	return b.publish(ctx, "broadcast:system", channel, eventType, payload)
}
