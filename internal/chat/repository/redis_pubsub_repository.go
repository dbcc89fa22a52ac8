package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"health_chat_service/internal/chat/domain"
	"health_chat_service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// PubSub definition the per-conversation delivery channel.
// Delivery is at-least-once while subscribed; events published before
// Subscribe returns are not replayed. Arrival order is not guaranteed.
type PubSub interface {
	Publish(channel string, event domain.ChatEvent) error
	// Subscribe deliver every decodable event on channel to handler until ctx
	// is cancelled. Cancelling ctx is the unsubscribe; it is safe to cancel twice.
	Subscribe(ctx context.Context, channel string, handler func(event domain.ChatEvent)) error
}

// ConversationChannel redis channel name for a conversation
func ConversationChannel(conversationID string) string {
	return "chat:conv:" + conversationID
}

// RedisPubSub definition redis pub/sub
type RedisPubSub struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisPubSub create RedisPubSub
func NewRedisPubSub(client *redis.Client) *RedisPubSub {
	return &RedisPubSub{
		client: client,
		ctx:    context.Background(),
	}
}

// Publish marshal the event and publish it on the channel
func (r *RedisPubSub) Publish(channel string, event domain.ChatEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.client.Publish(r.ctx, channel, data).Err()
}

// Subscribe consume the channel until ctx is cancelled.
// Payloads that fail to decode or validate are dropped, never defaulted.
func (r *RedisPubSub) Subscribe(ctx context.Context, channel string, handler func(event domain.ChatEvent)) error {
	sub := r.client.Subscribe(r.ctx, channel)
	go func() {
		defer sub.Close()
		ch := sub.Channel()

		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}

				var event domain.ChatEvent
				if err := json.Unmarshal([]byte(m.Payload), &event); err != nil {
					logger.Log.Error("chat event decode err :", zap.String("err", fmt.Sprintf("failed to unmarshal event payload: %v", err)))
					continue
				}
				if err := event.Validate(); err != nil {
					logger.Log.Error("chat event rejected :", zap.String("channel", channel), zap.Error(err))
					continue
				}
				handler(event)
			case <-ctx.Done():
				logger.Log.Info(fmt.Sprintf("%s , sub close", channel))
				return
			}
		}
	}()
	return nil
}
