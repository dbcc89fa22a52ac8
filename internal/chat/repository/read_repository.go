package repository

import (
	"context"
	"strconv"
	"time"

	"health_chat_service/internal/chat/domain"

	"github.com/go-redis/redis/v8"
)

// ReadRepository definition read marker storage
type ReadRepository interface {
	// Upsert record that the user saw the conversation at seenAt.
	// The stored timestamp never moves backwards.
	Upsert(ctx context.Context, userID, conversationID string, seenAt time.Time) error
	// Get read marker for the pair; zero LastSeenAt when never seen
	Get(ctx context.Context, userID, conversationID string) (domain.ReadMarker, error)
}

// upsert keeps the larger of the stored and incoming millisecond timestamps,
// so a stale out-of-order update can never decrease last_seen_at
var readMarkerScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], ARGV[1])
if (not cur) or (tonumber(ARGV[2]) > tonumber(cur)) then
  redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
  return 1
end
return 0
`)

type readRepository struct {
	client *redis.Client
}

// NewRedisReadRepository create a ReadRepository on redis
func NewRedisReadRepository(client *redis.Client) ReadRepository {
	return &readRepository{client: client}
}

func readKey(userID string) string {
	return "chat:read:" + userID
}

func (r *readRepository) Upsert(ctx context.Context, userID, conversationID string, seenAt time.Time) error {
	return readMarkerScript.Run(ctx, r.client,
		[]string{readKey(userID)},
		conversationID, seenAt.UnixMilli(),
	).Err()
}

func (r *readRepository) Get(ctx context.Context, userID, conversationID string) (domain.ReadMarker, error) {
	marker := domain.ReadMarker{UserID: userID, ConversationID: conversationID}

	val, err := r.client.HGet(ctx, readKey(userID), conversationID).Result()
	if err == redis.Nil {
		return marker, nil
	}
	if err != nil {
		return marker, err
	}
	millis, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return marker, err
	}
	marker.LastSeenAt = time.UnixMilli(millis)
	return marker, nil
}
