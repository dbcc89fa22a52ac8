package repository

import (
	"context"
	"encoding/json"
	"time"

	"health_chat_service/internal/chat/domain"

	"github.com/segmentio/kafka-go"
)

// ActivityPublisher definition downstream activity feed for the dashboard pipeline
type ActivityPublisher interface {
	Publish(ctx context.Context, update domain.ConversationUpdate) error
}

type kafkaActivityRepository struct {
	writer *kafka.Writer
}

// NewKafkaActivityRepository create an ActivityPublisher on kafka
func NewKafkaActivityRepository(writer *kafka.Writer) ActivityPublisher {
	return &kafkaActivityRepository{writer: writer}
}

type activityRecord struct {
	Kind           string    `json:"kind"`
	ConversationID string    `json:"conversation_id"`
	AuthorID       string    `json:"author_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func (r *kafkaActivityRepository) Publish(ctx context.Context, update domain.ConversationUpdate) error {
	value, err := json.Marshal(activityRecord{
		Kind:           string(update.Kind),
		ConversationID: update.ConversationID,
		AuthorID:       update.AuthorID,
		OccurredAt:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return r.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(update.ConversationID),
		Value: value,
	})
}
