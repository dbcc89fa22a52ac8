package repository

import (
	"context"
	"errors"
	"time"

	"health_chat_service/internal/chat/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository definition chat message persistence
type MessageRepository interface {
	// Insert persist one message; the id is already assigned
	Insert(ctx context.Context, msg *domain.Message) error
	// ListByConversation return every message of the conversation in (created_at, id) order
	ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error)
	// FindByID return one message or domain.ErrNotFound
	FindByID(ctx context.Context, messageID string) (*domain.Message, error)
	// Remove hard-delete one message; domain.ErrNotFound when already gone
	Remove(ctx context.Context, messageID string) error
	// CountAfter count conversation messages created strictly after the given time
	CountAfter(ctx context.Context, conversationID string, after time.Time) (int64, error)
}

type chatMessageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository create a MessageRepository backed by mongo
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &chatMessageRepository{
		coll: db.Collection("chat_messages"),
	}
}

func (r *chatMessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	_, err := r.coll.InsertOne(ctx, msg)
	return err
}

func (r *chatMessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	filter := bson.M{"conversation_id": conversationID}
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	messages := []domain.Message{}
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *chatMessageRepository) FindByID(ctx context.Context, messageID string) (*domain.Message, error) {
	var msg domain.Message
	err := r.coll.FindOne(ctx, bson.M{"_id": messageID}).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *chatMessageRepository) Remove(ctx context.Context, messageID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": messageID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *chatMessageRepository) CountAfter(ctx context.Context, conversationID string, after time.Time) (int64, error) {
	filter := bson.M{
		"conversation_id": conversationID,
		"created_at":      bson.M{"$gt": after},
	}
	return r.coll.CountDocuments(ctx, filter)
}
