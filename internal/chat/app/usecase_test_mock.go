package app

import (
	"context"
	"io"
	"time"

	"health_chat_service/internal/chat/domain"

	"github.com/stretchr/testify/mock"
)

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Insert mock insert message
func (m *MockMessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// ListByConversation mock list conversation history
func (m *MockMessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByID mock find message by id
func (m *MockMessageRepository) FindByID(ctx context.Context, messageID string) (*domain.Message, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// Remove mock remove message
func (m *MockMessageRepository) Remove(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

// CountAfter mock count messages after a time
func (m *MockMessageRepository) CountAfter(ctx context.Context, conversationID string, after time.Time) (int64, error) {
	args := m.Called(ctx, conversationID, after)
	return args.Get(0).(int64), args.Error(1)
}

// MockParticipantRepository Mock ParticipantRepository
type MockParticipantRepository struct {
	mock.Mock
}

// ConversationExists mock conversation existence check
func (m *MockParticipantRepository) ConversationExists(ctx context.Context, conversationID string) (bool, error) {
	args := m.Called(ctx, conversationID)
	return args.Bool(0), args.Error(1)
}

// IsParticipant mock membership check
func (m *MockParticipantRepository) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Bool(0), args.Error(1)
}

// Count mock roster size
func (m *MockParticipantRepository) Count(ctx context.Context, conversationID string) (int, error) {
	args := m.Called(ctx, conversationID)
	return args.Int(0), args.Error(1)
}

// List mock roster listing
func (m *MockParticipantRepository) List(ctx context.Context, conversationID string) ([]domain.Participant, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Participant), args.Error(1)
	}
	return nil, args.Error(1)
}

// Profile mock profile snapshot
func (m *MockParticipantRepository) Profile(ctx context.Context, userID string) (*domain.Participant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Participant), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockReadRepository Mock ReadRepository
type MockReadRepository struct {
	mock.Mock
}

// Upsert mock store read marker
func (m *MockReadRepository) Upsert(ctx context.Context, userID, conversationID string, seenAt time.Time) error {
	args := m.Called(ctx, userID, conversationID, seenAt)
	return args.Error(0)
}

// Get mock read marker lookup
func (m *MockReadRepository) Get(ctx context.Context, userID, conversationID string) (domain.ReadMarker, error) {
	args := m.Called(ctx, userID, conversationID)
	return args.Get(0).(domain.ReadMarker), args.Error(1)
}

// MockPubSub Mock PubSub
type MockPubSub struct {
	mock.Mock
}

// Publish mock publish event
func (m *MockPubSub) Publish(channel string, event domain.ChatEvent) error {
	args := m.Called(channel, event)
	return args.Error(0)
}

// Subscribe mock subscribe; tests drive handlers directly
func (m *MockPubSub) Subscribe(ctx context.Context, channel string, handler func(event domain.ChatEvent)) error {
	args := m.Called(ctx, channel, handler)
	return args.Error(0)
}

// MockMediaRepository Mock MediaRepository
type MockMediaRepository struct {
	mock.Mock
}

// Put mock object upload
func (m *MockMediaRepository) Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, objectName, reader, size, contentType)
	return args.String(0), args.Error(1)
}

// MockActivityPublisher Mock ActivityPublisher
type MockActivityPublisher struct {
	mock.Mock
}

// Publish mock activity record
func (m *MockActivityPublisher) Publish(ctx context.Context, update domain.ConversationUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}
