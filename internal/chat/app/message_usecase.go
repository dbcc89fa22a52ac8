package app

import (
	"context"
	"errors"
	"time"

	"health_chat_service/internal/chat/domain"
	"health_chat_service/internal/chat/repository"
	"health_chat_service/pkg/database"
	"health_chat_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const participantCountTTL = 30 * time.Second

// MessageUseCase message store operations plus the read-marker write path
type MessageUseCase struct {
	msgRepo         repository.MessageRepository
	participantRepo repository.ParticipantRepository
	readRepo        repository.ReadRepository
	pubsub          repository.PubSub
	activity        repository.ActivityPublisher
	emitter         *UpdateEmitter
	countCache      database.RedisRepository[int]
}

// NewMessageUseCase init message use case. activity, emitter and countCache may be nil.
func NewMessageUseCase(
	msgRepo repository.MessageRepository,
	participantRepo repository.ParticipantRepository,
	readRepo repository.ReadRepository,
	pubsub repository.PubSub,
	activity repository.ActivityPublisher,
	emitter *UpdateEmitter,
	countCache database.RedisRepository[int],
) *MessageUseCase {
	return &MessageUseCase{
		msgRepo:         msgRepo,
		participantRepo: participantRepo,
		readRepo:        readRepo,
		pubsub:          pubsub,
		activity:        activity,
		emitter:         emitter,
		countCache:      countCache,
	}
}

// ListMessages return the conversation history in (created_at, id) order.
// A missing conversation and an access violation both surface as ErrNotFound
// so message existence never leaks across conversations.
func (uc *MessageUseCase) ListMessages(ctx context.Context, conversationID, userID string) ([]domain.Message, error) {
	exists, err := uc.participantRepo.ConversationExists(ctx, conversationID)
	if err != nil {
		return nil, domain.NewTransportError("list messages", err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	member, err := uc.participantRepo.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return nil, domain.NewTransportError("list messages", err)
	}
	if !member {
		return nil, domain.ErrNotFound
	}

	msgs, err := uc.msgRepo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, domain.NewTransportError("list messages", err)
	}
	return msgs, nil
}

// Append validate and persist a draft, then broadcast it on the delivery
// channel. Durability comes first; a failed broadcast is logged, the gap is
// closed by the next history load.
func (uc *MessageUseCase) Append(ctx context.Context, draft domain.MessageDraft) (*domain.Message, error) {
	if !draft.Valid() {
		return nil, domain.ErrValidation
	}

	member, err := uc.participantRepo.IsParticipant(ctx, draft.ConversationID, draft.AuthorID)
	if err != nil {
		return nil, domain.NewTransportError("append message", err)
	}
	if !member {
		return nil, domain.ErrAuthorization
	}

	profile, err := uc.participantRepo.Profile(ctx, draft.AuthorID)
	if err != nil {
		return nil, domain.NewTransportError("append message", err)
	}

	now := time.Now().UTC()
	msg := &domain.Message{
		ID:              uuid.New().String(),
		ConversationID:  draft.ConversationID,
		AuthorID:        draft.AuthorID,
		Body:            draft.Body,
		Attachment:      draft.Attachment,
		Flagged:         draft.Flagged,
		CreatedAt:       now,
		UpdatedAt:       now,
		AuthorName:      profile.Name,
		AuthorAvatarURL: profile.AvatarURL,
	}

	if err := uc.msgRepo.Insert(ctx, msg); err != nil {
		return nil, domain.NewTransportError("append message", err)
	}

	uc.broadcast(ctx, domain.ChatEvent{
		Kind:           domain.EventMessageCreated,
		ConversationID: msg.ConversationID,
		MessageID:      msg.ID,
		Message:        msg,
	}, msg.AuthorID)

	return msg, nil
}

// Remove hard-delete one message; restricted to its author
func (uc *MessageUseCase) Remove(ctx context.Context, messageID, requesterID string) error {
	msg, err := uc.msgRepo.FindByID(ctx, messageID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotFound
	}
	if err != nil {
		return domain.NewTransportError("remove message", err)
	}

	if msg.AuthorID != requesterID {
		return domain.ErrAuthorization
	}

	if err := uc.msgRepo.Remove(ctx, messageID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return domain.NewTransportError("remove message", err)
	}

	uc.broadcast(ctx, domain.ChatEvent{
		Kind:           domain.EventMessageDeleted,
		ConversationID: msg.ConversationID,
		MessageID:      msg.ID,
	}, requesterID)

	return nil
}

// MarkRead upsert the read marker for the pair; monotonic, repeat-safe
func (uc *MessageUseCase) MarkRead(ctx context.Context, userID, conversationID string) error {
	if err := uc.readRepo.Upsert(ctx, userID, conversationID, time.Now().UTC()); err != nil {
		return domain.NewTransportError("mark read", err)
	}
	return nil
}

// UnreadCount messages created after the user's read marker.
// ErrNotFound when the user is not a participant.
func (uc *MessageUseCase) UnreadCount(ctx context.Context, userID, conversationID string) (int64, error) {
	member, err := uc.participantRepo.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return 0, domain.NewTransportError("unread count", err)
	}
	if !member {
		return 0, domain.ErrNotFound
	}

	marker, err := uc.readRepo.Get(ctx, userID, conversationID)
	if err != nil {
		return 0, domain.NewTransportError("unread count", err)
	}
	count, err := uc.msgRepo.CountAfter(ctx, conversationID, marker.LastSeenAt)
	if err != nil {
		return 0, domain.NewTransportError("unread count", err)
	}
	return count, nil
}

// ParticipantCount roster size, cached briefly to spare the roster table
func (uc *MessageUseCase) ParticipantCount(ctx context.Context, conversationID string) (int, error) {
	cacheKey := "chat:participants:" + conversationID
	if uc.countCache != nil {
		if count, err := uc.countCache.Get(ctx, cacheKey); err == nil {
			// sliding expiry; active conversations keep their entry warm
			if err := uc.countCache.ExtendTTL(ctx, cacheKey, participantCountTTL); err != nil {
				logger.Log.Warn("participant count cache ttl refresh failed", zap.Error(err))
			}
			return count, nil
		}
	}

	count, err := uc.participantRepo.Count(ctx, conversationID)
	if err != nil {
		return 0, domain.NewTransportError("participant count", err)
	}

	if uc.countCache != nil {
		if err := uc.countCache.Set(ctx, cacheKey, count, participantCountTTL); err != nil {
			logger.Log.Warn("participant count cache set failed", zap.Error(err))
		}
	}
	return count, nil
}

// Participants roster entries for the player list. Only members may look,
// and outsiders get the same ErrNotFound a bad conversation id gets.
func (uc *MessageUseCase) Participants(ctx context.Context, conversationID, requesterID string) ([]domain.Participant, error) {
	member, err := uc.participantRepo.IsParticipant(ctx, conversationID, requesterID)
	if err != nil {
		return nil, domain.NewTransportError("participant check", err)
	}
	if !member {
		return nil, domain.ErrNotFound
	}

	participants, err := uc.participantRepo.List(ctx, conversationID)
	if err != nil {
		return nil, domain.NewTransportError("participants", err)
	}
	return participants, nil
}

func (uc *MessageUseCase) broadcast(ctx context.Context, event domain.ChatEvent, authorID string) {
	if err := uc.pubsub.Publish(repository.ConversationChannel(event.ConversationID), event); err != nil {
		logger.Log.Error("chat event publish failed",
			zap.String("conversation_id", event.ConversationID),
			zap.String("message_id", event.MessageID),
			zap.Error(err),
		)
	}

	update := domain.ConversationUpdate{
		ConversationID: event.ConversationID,
		Kind:           event.Kind,
		AuthorID:       authorID,
	}

	if uc.activity != nil {
		if err := uc.activity.Publish(ctx, update); err != nil {
			logger.Log.Warn("activity publish failed", zap.Error(err))
		}
	}
	if uc.emitter != nil {
		uc.emitter.Emit(update)
	}
}
