package app

import (
	"context"
	"testing"
	"time"

	"health_chat_service/internal/chat/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type sessionFixture struct {
	msgRepo         *MockMessageRepository
	participantRepo *MockParticipantRepository
	readRepo        *MockReadRepository
	pubsub          *MockPubSub
	session         *ChatSession

	// push delivers an event the way the redis subscription would
	push func(domain.ChatEvent)
}

func newSessionFixture(t *testing.T, conversationID, userID string, history []domain.Message) *sessionFixture {
	t.Helper()

	f := &sessionFixture{
		msgRepo:         new(MockMessageRepository),
		participantRepo: new(MockParticipantRepository),
		readRepo:        new(MockReadRepository),
		pubsub:          new(MockPubSub),
	}

	f.participantRepo.On("Count", mock.Anything, conversationID).Return(2, nil)
	f.participantRepo.On("ConversationExists", mock.Anything, conversationID).Return(true, nil)
	f.participantRepo.On("IsParticipant", mock.Anything, conversationID, userID).Return(true, nil)
	f.msgRepo.On("ListByConversation", mock.Anything, conversationID).Return(history, nil)
	f.readRepo.On("Upsert", mock.Anything, userID, conversationID, mock.Anything).Return(nil)

	f.pubsub.On("Subscribe", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			f.push = args.Get(2).(func(domain.ChatEvent))
		}).
		Return(nil)

	uc := newTestUseCase(f.msgRepo, f.participantRepo, f.readRepo, f.pubsub)
	f.session = NewChatSession(uc, NewAttachmentUseCase(new(MockMediaRepository)), f.pubsub, conversationID, userID)
	return f
}

func historyMessage(conversationID string, body string, at time.Time) domain.Message {
	return domain.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		AuthorID:       uuid.New().String(),
		Body:           body,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
}

func TestChatSession_Open(t *testing.T) {
	conversationID := uuid.New().String()
	userID := uuid.New().String()
	base := time.Now().UTC()

	// history arrives newest-first; the session must re-establish order
	newer := historyMessage(conversationID, "second", base.Add(time.Minute))
	older := historyMessage(conversationID, "first", base)
	f := newSessionFixture(t, conversationID, userID, []domain.Message{newer, older})

	err := f.session.Open(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, SessionReady, f.session.State())
	assert.Equal(t, 2, f.session.ParticipantCount())

	msgs := f.session.Messages()
	assert.Equal(t, "first", msgs[0].Body)
	assert.Equal(t, "second", msgs[1].Body)

	// entering the conversation marks it read
	f.readRepo.AssertCalled(t, "Upsert", mock.Anything, userID, conversationID, mock.Anything)
}

func TestChatSession_Open_Twice(t *testing.T) {
	conversationID := uuid.New().String()
	userID := uuid.New().String()
	f := newSessionFixture(t, conversationID, userID, nil)

	assert.NoError(t, f.session.Open(context.Background()))
	assert.ErrorIs(t, f.session.Open(context.Background()), domain.ErrSessionNotReady)
}

func TestChatSession_EchoDeduplicated(t *testing.T) {
	conversationID := uuid.New().String()
	userID := uuid.New().String()
	f := newSessionFixture(t, conversationID, userID, nil)

	f.participantRepo.On("Profile", mock.Anything, userID).Return(&domain.Participant{UserID: userID, Name: "Sam"}, nil)
	f.msgRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	f.pubsub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	assert.NoError(t, f.session.Open(context.Background()))

	msg, err := f.session.Send(context.Background(), "hello", nil, false)
	assert.NoError(t, err)
	assert.Len(t, f.session.Messages(), 1)

	// the channel echo of our own append must not duplicate the entry
	f.push(domain.ChatEvent{
		Kind:           domain.EventMessageCreated,
		ConversationID: conversationID,
		MessageID:      msg.ID,
		Message:        msg,
	})
	assert.Len(t, f.session.Messages(), 1)
}

func TestChatSession_PushedEventsKeepOrder(t *testing.T) {
	conversationID := uuid.New().String()
	userID := uuid.New().String()
	base := time.Now().UTC()

	old := historyMessage(conversationID, "from history", base)
	f := newSessionFixture(t, conversationID, userID, []domain.Message{old})

	var notified int
	f.session.SetOnChange(func(Snapshot) { notified++ })
	assert.NoError(t, f.session.Open(context.Background()))

	// a pushed message older than the newest local one still sorts into place
	slipped := historyMessage(conversationID, "slipped in late", base.Add(-time.Minute))
	f.push(domain.ChatEvent{
		Kind:           domain.EventMessageCreated,
		ConversationID: conversationID,
		MessageID:      slipped.ID,
		Message:        &slipped,
	})

	msgs := f.session.Messages()
	assert.Equal(t, "slipped in late", msgs[0].Body)
	assert.Equal(t, "from history", msgs[1].Body)
	assert.GreaterOrEqual(t, notified, 2)
}

func TestChatSession_DeleteOwn(t *testing.T) {
	conversationID := uuid.New().String()
	userID := uuid.New().String()

	mine := domain.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		AuthorID:       userID,
		Body:           "oops",
		CreatedAt:      time.Now().UTC(),
	}
	f := newSessionFixture(t, conversationID, userID, []domain.Message{mine})

	f.msgRepo.On("FindByID", mock.Anything, mine.ID).Return(&mine, nil)
	f.msgRepo.On("Remove", mock.Anything, mine.ID).Return(nil)
	f.pubsub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	assert.NoError(t, f.session.Open(context.Background()))
	assert.NoError(t, f.session.DeleteOwn(context.Background(), mine.ID))
	assert.Empty(t, f.session.Messages())

	// the deletion echo is a no-op on the already-removed id
	f.push(domain.ChatEvent{
		Kind:           domain.EventMessageDeleted,
		ConversationID: conversationID,
		MessageID:      mine.ID,
	})
	assert.Empty(t, f.session.Messages())
}

func TestChatSession_RedeliveredCreateAfterDelete(t *testing.T) {
	conversationID := uuid.New().String()
	userID := uuid.New().String()

	mine := domain.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		AuthorID:       userID,
		Body:           "to be deleted",
		CreatedAt:      time.Now().UTC(),
	}
	f := newSessionFixture(t, conversationID, userID, []domain.Message{mine})

	f.msgRepo.On("FindByID", mock.Anything, mine.ID).Return(&mine, nil)
	f.msgRepo.On("Remove", mock.Anything, mine.ID).Return(nil)
	f.pubsub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	assert.NoError(t, f.session.Open(context.Background()))
	assert.NoError(t, f.session.DeleteOwn(context.Background(), mine.ID))
	f.push(domain.ChatEvent{
		Kind:           domain.EventMessageDeleted,
		ConversationID: conversationID,
		MessageID:      mine.ID,
	})

	// the channel is at-least-once; a late redelivery of the original create
	// event must not resurrect the deleted message
	f.push(domain.ChatEvent{
		Kind:           domain.EventMessageCreated,
		ConversationID: conversationID,
		MessageID:      mine.ID,
		Message:        &mine,
	})
	assert.Empty(t, f.session.Messages())
}

func TestChatSession_DeleteEventBeforeCreateEvent(t *testing.T) {
	conversationID := uuid.New().String()
	userID := uuid.New().String()
	f := newSessionFixture(t, conversationID, userID, nil)

	assert.NoError(t, f.session.Open(context.Background()))

	// the channel does not order events; a deletion can outrun its create
	msg := historyMessage(conversationID, "gone before it arrived", time.Now().UTC())
	f.push(domain.ChatEvent{
		Kind:           domain.EventMessageDeleted,
		ConversationID: conversationID,
		MessageID:      msg.ID,
	})
	f.push(domain.ChatEvent{
		Kind:           domain.EventMessageCreated,
		ConversationID: conversationID,
		MessageID:      msg.ID,
		Message:        &msg,
	})
	assert.Empty(t, f.session.Messages())
}

func TestChatSession_CloseIdempotent(t *testing.T) {
	conversationID := uuid.New().String()
	userID := uuid.New().String()
	f := newSessionFixture(t, conversationID, userID, nil)

	assert.NoError(t, f.session.Open(context.Background()))
	f.session.Close()
	f.session.Close()
	assert.Equal(t, SessionClosed, f.session.State())
}

func TestChatSession_EventsAfterCloseDiscarded(t *testing.T) {
	conversationID := uuid.New().String()
	userID := uuid.New().String()
	f := newSessionFixture(t, conversationID, userID, nil)

	assert.NoError(t, f.session.Open(context.Background()))
	f.session.Close()

	late := historyMessage(conversationID, "too late", time.Now().UTC())
	f.push(domain.ChatEvent{
		Kind:           domain.EventMessageCreated,
		ConversationID: conversationID,
		MessageID:      late.ID,
		Message:        &late,
	})
	assert.Empty(t, f.session.Messages())
}

func TestChatSession_SendBeforeOpen(t *testing.T) {
	uc := newTestUseCase(new(MockMessageRepository), new(MockParticipantRepository), new(MockReadRepository), new(MockPubSub))
	session := NewChatSession(uc, NewAttachmentUseCase(new(MockMediaRepository)), new(MockPubSub), "conv", "user")

	_, err := session.Send(context.Background(), "hi", nil, false)
	assert.ErrorIs(t, err, domain.ErrSessionNotReady)

	assert.ErrorIs(t, session.MarkRead(context.Background()), domain.ErrSessionNotReady)
	assert.ErrorIs(t, session.DeleteOwn(context.Background(), "m"), domain.ErrSessionNotReady)
}

func TestChatSession_Open_OutsiderFails(t *testing.T) {
	conversationID := uuid.New().String()
	userID := uuid.New().String()

	f := &sessionFixture{
		msgRepo:         new(MockMessageRepository),
		participantRepo: new(MockParticipantRepository),
		readRepo:        new(MockReadRepository),
		pubsub:          new(MockPubSub),
	}
	f.participantRepo.On("Count", mock.Anything, conversationID).Return(2, nil)
	f.participantRepo.On("ConversationExists", mock.Anything, conversationID).Return(true, nil)
	f.participantRepo.On("IsParticipant", mock.Anything, conversationID, userID).Return(false, nil)
	f.pubsub.On("Subscribe", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	uc := newTestUseCase(f.msgRepo, f.participantRepo, f.readRepo, f.pubsub)
	session := NewChatSession(uc, NewAttachmentUseCase(new(MockMediaRepository)), f.pubsub, conversationID, userID)

	err := session.Open(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, SessionClosed, session.State())
}

func TestChatSession_SendWithAttachment(t *testing.T) {
	conversationID := uuid.New().String()
	userID := uuid.New().String()
	f := newSessionFixture(t, conversationID, userID, nil)

	media := new(MockMediaRepository)
	media.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "image/png").
		Return("https://cdn.example.com/chat-media/p.png", nil)
	uc := newTestUseCase(f.msgRepo, f.participantRepo, f.readRepo, f.pubsub)
	session := NewChatSession(uc, NewAttachmentUseCase(media), f.pubsub, conversationID, userID)

	f.participantRepo.On("Profile", mock.Anything, userID).Return(&domain.Participant{UserID: userID}, nil)
	f.msgRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	f.pubsub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	assert.NoError(t, session.Open(context.Background()))
	msg, err := session.Send(context.Background(), "look at this", &domain.MediaFile{
		Name:        "p.png",
		Size:        10,
		ContentType: "image/png",
		Reader:      nil,
	}, false)

	assert.NoError(t, err)
	assert.Equal(t, domain.MediaImage, msg.Attachment.Kind)
	assert.Equal(t, "https://cdn.example.com/chat-media/p.png", msg.Attachment.URL)
}
