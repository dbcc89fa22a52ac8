package app

import (
	"context"
	"sync"

	"health_chat_service/internal/chat/domain"
	"health_chat_service/internal/chat/repository"
	"health_chat_service/pkg/logger"

	"go.uber.org/zap"
)

// SessionState chat session lifecycle state
type SessionState int32

const (
	// SessionClosed session not open; no operations accepted
	SessionClosed SessionState = iota
	// SessionLoading history fetch in flight; sends not yet accepted
	SessionLoading
	// SessionReady history merged and subscription active
	SessionReady
)

// Snapshot rendered view state handed to the change listener
type Snapshot struct {
	Messages         []domain.Message
	ParticipantCount int
}

// ChatSession composition root for one user on one conversation.
//
// Lifecycle is Closed -> Loading -> Ready -> Closed. The session becomes
// Ready only after the history snapshot is merged and the channel
// subscription is active. Pushed events and call results are merged through
// one id-keyed path, so a message arriving through both the append return
// value and the channel echo renders exactly once, and the list stays in
// (created_at, id) order no matter the arrival order.
type ChatSession struct {
	conversationID string
	userID         string

	messageUC    *MessageUseCase
	attachmentUC *AttachmentUseCase
	pubsub       repository.PubSub

	mu               sync.Mutex
	state            SessionState
	messages         []domain.Message
	seen             map[string]struct{}
	removed          map[string]struct{}
	participantCount int
	cancelSub        context.CancelFunc
	onChange         func(Snapshot)
}

// NewChatSession create a session in the Closed state
func NewChatSession(
	messageUC *MessageUseCase,
	attachmentUC *AttachmentUseCase,
	pubsub repository.PubSub,
	conversationID, userID string,
) *ChatSession {
	return &ChatSession{
		conversationID: conversationID,
		userID:         userID,
		messageUC:      messageUC,
		attachmentUC:   attachmentUC,
		pubsub:         pubsub,
		seen:           map[string]struct{}{},
		removed:        map[string]struct{}{},
	}
}

// SetOnChange register the listener invoked whenever the rendered message
// list or participant count changes. Must be set before Open.
func (s *ChatSession) SetOnChange(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Open load history, activate the channel subscription and transition to
// Ready. The subscription starts before the history fetch; events that slip
// in during loading are reconciled by the id-keyed merge rather than dropped.
// On entering Ready the conversation is marked read.
func (s *ChatSession) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.state != SessionClosed {
		s.mu.Unlock()
		return domain.ErrSessionNotReady
	}
	s.state = SessionLoading
	subCtx, cancel := context.WithCancel(context.Background())
	s.cancelSub = cancel
	s.mu.Unlock()

	count, err := s.messageUC.ParticipantCount(ctx, s.conversationID)
	if err != nil {
		s.abortOpen(cancel)
		return err
	}

	if err := s.pubsub.Subscribe(subCtx, repository.ConversationChannel(s.conversationID), s.handleEvent); err != nil {
		s.abortOpen(cancel)
		return domain.NewTransportError("subscribe", err)
	}

	history, err := s.messageUC.ListMessages(ctx, s.conversationID, s.userID)
	if err != nil {
		s.abortOpen(cancel)
		return err
	}

	s.mu.Lock()
	if s.state != SessionLoading {
		// closed while loading; discard the late result
		s.mu.Unlock()
		cancel()
		return domain.ErrSessionNotReady
	}
	for i := range history {
		s.mergeLocked(history[i])
	}
	s.participantCount = count
	s.state = SessionReady
	s.mu.Unlock()

	if err := s.messageUC.MarkRead(ctx, s.userID, s.conversationID); err != nil {
		logger.Log.Warn("mark read on open failed",
			zap.String("conversation_id", s.conversationID),
			zap.Error(err),
		)
	}

	s.notify()
	return nil
}

// Send stage the attachment if present, then append the draft. A staging
// failure aborts the send before anything is persisted. The append return
// value is the authoritative copy; the later channel echo deduplicates by id.
func (s *ChatSession) Send(ctx context.Context, body string, file *domain.MediaFile, flagged bool) (*domain.Message, error) {
	if s.State() != SessionReady {
		return nil, domain.ErrSessionNotReady
	}

	var attachment *domain.Attachment
	if file != nil {
		staged, err := s.attachmentUC.Stage(ctx, *file, s.conversationID, s.userID)
		if err != nil {
			return nil, err
		}
		attachment = staged
	}

	return s.append(ctx, domain.MessageDraft{
		ConversationID: s.conversationID,
		AuthorID:       s.userID,
		Body:           body,
		Attachment:     attachment,
		Flagged:        flagged,
	})
}

// SendStaged append a draft whose attachment was already staged, e.g.
// through the media upload endpoint
func (s *ChatSession) SendStaged(ctx context.Context, body string, attachment *domain.Attachment, flagged bool) (*domain.Message, error) {
	if s.State() != SessionReady {
		return nil, domain.ErrSessionNotReady
	}
	return s.append(ctx, domain.MessageDraft{
		ConversationID: s.conversationID,
		AuthorID:       s.userID,
		Body:           body,
		Attachment:     attachment,
		Flagged:        flagged,
	})
}

func (s *ChatSession) append(ctx context.Context, draft domain.MessageDraft) (*domain.Message, error) {
	msg, err := s.messageUC.Append(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	// a send completing after Close must not write into the torn-down view
	changed := s.state == SessionReady && s.mergeLocked(*msg)
	s.mu.Unlock()
	if changed {
		s.notify()
	}
	return msg, nil
}

// DeleteOwn remove one of the user's own messages. The local view drops it
// immediately; the later channel echo is a no-op on the already-removed id.
func (s *ChatSession) DeleteOwn(ctx context.Context, messageID string) error {
	if s.State() != SessionReady {
		return domain.ErrSessionNotReady
	}

	if err := s.messageUC.Remove(ctx, messageID, s.userID); err != nil {
		return err
	}

	s.mu.Lock()
	changed := s.state == SessionReady && s.dropLocked(messageID)
	s.mu.Unlock()
	if changed {
		s.notify()
	}
	return nil
}

// MarkRead record that the user observed the conversation now
func (s *ChatSession) MarkRead(ctx context.Context) error {
	if s.State() != SessionReady {
		return domain.ErrSessionNotReady
	}
	return s.messageUC.MarkRead(ctx, s.userID, s.conversationID)
}

// Close tear down the subscription and discard in-flight results.
// Safe to call twice; the second call does nothing.
func (s *ChatSession) Close() {
	s.mu.Lock()
	if s.state == SessionClosed {
		s.mu.Unlock()
		return
	}
	s.state = SessionClosed
	cancel := s.cancelSub
	s.cancelSub = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// State current lifecycle state
func (s *ChatSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages copy of the rendered message list in conversation order
func (s *ChatSession) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// ParticipantCount roster size captured at open
func (s *ChatSession) ParticipantCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.participantCount
}

// ConversationID conversation this session renders
func (s *ChatSession) ConversationID() string {
	return s.conversationID
}

// handleEvent merge one pushed channel event into local state.
// Events for a closed session are discarded; duplicates are no-ops.
func (s *ChatSession) handleEvent(event domain.ChatEvent) {
	s.mu.Lock()
	if s.state == SessionClosed {
		s.mu.Unlock()
		return
	}

	var changed bool
	switch event.Kind {
	case domain.EventMessageCreated:
		changed = s.mergeLocked(*event.Message)
	case domain.EventMessageDeleted:
		changed = s.dropLocked(event.MessageID)
	}
	notify := changed && s.state == SessionReady
	s.mu.Unlock()

	if notify {
		s.notify()
	}
}

// mergeLocked insert a message unless its id is already present or was
// removed, keeping the (created_at, id) total order. The channel is
// at-least-once, so a create event can be redelivered after the deletion;
// the tombstone in removed keeps it out. Caller holds s.mu.
func (s *ChatSession) mergeLocked(msg domain.Message) bool {
	if _, gone := s.removed[msg.ID]; gone {
		return false
	}
	if _, dup := s.seen[msg.ID]; dup {
		return false
	}
	s.seen[msg.ID] = struct{}{}
	s.messages = append(s.messages, msg)
	domain.SortMessages(s.messages)
	return true
}

// dropLocked remove a message by id and tombstone it; false when there was
// nothing to drop. Caller holds s.mu.
func (s *ChatSession) dropLocked(messageID string) bool {
	s.removed[messageID] = struct{}{}
	if _, ok := s.seen[messageID]; !ok {
		return false
	}
	delete(s.seen, messageID)
	for i := range s.messages {
		if s.messages[i].ID == messageID {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			break
		}
	}
	return true
}

func (s *ChatSession) abortOpen(cancel context.CancelFunc) {
	cancel()
	s.mu.Lock()
	if s.state == SessionLoading {
		s.state = SessionClosed
		s.cancelSub = nil
	}
	s.mu.Unlock()
}

func (s *ChatSession) notify() {
	s.mu.Lock()
	fn := s.onChange
	var snap Snapshot
	if fn != nil {
		snap = Snapshot{
			Messages:         make([]domain.Message, len(s.messages)),
			ParticipantCount: s.participantCount,
		}
		copy(snap.Messages, s.messages)
	}
	s.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}
