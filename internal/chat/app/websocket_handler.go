package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"health_chat_service/internal/chat/domain"
	"health_chat_service/internal/chat/repository"
	"health_chat_service/pkg/logger"
	"health_chat_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const (
	wsOpTimeout  = 15 * time.Second
	wsPingPeriod = 30 * time.Second
	wsPongWait   = 60 * time.Second
	wsWriteWait  = 10 * time.Second
)

// WSHandler owns the websocket endpoint for the chat service
type WSHandler struct {
	messageUC    *MessageUseCase
	attachmentUC *AttachmentUseCase
	pubsub       repository.PubSub
	emitter      *UpdateEmitter
}

// NewWSHandler create a websocket handler
func NewWSHandler(messageUC *MessageUseCase, attachmentUC *AttachmentUseCase, pubsub repository.PubSub, emitter *UpdateEmitter) *WSHandler {
	return &WSHandler{
		messageUC:    messageUC,
		attachmentUC: attachmentUC,
		pubsub:       pubsub,
		emitter:      emitter,
	}
}

// wsWriter serializes writes to one websocket connection.
// gofiber/websocket connections do not allow concurrent writers.
type wsWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsWriter) WriteJSON(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.conn.WriteJSON(v)
}

func (w *wsWriter) WriteControl(messageType int, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteControl(messageType, data, time.Now().Add(wsWriteWait))
}

// Handle run the read loop for one authenticated connection. The user id
// comes from the jwt middleware; one session at most is open per connection.
func (h *WSHandler) Handle(c *websocket.Conn) {
	userID, ok := c.Locals(middlewares.TokenUserID).(string)
	if !ok || userID == "" {
		c.WriteJSON(domain.WSResponse{Action: domain.EnterChat, Success: false, Error: "unauthorized"})
		c.Close()
		return
	}

	writer := &wsWriter{conn: c}
	// read by the emitter handler from other connections' goroutines
	var session atomic.Pointer[ChatSession]
	defer func() {
		if s := session.Load(); s != nil {
			s.Close()
		}
		c.Close()
	}()

	c.SetPongHandler(func(string) error {
		c.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})
	c.SetCloseHandler(func(code int, text string) error {
		logger.Log.Info("ws close", zap.String("user_id", userID), zap.Int("code", code))
		return nil
	})
	c.SetReadDeadline(time.Now().Add(wsPongWait))

	done := make(chan struct{})
	defer close(done)
	go h.pingLoop(writer, done)

	sub := h.subscribeUnread(writer, userID, session.Load)
	defer sub.Cancel()

	for {
		var req domain.WSRequest
		if err := c.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.Warn("ws read", zap.String("user_id", userID), zap.Error(err))
			}
			return
		}
		c.SetReadDeadline(time.Now().Add(wsPongWait))

		switch req.Action {
		case domain.EnterChat:
			session.Store(h.enterChat(writer, session.Load(), req, userID))
		case domain.LeaveChat:
			if s := session.Load(); s != nil {
				s.Close()
				session.Store(nil)
			}
			writer.WriteJSON(okResponse(domain.LeaveChat, nil))
		case domain.SendMessage:
			h.sendMessage(writer, session.Load(), req)
		case domain.DeleteMessage:
			h.deleteMessage(writer, session.Load(), req)
		case domain.MarkRead:
			h.markRead(writer, session.Load())
		case domain.GetParticipants:
			h.getParticipants(writer, req, userID)
		case domain.GetUnread:
			h.getUnread(writer, req, userID)
		default:
			writer.WriteJSON(domain.WSResponse{Action: req.Action, Success: false, Error: "unknown action"})
		}
	}
}

func (h *WSHandler) pingLoop(writer *wsWriter, done chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := writer.WriteControl(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// subscribeUnread push unread notifications for conversations the user
// participates in but is not currently viewing
func (h *WSHandler) subscribeUnread(writer *wsWriter, userID string, current func() *ChatSession) *Subscription {
	return h.emitter.Subscribe(func(update domain.ConversationUpdate) {
		if update.AuthorID == userID {
			return
		}
		if s := current(); s != nil && s.ConversationID() == update.ConversationID {
			return
		}

		// the count hits mongo; it must not block the sender's broadcast
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), wsOpTimeout)
			defer cancel()
			count, err := h.messageUC.UnreadCount(ctx, userID, update.ConversationID)
			if err != nil {
				// not a participant or a transient store error; nothing to push
				return
			}
			writer.WriteJSON(okResponse(domain.NotifyUnread, map[string]interface{}{
				"conversation_id": update.ConversationID,
				"unread_count":    count,
			}))
		}()
	})
}

func (h *WSHandler) enterChat(writer *wsWriter, prev *ChatSession, req domain.WSRequest, userID string) *ChatSession {
	if prev != nil {
		prev.Close()
	}
	if req.ConversationID == "" {
		writer.WriteJSON(errResponse(domain.EnterChat, domain.ErrValidation))
		return nil
	}

	session := NewChatSession(h.messageUC, h.attachmentUC, h.pubsub, req.ConversationID, userID)
	session.SetOnChange(func(snap Snapshot) {
		writer.WriteJSON(okResponse(domain.NotifyMessage, map[string]interface{}{
			"conversation_id":   req.ConversationID,
			"messages":          snap.Messages,
			"participant_count": snap.ParticipantCount,
		}))
	})

	ctx, cancel := context.WithTimeout(context.Background(), wsOpTimeout)
	defer cancel()
	if err := session.Open(ctx); err != nil {
		writer.WriteJSON(errResponse(domain.EnterChat, err))
		return nil
	}

	writer.WriteJSON(okResponse(domain.EnterChat, map[string]interface{}{
		"conversation_id":   req.ConversationID,
		"messages":          session.Messages(),
		"participant_count": session.ParticipantCount(),
	}))
	return session
}

func (h *WSHandler) sendMessage(writer *wsWriter, session *ChatSession, req domain.WSRequest) {
	if session == nil {
		writer.WriteJSON(errResponse(domain.SendMessage, domain.ErrSessionNotReady))
		return
	}

	var attachment *domain.Attachment
	if req.MediaURL != "" {
		kind := domain.MediaKind(req.MediaType)
		if kind != domain.MediaImage && kind != domain.MediaVideo {
			writer.WriteJSON(errResponse(domain.SendMessage, domain.ErrUnsupportedType))
			return
		}
		attachment = &domain.Attachment{URL: req.MediaURL, Kind: kind}
	}

	ctx, cancel := context.WithTimeout(context.Background(), wsOpTimeout)
	defer cancel()
	msg, err := session.SendStaged(ctx, req.Content, attachment, req.Flagged)
	if err != nil {
		writer.WriteJSON(errResponse(domain.SendMessage, err))
		return
	}
	writer.WriteJSON(okResponse(domain.SendMessage, map[string]interface{}{"message": msg}))
}

func (h *WSHandler) deleteMessage(writer *wsWriter, session *ChatSession, req domain.WSRequest) {
	if session == nil {
		writer.WriteJSON(errResponse(domain.DeleteMessage, domain.ErrSessionNotReady))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), wsOpTimeout)
	defer cancel()
	if err := session.DeleteOwn(ctx, req.MessageID); err != nil {
		writer.WriteJSON(errResponse(domain.DeleteMessage, err))
		return
	}
	writer.WriteJSON(okResponse(domain.DeleteMessage, map[string]interface{}{"message_id": req.MessageID}))
}

func (h *WSHandler) markRead(writer *wsWriter, session *ChatSession) {
	if session == nil {
		writer.WriteJSON(errResponse(domain.MarkRead, domain.ErrSessionNotReady))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), wsOpTimeout)
	defer cancel()
	if err := session.MarkRead(ctx); err != nil {
		writer.WriteJSON(errResponse(domain.MarkRead, err))
		return
	}
	writer.WriteJSON(okResponse(domain.MarkRead, nil))
}

func (h *WSHandler) getParticipants(writer *wsWriter, req domain.WSRequest, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), wsOpTimeout)
	defer cancel()
	participants, err := h.messageUC.Participants(ctx, req.ConversationID, userID)
	if err != nil {
		writer.WriteJSON(errResponse(domain.GetParticipants, err))
		return
	}
	writer.WriteJSON(okResponse(domain.GetParticipants, map[string]interface{}{
		"conversation_id": req.ConversationID,
		"participants":    participants,
	}))
}

func (h *WSHandler) getUnread(writer *wsWriter, req domain.WSRequest, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), wsOpTimeout)
	defer cancel()
	count, err := h.messageUC.UnreadCount(ctx, userID, req.ConversationID)
	if err != nil {
		writer.WriteJSON(errResponse(domain.GetUnread, err))
		return
	}
	writer.WriteJSON(okResponse(domain.GetUnread, map[string]interface{}{
		"conversation_id": req.ConversationID,
		"unread_count":    count,
	}))
}

func okResponse(action domain.Action, payload map[string]interface{}) domain.WSResponse {
	return domain.WSResponse{Action: action, Success: true, Payload: payload}
}

func errResponse(action domain.Action, err error) domain.WSResponse {
	resp := domain.WSResponse{Action: action, Success: false}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		resp.Error = "conversation not found"
	case errors.Is(err, domain.ErrAuthorization):
		resp.Error = "not allowed"
	case errors.Is(err, domain.ErrValidation):
		resp.Error = "invalid message"
	case errors.Is(err, domain.ErrTooLarge):
		resp.Error = "attachment too large"
	case errors.Is(err, domain.ErrUnsupportedType):
		resp.Error = "unsupported attachment type"
	case errors.Is(err, domain.ErrSessionNotReady):
		resp.Error = "no open chat"
	default:
		resp.Error = "internal error"
	}
	return resp
}
