package domain

import "errors"

// EventKind delivery channel event type
type EventKind string

const (
	// EventMessageCreated a message was appended to the conversation
	EventMessageCreated EventKind = "message_created"
	// EventMessageDeleted a message was removed from the conversation
	EventMessageDeleted EventKind = "message_deleted"
)

// ChatEvent envelope published on the per-conversation channel.
// Consumers must treat it as untrusted wire data and decode through Validate.
type ChatEvent struct {
	Kind           EventKind `json:"kind"`
	ConversationID string    `json:"conversation_id"`
	MessageID      string    `json:"message_id"`
	Message        *Message  `json:"message,omitempty"`
}

// Validate reject a malformed envelope instead of defaulting missing fields
func (e ChatEvent) Validate() error {
	if e.ConversationID == "" || e.MessageID == "" {
		return errors.New("chat event missing conversation or message id")
	}
	switch e.Kind {
	case EventMessageCreated:
		if e.Message == nil {
			return errors.New("message_created event without message payload")
		}
		if e.Message.ID != e.MessageID {
			return errors.New("message_created event id mismatch")
		}
	case EventMessageDeleted:
		// deletion carries only the id
	default:
		return errors.New("unknown chat event kind")
	}
	return nil
}

// ConversationUpdate in-process notification that a conversation changed,
// emitted after every durable append or remove for dashboard listeners
type ConversationUpdate struct {
	ConversationID string
	Kind           EventKind
	AuthorID       string
}
