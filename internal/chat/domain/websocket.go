package domain

// Action websocket request action
type Action string

const (
	// EnterChat websocket action enter_chat, opens a session on a conversation
	EnterChat Action = "enter_chat"
	// LeaveChat websocket action leave_chat, closes the session
	LeaveChat Action = "leave_chat"

	// SendMessage websocket action send_message
	SendMessage Action = "send_message"
	// DeleteMessage websocket action delete_message
	DeleteMessage Action = "delete_message"
	// MarkRead websocket action mark_read
	MarkRead Action = "mark_read"

	// GetParticipants websocket action get_participants
	GetParticipants Action = "get_participants"
	// GetUnread websocket action get_unread
	GetUnread Action = "get_unread"

	// NotifyMessage server push with the re-rendered message list
	NotifyMessage Action = "notify_message"
	// NotifyUnread server push with an updated unread count
	NotifyUnread Action = "notify_unread"
)

// WSRequest websocket Request
type WSRequest struct {
	Action         Action `json:"action"`
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
	MediaURL       string `json:"media_url"`
	MediaType      string `json:"media_type"`
	Flagged        bool   `json:"flagged"`
	MessageID      string `json:"message_id"`
}

// WSResponse websocket Response
type WSResponse struct {
	Action  Action                 `json:"action"`
	Success bool                   `json:"success"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Error   string                 `json:"error,omitempty"`
}
