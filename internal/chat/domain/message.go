package domain

import (
	"io"
	"sort"
	"time"
)

// MediaKind attachment media category
type MediaKind string

const (
	// MediaImage attachment is an image
	MediaImage MediaKind = "image"
	// MediaVideo attachment is a video
	MediaVideo MediaKind = "video"
)

// Attachment staged media referenced by a message
type Attachment struct {
	URL  string    `bson:"url" json:"url"`
	Kind MediaKind `bson:"kind" json:"kind"`
}

// Message one chat message inside a conversation
type Message struct {
	ID             string      `bson:"_id" json:"id"`
	ConversationID string      `bson:"conversation_id" json:"conversation_id"`
	AuthorID       string      `bson:"author_id" json:"author_id"`
	Body           string      `bson:"body" json:"body"`
	Attachment     *Attachment `bson:"attachment,omitempty" json:"attachment,omitempty"`
	Flagged        bool        `bson:"flagged" json:"flagged"`
	CreatedAt      time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `bson:"updated_at" json:"updated_at"`

	// author snapshot taken at send time so rendering needs no join
	AuthorName      string `bson:"author_name" json:"author_name"`
	AuthorAvatarURL string `bson:"author_avatar_url,omitempty" json:"author_avatar_url,omitempty"`
}

// MessageDraft a not yet persisted candidate message
type MessageDraft struct {
	ConversationID string
	AuthorID       string
	Body           string
	Attachment     *Attachment
	Flagged        bool
}

// Valid a draft must carry a body or an attachment
func (d MessageDraft) Valid() bool {
	return d.Body != "" || d.Attachment != nil
}

// Before reports the total order inside one conversation: created_at, then id as tie-break
func (m Message) Before(other Message) bool {
	if !m.CreatedAt.Equal(other.CreatedAt) {
		return m.CreatedAt.Before(other.CreatedAt)
	}
	return m.ID < other.ID
}

// SortMessages sort messages into conversation order
func SortMessages(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Before(msgs[j])
	})
}

// MediaFile an attachment candidate as received from the client
type MediaFile struct {
	Name        string
	Size        int64
	ContentType string
	Reader      io.Reader
}

// ReadMarker last observation of a conversation by a user
type ReadMarker struct {
	UserID         string    `json:"user_id"`
	ConversationID string    `json:"conversation_id"`
	LastSeenAt     time.Time `json:"last_seen_at"`
}

// Participant conversation member as shown in the player list
type Participant struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Level     int    `json:"level"`
}
