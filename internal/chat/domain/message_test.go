package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMessageDraft_Valid(t *testing.T) {
	assert.True(t, MessageDraft{Body: "hi"}.Valid())
	assert.True(t, MessageDraft{Attachment: &Attachment{URL: "u", Kind: MediaImage}}.Valid())
	assert.True(t, MessageDraft{Body: "hi", Attachment: &Attachment{URL: "u", Kind: MediaVideo}}.Valid())
	assert.False(t, MessageDraft{}.Valid())
}

func TestSortMessages(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	msgs := []Message{
		{ID: "c", CreatedAt: base.Add(time.Second)},
		{ID: "b", CreatedAt: base},
		{ID: "a", CreatedAt: base},
	}
	SortMessages(msgs)

	// equal timestamps fall back to id order, so the result is total
	assert.Equal(t, "a", msgs[0].ID)
	assert.Equal(t, "b", msgs[1].ID)
	assert.Equal(t, "c", msgs[2].ID)
}

func TestMessage_Before(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	earlier := Message{ID: "z", CreatedAt: base}
	later := Message{ID: "a", CreatedAt: base.Add(time.Millisecond)}

	assert.True(t, earlier.Before(later))
	assert.False(t, later.Before(earlier))

	twin := Message{ID: "y", CreatedAt: base}
	assert.False(t, earlier.Before(earlier))
	assert.True(t, twin.Before(earlier) != earlier.Before(twin))
}
