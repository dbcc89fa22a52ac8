package app

import (
	"testing"

	"health_chat_service/internal/chat/domain"

	"github.com/stretchr/testify/assert"
)

func TestUpdateEmitter_FanOut(t *testing.T) {
	emitter := NewUpdateEmitter()

	var got []string
	emitter.Subscribe(func(u domain.ConversationUpdate) {
		got = append(got, "a:"+u.ConversationID)
	})
	emitter.Subscribe(func(u domain.ConversationUpdate) {
		got = append(got, "b:"+u.ConversationID)
	})

	emitter.Emit(domain.ConversationUpdate{ConversationID: "conv-1"})

	assert.ElementsMatch(t, []string{"a:conv-1", "b:conv-1"}, got)
}

func TestUpdateEmitter_CancelStopsDelivery(t *testing.T) {
	emitter := NewUpdateEmitter()

	var calls int
	sub := emitter.Subscribe(func(domain.ConversationUpdate) { calls++ })

	emitter.Emit(domain.ConversationUpdate{ConversationID: "conv-1"})
	sub.Cancel()
	emitter.Emit(domain.ConversationUpdate{ConversationID: "conv-1"})

	assert.Equal(t, 1, calls)
}

func TestUpdateEmitter_CancelTwice(t *testing.T) {
	emitter := NewUpdateEmitter()
	sub := emitter.Subscribe(func(domain.ConversationUpdate) {})

	sub.Cancel()
	sub.Cancel()
}
