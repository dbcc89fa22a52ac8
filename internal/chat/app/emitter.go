package app

import (
	"sync"

	"health_chat_service/internal/chat/domain"
)

// UpdateHandler callback invoked for every conversation update
type UpdateHandler func(update domain.ConversationUpdate)

// Subscription handle returned by UpdateEmitter.Subscribe
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Cancel deregister the handler; calling twice is a no-op
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// UpdateEmitter in-process fan-out of conversation updates to dashboard
// listeners on the same node. Owned by the composition root; listeners
// register and deregister with the same scoped discipline as a channel
// subscription.
type UpdateEmitter struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]UpdateHandler
}

// NewUpdateEmitter create an UpdateEmitter
func NewUpdateEmitter() *UpdateEmitter {
	return &UpdateEmitter{handlers: map[int]UpdateHandler{}}
}

// Subscribe register handler and return its cancellation handle
func (e *UpdateEmitter) Subscribe(handler UpdateHandler) *Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	e.handlers[id] = handler

	return &Subscription{cancel: func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.handlers, id)
	}}
}

// Emit deliver the update to every registered handler
func (e *UpdateEmitter) Emit(update domain.ConversationUpdate) {
	e.mu.Lock()
	handlers := make([]UpdateHandler, 0, len(e.handlers))
	for _, h := range e.handlers {
		handlers = append(handlers, h)
	}
	e.mu.Unlock()

	for _, h := range handlers {
		h(update)
	}
}
