package filter

import (
	"context"
	"sync"
)

// Events the grid content binds handlers for.
const (
	EventPageClick      = "pagination.click"
	EventFavoriteSubmit = "favorite.submit"
)

// Handler receives the data attribute of the element that fired.
type Handler func(ctx context.Context, value string)

// Bindings holds at most one handler per event, so binding again after the
// grid is replaced never stacks duplicate handlers.
type Bindings struct {
	mu       sync.Mutex
	handlers map[string]Handler
	binds    map[string]int
}

func NewBindings() *Bindings {
	return &Bindings{handlers: map[string]Handler{}, binds: map[string]int{}}
}

// Bind detaches the current handler for event and attaches h.
func (b *Bindings) Bind(event string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, event)
	if h != nil {
		b.handlers[event] = h
	}
	b.binds[event]++
}

// Unbind detaches the handler for event.
func (b *Bindings) Unbind(event string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, event)
}

// Fire runs the handler bound to event. It reports false when none is bound.
func (b *Bindings) Fire(ctx context.Context, event, value string) bool {
	b.mu.Lock()
	h, ok := b.handlers[event]
	b.mu.Unlock()
	if !ok {
		return false
	}
	h(ctx, value)
	return true
}

// Bound reports whether event currently has a handler.
func (b *Bindings) Bound(event string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.handlers[event]
	return ok
}

// BindCount is how many times event was (re)bound.
func (b *Bindings) BindCount(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.binds[event]
}
