package events

import (
	"context"
	"slices"
	"sync"

	"github.com/Amund211/awardtracker/internal/domain"
)

type UnlockHandler func(ctx context.Context, event domain.AwardUnlocked)

// Bus delivers award unlocks to in-process subscribers
type Bus struct {
	handlers map[int]UnlockHandler
	nextID   int
	mutex    sync.RWMutex
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[int]UnlockHandler),
	}
}

// Subscribe registers handler for all future unlocks. Call the returned function to unsubscribe.
func (b *Bus) Subscribe(handler UnlockHandler) func() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[id] = handler

	return func() {
		b.mutex.Lock()
		defer b.mutex.Unlock()
		delete(b.handlers, id)
	}
}

// Publish calls every subscriber synchronously, in subscription order
func (b *Bus) Publish(ctx context.Context, event domain.AwardUnlocked) {
	b.mutex.RLock()
	ids := make([]int, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	handlers := make([]UnlockHandler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, b.handlers[id])
	}
	b.mutex.RUnlock()

	for _, handler := range handlers {
		handler(ctx, event)
	}
}
