// Package events is a small in-process publish/subscribe bus.
package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Event is anything with a routing name
type Event interface {
	EventName() string
}

// Handler reacts to a published event
type Handler func(ctx context.Context, evt Event) error

// Bus dispatches events synchronously to subscribers in registration order.
// Handler errors are logged and never returned to the publisher.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *zap.Logger
}

func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{
		handlers: make(map[string][]Handler),
		log:      log.Named("events"),
	}
}

// Subscribe registers h for events named name
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Publish delivers evt to every subscriber of its name
func (b *Bus) Publish(ctx context.Context, evt Event) {
	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers[evt.EventName()]...)
	b.mu.RUnlock()

	for _, h := range hs {
		if err := h(ctx, evt); err != nil {
			b.log.Warn("Events: handler failed",
				zap.String("event", evt.EventName()), zap.Error(err))
		}
	}
}
