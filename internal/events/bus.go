package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"usagestats/pkg/types"
)

type subscription struct {
	name    string
	handler Handler
}

// Bus is a synchronous in-process event bus. Handlers run on the publisher's
// goroutine in registration order, and Publish returns once all of them have.
type Bus struct {
	mu   sync.RWMutex
	subs []subscription
	log  zerolog.Logger
}

// NewBus constructs an empty Bus.
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{log: log}
}

// Subscribe registers h for name.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	b.subs = append(b.subs, subscription{name: name, handler: h})
	count := len(b.subs)
	b.mu.Unlock()
	b.log.Debug().Str("event", "bus.subscribe").Str("name", name).Int("subs", count).Msg("subscribed")
}

// Subscriptions returns the subscribed event names in registration order.
func (b *Bus) Subscriptions() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.subs))
	for i, s := range b.subs {
		out[i] = s.name
	}
	return out
}

// Handlers returns the handlers registered for name in registration order.
func (b *Bus) Handlers(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []Handler
	for _, s := range b.subs {
		if s.name == name {
			out = append(out, s.handler)
		}
	}
	return out
}

// Publish delivers p to every handler of name. All handlers run even if one
// fails; their errors are joined.
func (b *Bus) Publish(ctx context.Context, name string, p types.DeploymentPayload) error {
	handlers := b.Handlers(name)
	if len(handlers) == 0 {
		b.log.Debug().Str("event", "bus.no_subscribers").Str("name", name).Msg("no subscribers")
		return nil
	}
	var errs []error
	for i, h := range handlers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := h(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("%s handler %d: %w", name, i, err))
		}
	}
	return errors.Join(errs...)
}
