package events

import (
	"sync"
	"time"

	"github.com/velobay/shopsim/internal/clock"
)

// Handler receives every published event.
type Handler func(Event)

// Bus is a synchronous, ordered publish/subscribe channel. Publish calls
// every handler in subscription order before returning, so all listeners
// observe one event before the next mutation begins.
type Bus struct {
	mu       sync.Mutex
	clk      clock.Clock
	handlers []Handler
}

// NewBus creates a bus stamping events with the given clock.
func NewBus(clk clock.Clock) *Bus {
	if clk == nil {
		clk = clock.System{}
	}
	return &Bus{clk: clk}
}

// Subscribe registers a handler. Handlers run on the publishing goroutine
// and must not block.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers an event to every handler in order.
func (b *Bus) Publish(t Type, data any) {
	b.mu.Lock()
	hs := make([]Handler, len(b.handlers))
	copy(hs, b.handlers)
	at := b.clk.Now()
	b.mu.Unlock()

	e := Event{Type: t, At: at, Data: data}
	for _, h := range hs {
		h(e)
	}
}

// At returns the bus clock's current time. Used by components that stamp
// records with the same time source as their events.
func (b *Bus) At() time.Time {
	return b.clk.Now()
}
