package console

import "sync"

// Event is a typed notification published on the session bus. The bus
// replaces process-wide ad-hoc broadcast: anything that needs to react to
// cross-panel state (an expired session, a mutation that invalidates
// cached views of a resource) subscribes explicitly.
type Event interface {
	event()
}

// EventSessionExpired is published when the backend rejects the bearer
// token. The console itself never redirects or re-authenticates.
type EventSessionExpired struct{}

func (EventSessionExpired) event() {}

// EventResourceMutated is published after any successful mutating call
// (bulk action, wallet credit/debit) so every view of the named resource
// re-fetches from the server of record.
type EventResourceMutated struct {
	Resource string
	IDs      []string
}

func (EventResourceMutated) event() {}

// busBuffer is the per-subscriber channel capacity. Publish never blocks;
// a subscriber that falls this far behind loses events.
const busBuffer = 16

// Bus is a session-scoped event bus.
type Bus struct {
	mu     sync.Mutex
	subs   []chan Event
	closed bool
}

// NewBus returns an open bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a new subscriber. The returned channel is closed
// when the bus closes.
func (b *Bus) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Event, busBuffer)
	if b.closed {
		close(ch)
		return ch
	}
	b.subs = append(b.subs, ch)
	return ch
}

// Publish delivers ev to every subscriber without blocking.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close terminates all subscriptions. Further Publish calls are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
