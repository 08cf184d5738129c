package event

import (
	"slices"

	"go.uber.org/zap"

	"github.com/citysim/citysim/internal/core/ecs"
)

// Listener receives events of the kinds it subscribed to. Implementations
// must be comparable (pointer receivers) so Unsubscribe can find them.
type Listener interface {
	OnEvent(Event)
}

// Bus is a deferred FIFO event queue. Publish only enqueues; Drain delivers
// the events that were pending when it was called. Events published by a
// listener during Drain wait for the next Drain.
type Bus struct {
	listeners   [kindCount][]Listener
	pending     []Event
	batch       []Event
	maxPerDrain int
	draining    bool
	log         *zap.Logger
}

// NewBus creates a bus. maxPerDrain caps how many events a single Drain
// delivers; 0 means the whole pending snapshot.
func NewBus(maxPerDrain int, log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{
		pending:     make([]Event, 0, 64),
		maxPerDrain: maxPerDrain,
		log:         log,
	}
}

// Subscribe registers l at the front of kind's listener list, so the most
// recently subscribed listener sees each event first.
func (b *Bus) Subscribe(l Listener, kind Kind) {
	b.log.Debug("registering listener", zap.Stringer("kind", kind))
	b.listeners[kind] = append([]Listener{l}, b.listeners[kind]...)
}

// Unsubscribe removes l from kind's listener list. No-op if absent.
func (b *Bus) Unsubscribe(l Listener, kind Kind) {
	ls := b.listeners[kind]
	for i, cur := range ls {
		if cur == l {
			b.listeners[kind] = slices.Delete(slices.Clone(ls), i, i+1)
			b.log.Debug("unregistering listener", zap.Stringer("kind", kind))
			return
		}
	}
}

// Publish appends ev to the pending queue.
func (b *Bus) Publish(ev Event) {
	if !ev.Valid() {
		ecs.Raise(b.log, "publish "+ev.Kind.String(), ev.Entity, ecs.ErrPayloadKind)
	}
	b.pending = append(b.pending, ev)
}

// Drain delivers the events pending at call time, in FIFO order, to every
// listener of their kind, and returns how many were delivered.
func (b *Bus) Drain() int {
	if b.draining {
		b.log.Warn("drain called from a listener, ignoring")
		return 0
	}
	n := len(b.pending)
	if b.maxPerDrain > 0 && n > b.maxPerDrain {
		n = b.maxPerDrain
	}
	if n == 0 {
		return 0
	}

	b.batch = append(b.batch[:0], b.pending[:n]...)
	rest := copy(b.pending, b.pending[n:])
	clear(b.pending[rest:])
	b.pending = b.pending[:rest]

	b.draining = true
	defer func() { b.draining = false }()

	for _, ev := range b.batch {
		// listeners may (un)subscribe while we iterate
		for _, l := range b.listeners[ev.Kind] {
			l.OnEvent(ev)
		}
	}
	clear(b.batch)
	return n
}

// Pending returns the number of queued events.
func (b *Bus) Pending() int { return len(b.pending) }

// ListenerCount returns the number of listeners for kind.
func (b *Bus) ListenerCount(kind Kind) int { return len(b.listeners[kind]) }
