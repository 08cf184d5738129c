package event

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/physics"
)

type recorder struct {
	name string
	log  *[]string
	got  []Event
	on   func(Event)
}

func (r *recorder) OnEvent(ev Event) {
	r.got = append(r.got, ev)
	if r.log != nil {
		*r.log = append(*r.log, r.name)
	}
	if r.on != nil {
		r.on(ev)
	}
}

func TestPublishIsDeferredAndFIFO(t *testing.T) {
	bus := NewBus(0, zap.NewNop())
	r := &recorder{}
	bus.Subscribe(r, InputStartMoving)

	bus.Publish(NewStartMoving(1, physics.North))
	bus.Publish(NewStartMoving(2, physics.East))
	if len(r.got) != 0 {
		t.Fatal("publish must not deliver synchronously")
	}

	if n := bus.Drain(); n != 2 {
		t.Fatalf("drained %d, want 2", n)
	}
	if len(r.got) != 2 || r.got[0].Entity != 1 || r.got[1].Entity != 2 {
		t.Fatalf("delivery order = %+v", r.got)
	}
	if d := r.got[1].Payload.(StartMove).Direction; d != physics.East {
		t.Fatalf("payload direction = %v", d)
	}
}

func TestEventsPublishedDuringDrainWaitOneDrain(t *testing.T) {
	bus := NewBus(0, zap.NewNop())
	second := &recorder{}
	first := &recorder{on: func(ev Event) {
		bus.Publish(NewDeath(ev.Entity))
	}}
	bus.Subscribe(first, HumanInteract)
	bus.Subscribe(second, HumanDeath)

	bus.Publish(NewInteract(5))
	if n := bus.Drain(); n != 1 {
		t.Fatalf("first drain delivered %d, want 1", n)
	}
	if len(second.got) != 0 {
		t.Fatal("event published during drain was delivered in the same drain")
	}
	if bus.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", bus.Pending())
	}
	bus.Drain()
	if len(second.got) != 1 || second.got[0].Entity != 5 {
		t.Fatalf("second drain got %+v", second.got)
	}
}

func TestMostRecentListenerFirst(t *testing.T) {
	bus := NewBus(0, zap.NewNop())
	var order []string
	bus.Subscribe(&recorder{name: "a", log: &order}, HumanDeath)
	bus.Subscribe(&recorder{name: "b", log: &order}, HumanDeath)
	bus.Subscribe(&recorder{name: "c", log: &order}, HumanDeath)

	bus.Publish(NewDeath(0))
	bus.Drain()

	want := []string{"c", "b", "a"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestDrainWithoutListenersDiscards(t *testing.T) {
	bus := NewBus(0, zap.NewNop())
	bus.Publish(NewYieldControl(ecs.CameraEntity))
	if n := bus.Drain(); n != 1 {
		t.Fatalf("drained %d, want 1", n)
	}
	if bus.Pending() != 0 {
		t.Fatal("queue should be empty")
	}
	if n := bus.Drain(); n != 0 {
		t.Fatalf("empty drain returned %d", n)
	}
}

func TestListenersOnlySeeTheirKind(t *testing.T) {
	bus := NewBus(0, zap.NewNop())
	r := &recorder{}
	bus.Subscribe(r, InputSprint)
	bus.Publish(NewSprint(3, true))
	bus.Publish(NewStopMoving(3, physics.West))
	bus.Drain()
	if len(r.got) != 1 || r.got[0].Kind != InputSprint {
		t.Fatalf("got %+v", r.got)
	}
}

func TestUnsubscribeDuringDrain(t *testing.T) {
	bus := NewBus(0, zap.NewNop())
	later := &recorder{}
	var self *recorder
	self = &recorder{on: func(Event) {
		bus.Unsubscribe(self, HumanDeath)
		bus.Unsubscribe(later, HumanDeath)
	}}
	bus.Subscribe(later, HumanDeath)
	bus.Subscribe(self, HumanDeath)

	bus.Publish(NewDeath(1))
	bus.Publish(NewDeath(2))
	bus.Drain()

	if len(self.got) != 1 {
		t.Fatalf("unsubscribed listener got %d events, want 1", len(self.got))
	}
	// later was removed while event 1 was being delivered; the list for
	// event 1 had already been taken.
	if len(later.got) != 1 || later.got[0].Entity != 1 {
		t.Fatalf("later got %+v", later.got)
	}
	if bus.ListenerCount(HumanDeath) != 0 {
		t.Fatalf("listener count = %d", bus.ListenerCount(HumanDeath))
	}
}

func TestUnsubscribeAbsentIsNoop(t *testing.T) {
	bus := NewBus(0, zap.NewNop())
	r := &recorder{}
	bus.Subscribe(r, HumanDeath)
	bus.Unsubscribe(&recorder{}, HumanDeath)
	bus.Unsubscribe(r, HumanInteract)
	if bus.ListenerCount(HumanDeath) != 1 {
		t.Fatal("unrelated unsubscribe removed a listener")
	}
}

func TestDrainCap(t *testing.T) {
	bus := NewBus(2, zap.NewNop())
	r := &recorder{}
	bus.Subscribe(r, HumanDeath)
	for i := 0; i < 5; i++ {
		bus.Publish(NewDeath(ecs.EntityID(i)))
	}
	if n := bus.Drain(); n != 2 {
		t.Fatalf("capped drain = %d, want 2", n)
	}
	if bus.Pending() != 3 {
		t.Fatalf("pending = %d, want 3", bus.Pending())
	}
	bus.Drain()
	bus.Drain()
	if len(r.got) != 5 {
		t.Fatalf("delivered %d, want 5", len(r.got))
	}
	for i, ev := range r.got {
		if ev.Entity != ecs.EntityID(i) {
			t.Fatalf("event %d has entity %d", i, ev.Entity)
		}
	}
}

func TestReentrantDrainRejected(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	bus := NewBus(0, zap.New(core))
	var inner int
	r := &recorder{on: func(Event) { inner = bus.Drain() }}
	bus.Subscribe(r, HumanDeath)
	bus.Publish(NewDeath(0))
	bus.Publish(NewDeath(1))
	bus.Drain()

	if inner != 0 {
		t.Fatalf("nested drain delivered %d", inner)
	}
	if len(r.got) != 2 {
		t.Fatalf("outer drain delivered %d, want 2", len(r.got))
	}
	if logs.Len() == 0 {
		t.Fatal("expected a warning for nested drain")
	}
}

func TestPublishMismatchedPayloadFaults(t *testing.T) {
	bus := NewBus(0, zap.NewNop())
	defer func() {
		f, ok := recover().(*ecs.Fault)
		if !ok || !errors.Is(f, ecs.ErrPayloadKind) {
			t.Fatalf("recovered %v, want payload fault", f)
		}
	}()
	bus.Publish(Event{Kind: HumanJoinWorld, Entity: 1, Payload: Sprint{Start: true}})
}

func TestEventValid(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want bool
	}{
		{"key", NewRawKey(KeyW, true), true},
		{"click", NewRawClick(ButtonLeft, 3, 4, false), true},
		{"join", NewJoinWorld(1, JoinWorld{SpawnX: 2, SpawnY: 3}), true},
		{"death nil payload", NewDeath(1), true},
		{"start without payload", Event{Kind: InputStartMoving}, false},
		{"stop with start payload", Event{Kind: InputStopMoving, Payload: StartMove{}}, false},
		{"unknown kind", Event{Kind: kindCount}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
