package event

import (
	"fmt"

	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/physics"
)

// Kind identifies an event. The set is closed.
type Kind uint8

const (
	RawInputKey Kind = iota
	RawInputClick

	InputSprint
	InputStartMoving
	InputStopMoving
	InputYieldControl

	HumanJoinWorld
	HumanDeath
	HumanInteract

	kindCount
)

var kindNames = [...]string{
	RawInputKey:       "raw_input_key",
	RawInputClick:     "raw_input_click",
	InputSprint:       "input_sprint",
	InputStartMoving:  "input_start_moving",
	InputStopMoving:   "input_stop_moving",
	InputYieldControl: "input_yield_control",
	HumanJoinWorld:    "human_join_world",
	HumanDeath:        "human_death",
	HumanInteract:     "human_interact",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Key is a keyboard key as reported by a frontend.
type Key uint16

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyLeft
	KeyDown
	KeyRight
	KeyShift
	KeyTab
	KeyE
	KeyEscape
)

// Button is a mouse button.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Payload is the sealed set of event payloads. Exactly one payload type is
// valid per Kind; kinds without data carry a nil payload.
type Payload interface {
	kind() Kind
}

type RawKey struct {
	Key     Key
	Pressed bool
}

type RawClick struct {
	Button  Button
	X, Y    int
	Pressed bool
}

// StartMove and StopMove carry the direction being pressed or released.
type StartMove struct {
	Direction physics.Direction
}

type StopMove struct {
	Direction physics.Direction
}

type Sprint struct {
	Start bool
}

type JoinWorld struct {
	WorldID        int
	SpawnX, SpawnY int
	SpawnDirection physics.Direction
}

func (RawKey) kind() Kind    { return RawInputKey }
func (RawClick) kind() Kind  { return RawInputClick }
func (StartMove) kind() Kind { return InputStartMoving }
func (StopMove) kind() Kind  { return InputStopMoving }
func (Sprint) kind() Kind    { return InputSprint }
func (JoinWorld) kind() Kind { return HumanJoinWorld }

// Event is a queued notification. Build events with the constructors below
// so Kind and Payload always agree.
type Event struct {
	Kind    Kind
	Entity  ecs.EntityID
	Payload Payload
}

// Valid reports whether the payload matches the kind.
func (e Event) Valid() bool {
	if e.Kind >= kindCount {
		return false
	}
	if e.Payload == nil {
		switch e.Kind {
		case InputYieldControl, HumanDeath, HumanInteract:
			return true
		}
		return false
	}
	return e.Payload.kind() == e.Kind
}

func (e Event) String() string {
	if e.Payload == nil {
		return fmt.Sprintf("%s(entity=%d)", e.Kind, e.Entity)
	}
	return fmt.Sprintf("%s(entity=%d %+v)", e.Kind, e.Entity, e.Payload)
}

func NewRawKey(key Key, pressed bool) Event {
	return Event{Kind: RawInputKey, Entity: ecs.Invalid, Payload: RawKey{Key: key, Pressed: pressed}}
}

func NewRawClick(button Button, x, y int, pressed bool) Event {
	return Event{Kind: RawInputClick, Entity: ecs.Invalid, Payload: RawClick{Button: button, X: x, Y: y, Pressed: pressed}}
}

func NewStartMoving(id ecs.EntityID, d physics.Direction) Event {
	return Event{Kind: InputStartMoving, Entity: id, Payload: StartMove{Direction: d}}
}

func NewStopMoving(id ecs.EntityID, d physics.Direction) Event {
	return Event{Kind: InputStopMoving, Entity: id, Payload: StopMove{Direction: d}}
}

func NewSprint(id ecs.EntityID, start bool) Event {
	return Event{Kind: InputSprint, Entity: id, Payload: Sprint{Start: start}}
}

func NewYieldControl(id ecs.EntityID) Event {
	return Event{Kind: InputYieldControl, Entity: id}
}

func NewJoinWorld(id ecs.EntityID, p JoinWorld) Event {
	return Event{Kind: HumanJoinWorld, Entity: id, Payload: p}
}

func NewDeath(id ecs.EntityID) Event {
	return Event{Kind: HumanDeath, Entity: id}
}

func NewInteract(id ecs.EntityID) Event {
	return Event{Kind: HumanInteract, Entity: id}
}
