package ecs

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Sentinel causes carried by a Fault.
var (
	ErrCapacity         = errors.New("max number of entities reached")
	ErrOutOfRange       = errors.New("entity id out of range")
	ErrComponentKind    = errors.New("invalid component type")
	ErrComponentMissing = errors.New("component not attached")
	ErrMissingBody      = errors.New("physics component has no body")
	ErrPayloadKind      = errors.New("event payload does not match kind")
)

// Fault is a structural invariant violation. It is raised with panic and
// never returned: callers are not expected to handle it, only the frame
// driver recovers it to stop the loop with a diagnostic.
type Fault struct {
	Op  string
	ID  EntityID
	Err error
}

func (f *Fault) Error() string {
	if f.ID == Invalid {
		return fmt.Sprintf("%s: %v", f.Op, f.Err)
	}
	return fmt.Sprintf("%s entity %d: %v", f.Op, f.ID, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }

// Raise logs the fault at error level and panics with it.
func Raise(log *zap.Logger, op string, id EntityID, err error) {
	f := &Fault{Op: op, ID: id, Err: err}
	if log != nil {
		log.Error("fatal fault", zap.String("op", op), zap.Int32("entity", int32(id)), zap.Error(err))
	}
	panic(f)
}

// Recover converts a Fault panic into *errp. Any other panic is re-raised.
// Use as: defer ecs.Recover(&err).
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if f, ok := r.(*Fault); ok {
		*errp = f
		return
	}
	panic(r)
}
