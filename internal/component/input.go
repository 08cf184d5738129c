package component

import "github.com/citysim/citysim/internal/ai"

// Input marks an entity as steered by a brain owned by an ai.Pool.
type Input struct {
	Brain ai.Handle
}

// Release returns the brain to its pool and drops its event subscriptions.
func (i *Input) Release() {
	i.Brain.Release()
	i.Brain = ai.Handle{}
}
