package ecs

// Each calls fn for every entity alive at call time whose mask contains
// mask. The entity list is snapshotted first and each entry re-checked
// before fn runs, so fn may create or kill entities.
func Each(w *World, mask Mask, fn func(EntityID)) {
	refs := w.SnapshotRefs(make([]Ref, 0, w.Count()))
	for _, ref := range refs {
		if w.Valid(ref) && w.Mask(ref.ID).Contains(mask) {
			fn(ref.ID)
		}
	}
}
