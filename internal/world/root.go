// Package world holds the per-session scene: the root that owns every
// session object, the level grid, and the level generator.
package world

// Entity is anything owned by a Root. Destroy releases it; it must be safe to
// call more than once.
type Entity interface {
	Destroy()
}

// Root owns the objects that make up one session (level, player, threats,
// coins). Clearing the root destroys all of them.
type Root struct {
	children []Entity
}

// NewRoot creates an empty root.
func NewRoot() *Root {
	return &Root{}
}

// Attach adds e to the root. Nil entities are ignored.
func (r *Root) Attach(e Entity) {
	if e == nil {
		return
	}
	r.children = append(r.children, e)
}

// Children returns a copy of the attached entities in attach order.
func (r *Root) Children() []Entity {
	out := make([]Entity, len(r.children))
	copy(out, r.children)
	return out
}

// Len returns the number of attached entities.
func (r *Root) Len() int {
	return len(r.children)
}

// Clear destroys every attached entity and empties the root.
func (r *Root) Clear() {
	for _, e := range r.children {
		e.Destroy()
	}
	r.children = nil
}
