package rendertree

import (
	"fmt"
	"sort"
)

// =============================================================================
// Type Registry
// =============================================================================

// ComponentType describes one registrable component type: the wire tag, the
// state attributes that hold child references (in layout order), and the
// constructor the reconciler calls for every new id.
type ComponentType struct {
	// Tag is the wire identifier carried in the reserved typeTag delta key.
	Tag string

	// ChildAttrs names the state attributes holding child ids, in the order
	// children should be laid out. Both the reconciler (reachability) and
	// generic walkers (snapshots) consult it.
	ChildAttrs []string

	// New constructs the behavior instance for one node.
	New func() Component
}

// Registry maps type tags to component types. It is populated once at
// startup and read-only afterwards.
type Registry struct {
	types map[string]ComponentType
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]ComponentType)}
}

// Register adds a component type. Empty tags, nil constructors, and
// duplicate tags are wiring bugs and are rejected.
func (r *Registry) Register(ct ComponentType) error {
	if ct.Tag == "" {
		return fmt.Errorf("register component type: empty tag")
	}
	if ct.New == nil {
		return fmt.Errorf("register component type %q: nil constructor", ct.Tag)
	}
	if _, exists := r.types[ct.Tag]; exists {
		return fmt.Errorf("register component type %q: already registered", ct.Tag)
	}
	r.types[ct.Tag] = ct
	return nil
}

// MustRegister is Register for startup wiring; it panics on error.
func (r *Registry) MustRegister(ct ComponentType) {
	if err := r.Register(ct); err != nil {
		panic(err)
	}
}

// Lookup returns the component type for tag. The false case is the
// reconciler's fatal-error path.
func (r *Registry) Lookup(tag string) (ComponentType, bool) {
	ct, ok := r.types[tag]
	return ct, ok
}

// Tags returns all registered tags, sorted. Used by diagnostics and by the
// scene server to validate scene files against the client's catalog.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.types))
	for tag := range r.types {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
