package rendertree

import "errors"

// Sentinel errors for protocol-level batch violations. All of them abort the
// offending batch before any graph mutation; test with [errors.Is].
var (
	// ErrUnknownTypeTag is returned when a batch creates an id whose type tag
	// has no registered [ComponentType].
	ErrUnknownTypeTag = errors.New("unknown type tag")

	// ErrTypeTagChanged is returned when a batch re-declares an existing id
	// with a different type tag. Type tags are immutable for the lifetime of
	// an id.
	ErrTypeTagChanged = errors.New("type tag changed")

	// ErrMissingTypeTag is returned when a batch mentions an unknown id
	// without declaring its type tag. Destroyed ids are forgotten, so this
	// also covers updates sent for an id after its destruction.
	ErrMissingTypeTag = errors.New("missing type tag")
)
