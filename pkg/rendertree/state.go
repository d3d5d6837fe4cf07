package rendertree

import (
	"reflect"
	"sort"

	"github.com/rio-labs/rioterm/pkg/protocol"
)

// State is a node's last-known-complete configuration: every attribute the
// server has ever sent for the node, with later deltas shallowly merged over
// earlier ones. A nil value is a real value (explicit JSON null), distinct
// from an absent key.
type State map[string]any

// merge applies a delta (shallow, delta wins per key) and returns the keys
// whose values actually changed, sorted. Re-sending an attribute with its
// current value is not a change and does not dirty layout.
func (s State) merge(d protocol.Delta) []string {
	var changed []string
	for k, v := range d {
		if old, ok := s[k]; ok && valuesEqual(old, v) {
			continue
		}
		s[k] = v
		changed = append(changed, k)
	}
	sort.Strings(changed)
	return changed
}

// valuesEqual compares two attribute values. Values are JSON trees (scalars,
// []any, map[string]any), so deep equality is the right notion.
func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// Clone returns a shallow copy of the state map. Nested values are shared;
// callers treat them as immutable.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Number reads a numeric attribute. See [protocol.Number] for the accepted
// representations.
func (s State) Number(key string) (float64, bool) {
	return protocol.Number(s[key])
}

// Bool reads a boolean attribute.
func (s State) Bool(key string) (bool, bool) {
	return protocol.Bool(s[key])
}

// String reads a string attribute.
func (s State) String(key string) (string, bool) {
	return protocol.String(s[key])
}
