package protocol

import "math"

// =============================================================================
// Attribute Value Coercion
// =============================================================================

// Number extracts a numeric attribute value. It accepts the float64 produced
// by encoding/json as well as the integer kinds produced by Go-side batch
// construction.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case NodeID:
		return float64(n), true
	default:
		return 0, false
	}
}

// Bool extracts a boolean attribute value.
func Bool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// String extracts a string attribute value.
func String(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// ChildIDs interprets an attribute value as child node references: either a
// single id or an ordered list of ids. Values that cannot be read as integral
// ids are skipped; a nil or unrecognized value yields no children. Whether a
// returned id names a live node is for the caller to decide.
func ChildIDs(v any) []NodeID {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		ids := make([]NodeID, 0, len(val))
		for _, item := range val {
			if id, ok := childID(item); ok {
				ids = append(ids, id)
			}
		}
		return ids
	case []NodeID:
		ids := make([]NodeID, len(val))
		copy(ids, val)
		return ids
	default:
		if id, ok := childID(v); ok {
			return []NodeID{id}
		}
		return nil
	}
}

// childID reads one id value. Floats must be integral: ids travel as JSON
// numbers and a fractional id is garbage, not a truncation candidate.
func childID(v any) (NodeID, bool) {
	switch n := v.(type) {
	case NodeID:
		return n, true
	case int:
		return NodeID(n), true
	case int64:
		return NodeID(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return NodeID(n), true
	default:
		return 0, false
	}
}
