package protocol

// =============================================================================
// Method Names
// =============================================================================

// JSON-RPC method names used on the transport channel.
const (
	// MethodHello is the client→server handshake request.
	MethodHello = "session/hello"

	// MethodUpdate is the server→client notification carrying an UpdateBatch.
	MethodUpdate = "ui/update"

	// MethodEvent is the client→server notification carrying an Event.
	MethodEvent = "ui/event"

	// MethodViewport is the client→server notification carrying a Viewport.
	MethodViewport = "ui/viewport"
)

// KeyTypeTag is the reserved delta key holding a node's component type.
// It must be present the first time an id appears in a batch and, if repeated
// later, must match the original value.
const KeyTypeTag = "typeTag"

// =============================================================================
// Core Types
// =============================================================================

// NodeID identifies one render node. IDs are assigned by the server, are
// globally unique within a session, and are never reused while the node is
// alive. JSON object keys carry them as decimal strings.
type NodeID int64

// Delta is a partial state object: a sparse mapping from attribute name to
// new value. Keys absent from the delta are unchanged; a key explicitly set
// to nil clears the attribute to the null value.
type Delta map[string]any

// TypeTag returns the delta's component type tag, if present and a string.
func (d Delta) TypeTag() (string, bool) {
	tag, ok := d[KeyTypeTag].(string)
	return tag, ok
}

// Attrs returns the delta without the reserved type tag key. The returned
// map is a copy; mutating it does not affect d.
func (d Delta) Attrs() Delta {
	out := make(Delta, len(d))
	for k, v := range d {
		if k == KeyTypeTag {
			continue
		}
		out[k] = v
	}
	return out
}

// UpdateBatch is one server→client reconciliation unit: a set of deltas to
// merge, plus an optional new root designation. Batches must be applied in
// arrival order and atomically (all deltas or none).
type UpdateBatch struct {
	Deltas map[NodeID]Delta `json:"deltaStates"`
	RootID *NodeID          `json:"rootId,omitempty"`
}

// Root returns the designated root id, if the batch carries one.
func (b UpdateBatch) Root() (NodeID, bool) {
	if b.RootID == nil {
		return 0, false
	}
	return *b.RootID, true
}

// WithRoot returns a copy of b designating root as the new root.
func (b UpdateBatch) WithRoot(root NodeID) UpdateBatch {
	b.RootID = &root
	return b
}

// =============================================================================
// Upstream Types
// =============================================================================

// Event reports a user interaction on a node to the server.
type Event struct {
	Node    NodeID         `json:"nodeId"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Common event types emitted by the built-in component set.
const (
	EventPress  = "press"
	EventChange = "change"
	EventSubmit = "submit"
)

// Viewport reports the client's drawable area in terminal cells.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// HelloRequest opens a session. Scene selects a named scene; empty means the
// server default.
type HelloRequest struct {
	Scene  string `json:"scene,omitempty"`
	Client string `json:"client,omitempty"`
}

// HelloResult acknowledges a session and lists the scenes the server offers.
type HelloResult struct {
	SessionID string   `json:"sessionId"`
	Scene     string   `json:"scene"`
	Scenes    []string `json:"scenes,omitempty"`
}
