// Package protocol defines the wire types exchanged between a UI server and
// the terminal client runtime.
//
// The protocol is JSON over a persistent bidirectional channel. The server
// drives the UI by sending update batches; the client reports user input and
// viewport changes back. Framing and routing live in pkg/transport; this
// package only defines the payload shapes and the JSON-RPC method names.
//
// # Update Batches
//
// An [UpdateBatch] maps node ids to partial state objects (deltas) and may
// designate a new root:
//
//	{
//	  "deltaStates": {
//	    "1": {"typeTag": "column", "children": [2, 3]},
//	    "2": {"typeTag": "text", "text": "hello"},
//	    "3": {"typeTag": "button", "label": "ok"}
//	  },
//	  "rootId": 1
//	}
//
// A delta names only the attributes that changed. An attribute absent from
// the delta is unchanged; an attribute set to JSON null is explicitly cleared
// (stored as Go nil). The reserved key "typeTag" identifies the component
// type and is mandatory the first time an id appears.
//
// # Upstream Messages
//
//   - [Event]: user interaction on a node (button press, text input).
//   - [Viewport]: the client's current drawable area in terminal cells.
//   - [HelloRequest]/[HelloResult]: session handshake and scene selection.
//
// # Value Coercion
//
// encoding/json decodes all numbers to float64 and all arrays to []any.
// The accessor helpers ([Number], [Bool], [String], [ChildIDs]) normalize
// those shapes so consumers never switch on raw JSON types.
package protocol
