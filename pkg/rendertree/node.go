package rendertree

import "github.com/rio-labs/rioterm/pkg/protocol"

// NodeID aliases protocol.NodeID so downstream packages can name ids without
// importing the wire package.
type NodeID = protocol.NodeID

// Layout-protocol state keys understood by the engine for every type.
const (
	// KeyWidth and KeyHeight are explicit per-axis size overrides. The
	// requested size of a node is the maximum of its natural size and the
	// override.
	KeyWidth  = "width"
	KeyHeight = "height"

	// KeyGrowX and KeyGrowY ask container allocation policies to hand the
	// node surplus space on the given axis.
	KeyGrowX = "growX"
	KeyGrowY = "growY"
)

// =============================================================================
// Node
// =============================================================================

// Node is one live component instance: the unit of the render graph. It pairs
// the server-assigned identity and merged state with the geometry fields the
// layout engine computes.
//
// Geometry fields are exported plainly because allocation hooks write their
// children's allocated extents and offsets directly; everything else treats
// them as read-only engine output.
type Node struct {
	id      NodeID
	typeTag string
	ctype   ComponentType
	state   State
	comp    Component
	elem    Element
	parent  *Node
	graph   *Graph
	alive   bool

	// NaturalWidth and NaturalHeight are the intrinsic content-driven sizes
	// computed by the bottom-up phases.
	NaturalWidth  float64
	NaturalHeight float64

	// RequestedWidth and RequestedHeight are what the node asks its parent
	// for: the natural size raised to any explicit override.
	RequestedWidth  float64
	RequestedHeight float64

	// AllocatedWidth and AllocatedHeight are what the parent granted; the
	// node must render within them. Never negative.
	AllocatedWidth  float64
	AllocatedHeight float64

	// AllocatedX and AllocatedY are the node's offset inside its parent,
	// assigned during the corresponding allocation phase.
	AllocatedX float64
	AllocatedY float64

	// LayoutDirty marks the node's geometry (and, on demand, its subtree's)
	// as needing recomputation in the next layout pass.
	LayoutDirty bool
}

// ID returns the server-assigned node id.
func (n *Node) ID() NodeID { return n.id }

// TypeTag returns the node's component type tag. Immutable after creation.
func (n *Node) TypeTag() string { return n.typeTag }

// State returns the node's merged state. Callers must not mutate it; state
// changes only arrive through batches.
func (n *Node) State() State { return n.state }

// Component returns the behavior implementation backing this node.
func (n *Node) Component() Component { return n.comp }

// Element returns the platform element the node renders into.
func (n *Node) Element() Element { return n.elem }

// Parent returns the node's parent as of the last reachability walk, or nil
// for roots. Destroyed nodes keep their final parent so the focus walk can
// climb through them.
func (n *Node) Parent() *Node { return n.parent }

// Graph returns the owning graph. Components use it to register overlay
// roots; they must not apply batches from hooks.
func (n *Node) Graph() *Graph { return n.graph }

// Alive reports whether the node is still registered in the graph. False
// after destruction; destroyed ids are never revived.
func (n *Node) Alive() bool { return n.alive }

// ChildIDs returns the node's declared child references in attribute order,
// including ids that do not (or no longer) resolve to live nodes.
func (n *Node) ChildIDs() []NodeID {
	var ids []NodeID
	for _, attr := range n.ctype.ChildAttrs {
		ids = append(ids, protocol.ChildIDs(n.state[attr])...)
	}
	return ids
}

// Children resolves the node's declared child references to live nodes, in
// declaration order. Dangling references are skipped; the reconciler already
// logged them when the batch was applied.
func (n *Node) Children() []*Node {
	ids := n.ChildIDs()
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		if c := n.graph.Node(id); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// MarkDirty flags the node and its ancestor chain for recomputation. Marking
// stops at the first already-dirty ancestor: a dirty node's chain above is
// dirty by construction.
func (n *Node) MarkDirty() {
	n.LayoutDirty = true
	for p := n.parent; p != nil && !p.LayoutDirty; p = p.parent {
		p.LayoutDirty = true
	}
}

// RequestRelayout queues fn to run after the current layout pass finishes.
// The scheduler then reruns the full pass. Components use this when a
// measurement only becomes available as a side effect of a pass (never call
// the callback synchronously from a measure hook; see pkg/layout).
func (n *Node) RequestRelayout(fn func()) {
	n.graph.enqueueRelayout(fn)
}

// =============================================================================
// Layout-Protocol Accessors
// =============================================================================

// ExplicitWidth returns the node's width override, if one is set.
func (n *Node) ExplicitWidth() (float64, bool) { return n.state.Number(KeyWidth) }

// ExplicitHeight returns the node's height override, if one is set.
func (n *Node) ExplicitHeight() (float64, bool) { return n.state.Number(KeyHeight) }

// GrowX reports whether the node asks for surplus horizontal space.
func (n *Node) GrowX() bool {
	b, _ := n.state.Bool(KeyGrowX)
	return b
}

// GrowY reports whether the node asks for surplus vertical space.
func (n *Node) GrowY() bool {
	b, _ := n.state.Bool(KeyGrowY)
	return b
}
