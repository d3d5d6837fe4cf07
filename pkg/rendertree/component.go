package rendertree

import "github.com/rio-labs/rioterm/pkg/protocol"

// =============================================================================
// Component Capability Interface
// =============================================================================

// Component is the capability interface implemented by every concrete
// component type. The reconciler and the layout engine dispatch exclusively
// through it; neither ever depends on a concrete type.
//
// All hooks run on the session's event loop. They must not apply batches or
// mutate other nodes' state; allocation hooks may write geometry fields of
// the node's direct children, which is how size flows down the tree.
type Component interface {
	// Mount is called exactly once, after the node's initial state is set
	// and before its first update. It returns the platform element the node
	// renders into.
	Mount(n *Node) Element

	// Update is called on every state merge with the attributes that were
	// mentioned in the delta (the reserved type tag key is stripped). On
	// creation it carries the full initial state. Merged state is readable
	// through n.State() during the call.
	Update(n *Node, delta protocol.Delta)

	// Unmount is called exactly once when the node is destroyed, before the
	// element is detached. Components release timers and subscriptions here.
	Unmount(n *Node)

	// NaturalWidth computes the node's intrinsic width from its content and
	// its children's already-computed natural widths.
	NaturalWidth(n *Node) float64

	// NaturalHeight computes the node's intrinsic height. It runs after
	// width allocation, so n.AllocatedWidth is final and may be read (text
	// wrapping depends on it).
	NaturalHeight(n *Node) float64

	// AllocateWidth distributes n.AllocatedWidth among the node's children
	// by setting each child's AllocatedWidth and AllocatedX.
	AllocateWidth(n *Node)

	// AllocateHeight distributes n.AllocatedHeight among the node's children
	// by setting each child's AllocatedHeight and AllocatedY.
	AllocateHeight(n *Node)
}

// FocusableComponent marks a component type that can hold keyboard focus.
// The reconciler consults it when the focused node is destroyed and focus
// must move to the nearest live ancestor that accepts it.
type FocusableComponent interface {
	Component

	// CanFocus reports whether this node currently accepts focus (a disabled
	// input may decline).
	CanFocus(n *Node) bool

	// GrabFocus moves keyboard focus to this node.
	GrabFocus(n *Node)
}

// =============================================================================
// Platform Element
// =============================================================================

// Element is the platform-side object a node renders into. The terminal host
// backs it with a screen region; tests and the headless snapshot tool use a
// null implementation.
//
// Geometry setters are split per axis because the layout engine finalizes
// all horizontal geometry before any vertical geometry exists.
type Element interface {
	// SetHorizontal places the element's left edge and width, in cells,
	// relative to its parent element.
	SetHorizontal(x, width float64)

	// SetVertical places the element's top edge and height.
	SetVertical(y, height float64)

	// Detach disconnects the element from the live tree. Called once, at
	// node destruction.
	Detach()

	// Connected reports whether the element is still part of the live tree.
	// The focus walk uses it to decide whether focus survived a batch.
	Connected() bool
}

// FocusAdapter is the input-side collaborator the graph queries before every
// batch to learn which element currently holds keyboard focus. A nil adapter
// means focus preservation is disabled (headless runs).
type FocusAdapter interface {
	// FocusedElement returns the element owning keyboard focus, or nil.
	FocusedElement() Element
}
