package rendertree

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rio-labs/rioterm/pkg/protocol"
)

// =============================================================================
// Test Fakes
// =============================================================================

type fakeElement struct {
	connected bool
	x, w      float64
	y, h      float64
}

func (e *fakeElement) SetHorizontal(x, w float64) { e.x, e.w = x, w }
func (e *fakeElement) SetVertical(y, h float64)   { e.y, e.h = y, h }
func (e *fakeElement) Detach()                    { e.connected = false }
func (e *fakeElement) Connected() bool            { return e.connected }

// fakeComponent records hook invocations. One instance backs one node, so
// tests reach the counters via node.Component().
type fakeComponent struct {
	mounts   int
	unmounts int
	updates  []protocol.Delta
}

func (f *fakeComponent) Mount(n *Node) Element {
	f.mounts++
	return &fakeElement{connected: true}
}

func (f *fakeComponent) Update(n *Node, delta protocol.Delta) {
	f.updates = append(f.updates, delta)
}

func (f *fakeComponent) Unmount(n *Node) { f.unmounts++ }

func (f *fakeComponent) NaturalWidth(n *Node) float64  { return 0 }
func (f *fakeComponent) NaturalHeight(n *Node) float64 { return 0 }
func (f *fakeComponent) AllocateWidth(n *Node)         {}
func (f *fakeComponent) AllocateHeight(n *Node)        {}

// fakeFocus is a settable FocusAdapter that records grabs.
type fakeFocus struct {
	current Element
	grabs   []NodeID
}

func (f *fakeFocus) FocusedElement() Element { return f.current }

// focusableComponent accepts focus and reports grabs to the shared adapter.
type focusableComponent struct {
	fakeComponent
	adapter  *fakeFocus
	declines bool
}

func (f *focusableComponent) CanFocus(n *Node) bool { return !f.declines }

func (f *focusableComponent) GrabFocus(n *Node) {
	f.adapter.current = n.Element()
	f.adapter.grabs = append(f.adapter.grabs, n.ID())
}

// overlayComponent registers itself as an overlay root while its "open"
// attribute is not false.
type overlayComponent struct {
	fakeComponent
}

func (o *overlayComponent) Mount(n *Node) Element {
	n.Graph().RegisterOverlayRoot(n.ID())
	return o.fakeComponent.Mount(n)
}

func (o *overlayComponent) Update(n *Node, delta protocol.Delta) {
	o.fakeComponent.Update(n, delta)
	if open, ok := n.State().Bool("open"); ok {
		if open {
			n.Graph().RegisterOverlayRoot(n.ID())
		} else {
			n.Graph().UnregisterOverlayRoot(n.ID())
		}
	}
}

func (o *overlayComponent) Unmount(n *Node) {
	n.Graph().UnregisterOverlayRoot(n.ID())
	o.fakeComponent.Unmount(n)
}

// newTestGraph wires a registry with one container type ("row", children in
// "children"), one single-child type ("box", child in "child"), one leaf
// ("text"), a focusable leaf ("input"), and an overlay ("overlay").
func newTestGraph(t *testing.T) (*Graph, *fakeFocus) {
	t.Helper()
	adapter := &fakeFocus{}

	reg := NewRegistry()
	reg.MustRegister(ComponentType{Tag: "row", ChildAttrs: []string{"children"}, New: func() Component { return &fakeComponent{} }})
	reg.MustRegister(ComponentType{Tag: "box", ChildAttrs: []string{"child"}, New: func() Component { return &fakeComponent{} }})
	reg.MustRegister(ComponentType{Tag: "text", New: func() Component { return &fakeComponent{} }})
	reg.MustRegister(ComponentType{Tag: "input", New: func() Component { return &focusableComponent{adapter: adapter} }})
	reg.MustRegister(ComponentType{Tag: "frame", ChildAttrs: []string{"child"}, New: func() Component { return &focusableComponent{adapter: adapter} }})
	reg.MustRegister(ComponentType{Tag: "overlay", ChildAttrs: []string{"content"}, New: func() Component { return &overlayComponent{} }})

	return NewGraph(reg, WithFocusAdapter(adapter)), adapter
}

func batch(deltas map[protocol.NodeID]protocol.Delta) protocol.UpdateBatch {
	return protocol.UpdateBatch{Deltas: deltas}
}

func rootedBatch(root NodeID, deltas map[protocol.NodeID]protocol.Delta) protocol.UpdateBatch {
	return batch(deltas).WithRoot(root)
}

func mustApply(t *testing.T, g *Graph, b protocol.UpdateBatch) {
	t.Helper()
	if err := g.ApplyBatch(b); err != nil {
		t.Fatalf("ApplyBatch: %v", err)
	}
}

func fake(t *testing.T, n *Node) *fakeComponent {
	t.Helper()
	switch c := n.Component().(type) {
	case *fakeComponent:
		return c
	case *focusableComponent:
		return &c.fakeComponent
	case *overlayComponent:
		return &c.fakeComponent
	default:
		t.Fatalf("node %d has unexpected component %T", n.ID(), n.Component())
		return nil
	}
}

// =============================================================================
// Creation and Merge
// =============================================================================

func TestApplyBatchCreates(t *testing.T) {
	g, _ := newTestGraph(t)

	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "row", "children": []any{2.0, 3.0}},
		2: {"typeTag": "text", "text": "hello"},
		3: {"typeTag": "text", "text": "world"},
	}))

	if g.Len() != 3 {
		t.Fatalf("len = %d, want 3", g.Len())
	}
	root := g.Root()
	if root == nil || root.ID() != 1 {
		t.Fatalf("root = %v, want node 1", root)
	}

	kids := root.Children()
	if len(kids) != 2 || kids[0].ID() != 2 || kids[1].ID() != 3 {
		t.Fatalf("children = %v, want [2 3]", kids)
	}
	for _, c := range kids {
		if c.Parent() != root {
			t.Errorf("node %d parent = %v, want root", c.ID(), c.Parent())
		}
	}

	n2 := g.Node(2)
	fc := fake(t, n2)
	if fc.mounts != 1 {
		t.Errorf("node 2 mounts = %d, want 1", fc.mounts)
	}
	if len(fc.updates) != 1 {
		t.Fatalf("node 2 updates = %d, want 1", len(fc.updates))
	}
	// Creation delivers the full initial state, type tag stripped.
	want := protocol.Delta{"text": "hello"}
	if diff := cmp.Diff(want, fc.updates[0]); diff != "" {
		t.Errorf("creation delta mismatch (-want +got):\n%s", diff)
	}
	if !n2.LayoutDirty {
		t.Error("new node not marked dirty")
	}
}

func TestApplyBatchShallowMerge(t *testing.T) {
	g, _ := newTestGraph(t)

	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "box", "child": 2.0},
		2: {"typeTag": "text", "text": "keep", "width": 10.0},
	}))

	clearDirtyForTest(g)
	mustApply(t, g, batch(map[protocol.NodeID]protocol.Delta{
		2: {"width": 20.0},
	}))

	n := g.Node(2)
	if w, _ := n.ExplicitWidth(); w != 20 {
		t.Errorf("width = %v, want 20", w)
	}
	if text, _ := n.State().String("text"); text != "keep" {
		t.Errorf("text = %q, want unchanged %q", text, "keep")
	}
	if n.TypeTag() != "text" {
		t.Errorf("typeTag = %q, want unchanged %q", n.TypeTag(), "text")
	}
	if !n.LayoutDirty {
		t.Error("changed node not marked dirty")
	}
	if !g.Node(1).LayoutDirty {
		t.Error("ancestor of changed node not marked dirty")
	}
}

func TestApplyBatchNoChangeStaysClean(t *testing.T) {
	g, _ := newTestGraph(t)

	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "text", "text": "same"},
	}))
	clearDirtyForTest(g)

	// Re-sending the current value is not a change.
	mustApply(t, g, batch(map[protocol.NodeID]protocol.Delta{
		1: {"text": "same"},
	}))

	n := g.Node(1)
	if n.LayoutDirty {
		t.Error("unchanged node marked dirty")
	}
	if got := len(fake(t, n).updates); got != 2 {
		t.Errorf("updates = %d, want 2 (hook still fires)", got)
	}
}

func TestApplyBatchExplicitNull(t *testing.T) {
	g, _ := newTestGraph(t)

	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "text", "tooltip": "hint"},
	}))
	mustApply(t, g, batch(map[protocol.NodeID]protocol.Delta{
		1: {"tooltip": nil},
	}))

	st := g.Node(1).State()
	v, present := st["tooltip"]
	if !present {
		t.Fatal("tooltip removed from state, want explicit nil")
	}
	if v != nil {
		t.Errorf("tooltip = %v, want nil", v)
	}
}

func TestApplyBatchReapplyIsIdempotent(t *testing.T) {
	g, _ := newTestGraph(t)

	create := rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "box", "child": 2.0},
		2: {"typeTag": "text", "text": "x"},
	})
	mustApply(t, g, create)
	first := g.Node(2)

	mustApply(t, g, create)

	if g.Len() != 2 {
		t.Fatalf("len = %d, want 2", g.Len())
	}
	if g.Node(2) != first {
		t.Error("re-applied creation replaced the node, want stable identity")
	}
	if fc := fake(t, first); fc.mounts != 1 {
		t.Errorf("mounts = %d, want 1", fc.mounts)
	}
}

// =============================================================================
// Protocol Violations
// =============================================================================

func TestApplyBatchUnknownTypeTag(t *testing.T) {
	g, _ := newTestGraph(t)
	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "text", "text": "before"},
	}))

	err := g.ApplyBatch(batch(map[protocol.NodeID]protocol.Delta{
		1: {"text": "after"},
		9: {"typeTag": "no-such-type"},
	}))
	if !errors.Is(err, ErrUnknownTypeTag) {
		t.Fatalf("err = %v, want ErrUnknownTypeTag", err)
	}

	// Validation precedes mutation: the valid delta must not have applied.
	if text, _ := g.Node(1).State().String("text"); text != "before" {
		t.Errorf("text = %q, want untouched %q", text, "before")
	}
	if g.Node(9) != nil {
		t.Error("node 9 created by rejected batch")
	}
}

func TestApplyBatchTypeTagChanged(t *testing.T) {
	g, _ := newTestGraph(t)
	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "text"},
	}))

	err := g.ApplyBatch(batch(map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "box"},
	}))
	if !errors.Is(err, ErrTypeTagChanged) {
		t.Fatalf("err = %v, want ErrTypeTagChanged", err)
	}
	if g.Node(1).TypeTag() != "text" {
		t.Errorf("typeTag = %q, want %q", g.Node(1).TypeTag(), "text")
	}
}

func TestApplyBatchMissingTypeTag(t *testing.T) {
	g, _ := newTestGraph(t)

	err := g.ApplyBatch(batch(map[protocol.NodeID]protocol.Delta{
		7: {"text": "orphan"},
	}))
	if !errors.Is(err, ErrMissingTypeTag) {
		t.Fatalf("err = %v, want ErrMissingTypeTag", err)
	}
	if g.Len() != 0 {
		t.Errorf("len = %d, want 0", g.Len())
	}
}

func TestApplyBatchSameTagRedeclared(t *testing.T) {
	g, _ := newTestGraph(t)
	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "text"},
	}))

	// Re-declaring the existing tag is legal; only changing it is not.
	if err := g.ApplyBatch(batch(map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "text", "text": "ok"},
	})); err != nil {
		t.Fatalf("ApplyBatch: %v", err)
	}
}

// =============================================================================
// Reachability and Destruction
// =============================================================================

func TestReachabilitySweep(t *testing.T) {
	g, _ := newTestGraph(t)

	// R(1) -> A(2), B(3); both share S(4).
	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "row", "children": []any{2.0, 3.0}},
		2: {"typeTag": "box", "child": 4.0},
		3: {"typeTag": "box", "child": 4.0},
		4: {"typeTag": "text"},
	}))

	b := g.Node(3)
	bc := fake(t, b)
	bel := b.Element().(*fakeElement)

	// Drop B from the root's child list.
	mustApply(t, g, batch(map[protocol.NodeID]protocol.Delta{
		1: {"children": []any{2.0}},
	}))

	if g.Node(3) != nil {
		t.Error("node 3 still live, want destroyed")
	}
	if b.Alive() {
		t.Error("destroyed node reports alive")
	}
	if bc.unmounts != 1 {
		t.Errorf("node 3 unmounts = %d, want 1", bc.unmounts)
	}
	if bel.Connected() {
		t.Error("destroyed node's element still connected")
	}
	// S is shared and stays reachable through A.
	if g.Node(4) == nil {
		t.Error("shared descendant destroyed, want alive")
	}
}

func TestDestructionCascade(t *testing.T) {
	g, _ := newTestGraph(t)

	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "box", "child": 2.0},
		2: {"typeTag": "box", "child": 3.0},
		3: {"typeTag": "box", "child": 4.0},
		4: {"typeTag": "text"},
	}))

	comps := map[NodeID]*fakeComponent{}
	for _, id := range []NodeID{2, 3, 4} {
		comps[id] = fake(t, g.Node(id))
	}

	mustApply(t, g, batch(map[protocol.NodeID]protocol.Delta{
		1: {"child": nil},
	}))

	if g.Len() != 1 {
		t.Fatalf("len = %d, want 1 (root only)", g.Len())
	}
	for id, fc := range comps {
		if fc.unmounts != 1 {
			t.Errorf("node %d unmounts = %d, want exactly 1", id, fc.unmounts)
		}
	}
}

func TestDestroyedIDIsNeverRevived(t *testing.T) {
	g, _ := newTestGraph(t)

	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "box", "child": 2.0},
		2: {"typeTag": "text", "text": "first life"},
	}))
	old := g.Node(2)

	mustApply(t, g, batch(map[protocol.NodeID]protocol.Delta{
		1: {"child": nil},
	}))

	// An update for the dead id without a tag is a protocol violation ...
	err := g.ApplyBatch(batch(map[protocol.NodeID]protocol.Delta{
		2: {"text": "ghost"},
	}))
	if !errors.Is(err, ErrMissingTypeTag) {
		t.Fatalf("err = %v, want ErrMissingTypeTag", err)
	}

	// ... and a full re-introduction creates a brand-new node.
	mustApply(t, g, batch(map[protocol.NodeID]protocol.Delta{
		1: {"child": 2.0},
		2: {"typeTag": "text", "text": "second life"},
	}))

	fresh := g.Node(2)
	if fresh == old {
		t.Fatal("destroyed id revived the old node, want a new one")
	}
	if fc := fake(t, fresh); fc.mounts != 1 {
		t.Errorf("fresh node mounts = %d, want 1", fc.mounts)
	}
	if old.Alive() {
		t.Error("old node reports alive after revival of its id")
	}
}

func TestDanglingChildReference(t *testing.T) {
	g, _ := newTestGraph(t)

	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "row", "children": []any{2.0, 99.0}},
		2: {"typeTag": "text"},
	}))

	kids := g.Root().Children()
	if len(kids) != 1 || kids[0].ID() != 2 {
		t.Fatalf("children = %v, want just [2]", kids)
	}
	// The declared reference is still visible to generic walkers.
	if ids := g.Root().ChildIDs(); len(ids) != 2 {
		t.Errorf("declared child ids = %v, want both", ids)
	}
}

func TestDanglingChildCreatedLaterDirtiesAncestors(t *testing.T) {
	g, _ := newTestGraph(t)

	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "row", "children": []any{2.0, 3.0}},
		2: {"typeTag": "text"},
	}))
	clearDirtyForTest(g)

	// The server fulfills the reference without touching the parent. The
	// new node's dirtiness must climb the chain assigned during the walk,
	// or no pass would ever lay it out.
	mustApply(t, g, batch(map[protocol.NodeID]protocol.Delta{
		3: {"typeTag": "text"},
	}))

	n := g.Node(3)
	if n == nil {
		t.Fatal("node 3 missing after creation")
	}
	if n.Parent() == nil || n.Parent().ID() != 1 {
		t.Fatalf("parent = %v, want node 1", n.Parent())
	}
	if !n.LayoutDirty {
		t.Error("created node not dirty")
	}
	if !g.Root().LayoutDirty {
		t.Error("ancestor chain stayed clean, created child would never be laid out")
	}
	if g.Node(2).LayoutDirty {
		t.Error("untouched sibling dirtied")
	}
}

func TestRootChangeSweepsOldTree(t *testing.T) {
	g, _ := newTestGraph(t)

	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "box", "child": 2.0},
		2: {"typeTag": "text"},
	}))

	mustApply(t, g, rootedBatch(10, map[protocol.NodeID]protocol.Delta{
		10: {"typeTag": "text", "text": "new world"},
	}))

	if g.Root() == nil || g.Root().ID() != 10 {
		t.Fatalf("root = %v, want node 10", g.Root())
	}
	if g.Node(1) != nil || g.Node(2) != nil {
		t.Error("old tree survived root change")
	}
}

func TestUnknownRootKeepsPrevious(t *testing.T) {
	g, _ := newTestGraph(t)

	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "text"},
	}))

	// A root id that names no node would sweep the whole graph; it is
	// ignored as a recoverable server bug.
	mustApply(t, g, rootedBatch(404, map[protocol.NodeID]protocol.Delta{}))

	if g.Root() == nil || g.Root().ID() != 1 {
		t.Fatalf("root = %v, want node 1 kept", g.Root())
	}
	if g.Len() != 1 {
		t.Errorf("len = %d, want 1", g.Len())
	}
}

// =============================================================================
// Overlay Roots
// =============================================================================

func TestOverlaySubtreeExemptFromSweep(t *testing.T) {
	g, _ := newTestGraph(t)

	// The overlay is not referenced by the root at all.
	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1:  {"typeTag": "text"},
		50: {"typeTag": "overlay", "open": true, "content": 51.0},
		51: {"typeTag": "text", "text": "modal"},
	}))

	if g.Node(50) == nil || g.Node(51) == nil {
		t.Fatal("overlay subtree swept, want exempt")
	}

	// Closing the overlay removes the exemption; the same batch's sweep
	// collects the subtree.
	mustApply(t, g, batch(map[protocol.NodeID]protocol.Delta{
		50: {"open": false},
	}))

	if g.Node(50) != nil || g.Node(51) != nil {
		t.Error("closed overlay survived the sweep")
	}
}

// =============================================================================
// Teardown
// =============================================================================

func TestClear(t *testing.T) {
	g, _ := newTestGraph(t)

	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "box", "child": 2.0},
		2: {"typeTag": "input"},
	}))
	fc := fake(t, g.Node(2))

	g.Clear()

	if g.Len() != 0 {
		t.Errorf("len = %d, want 0", g.Len())
	}
	if g.Root() != nil {
		t.Error("root survived Clear")
	}
	if fc.unmounts != 1 {
		t.Errorf("unmounts = %d, want 1", fc.unmounts)
	}
}

// clearDirtyForTest simulates the end of a layout pass so reconciliation
// dirt can be asserted in isolation.
func clearDirtyForTest(g *Graph) {
	for _, n := range g.Nodes() {
		n.LayoutDirty = false
	}
}
