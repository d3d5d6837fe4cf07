package rendertree

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"
)

// =============================================================================
// Graph
// =============================================================================

// Graph owns one session's component graph: the id and element lookup
// tables, the current root designation, and the overlay-root set exempted
// from the reachability sweep. It starts empty and is cleared when the
// session ends; there is no process-wide graph state.
type Graph struct {
	reg      *Registry
	logger   *log.Logger
	focus    FocusAdapter
	nodes    map[NodeID]*Node
	byElem   map[Element]*Node
	root     *Node
	overlays map[NodeID]struct{}
	relayout []func()
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger routes the graph's warnings and debug output to l. The default
// logger discards everything.
func WithLogger(l *log.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithFocusAdapter wires the input collaborator used for focus preservation.
// Without one, batches apply normally and focus is never touched.
func WithFocusAdapter(fa FocusAdapter) Option {
	return func(g *Graph) { g.focus = fa }
}

// NewGraph returns an empty graph backed by reg.
func NewGraph(reg *Registry, opts ...Option) *Graph {
	g := &Graph{
		reg:      reg,
		logger:   log.New(io.Discard),
		nodes:    make(map[NodeID]*Node),
		byElem:   make(map[Element]*Node),
		overlays: make(map[NodeID]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Node returns the live node for id, or nil.
func (g *Graph) Node(id NodeID) *Node {
	return g.nodes[id]
}

// NodeForElement returns the live node owning el, or nil.
func (g *Graph) NodeForElement(el Element) *Node {
	if el == nil {
		return nil
	}
	return g.byElem[el]
}

// Root returns the designated root node, or nil before the first batch that
// names one.
func (g *Graph) Root() *Node {
	return g.root
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes returns all live nodes sorted by id, for deterministic walks.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// =============================================================================
// Overlay Roots
// =============================================================================

// RegisterOverlayRoot exempts id's subtree from the reachability sweep, so a
// modal can live detached from the main tree. The registration is a plain
// set entry; destroying the node removes it implicitly (a destroyed id can
// never be swept again) but components should unregister in their Unmount.
func (g *Graph) RegisterOverlayRoot(id NodeID) {
	g.overlays[id] = struct{}{}
}

// UnregisterOverlayRoot removes the exemption. The subtree becomes subject
// to the sweep of the batch currently being applied, or the next one.
func (g *Graph) UnregisterOverlayRoot(id NodeID) {
	delete(g.overlays, id)
}

// OverlayRoots returns the live overlay roots sorted by id.
func (g *Graph) OverlayRoots() []*Node {
	ids := make([]NodeID, 0, len(g.overlays))
	for id := range g.overlays {
		if _, ok := g.nodes[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*Node, len(ids))
	for i, id := range ids {
		out[i] = g.nodes[id]
	}
	return out
}

// Roots returns the main root (if designated) followed by the overlay roots:
// every tree the layout engine must traverse.
func (g *Graph) Roots() []*Node {
	var out []*Node
	if g.root != nil {
		out = append(out, g.root)
	}
	for _, n := range g.OverlayRoots() {
		if n != g.root {
			out = append(out, n)
		}
	}
	return out
}

// =============================================================================
// Re-layout Request Queue
// =============================================================================

// enqueueRelayout records a deferred re-layout callback. Callbacks are never
// invoked here; the scheduler drains them strictly between passes.
func (g *Graph) enqueueRelayout(fn func()) {
	if fn != nil {
		g.relayout = append(g.relayout, fn)
	}
}

// TakeRelayoutRequests returns and clears the queued re-layout callbacks.
func (g *Graph) TakeRelayoutRequests() []func() {
	reqs := g.relayout
	g.relayout = nil
	return reqs
}

// PendingRelayouts returns the number of queued re-layout callbacks without
// draining them.
func (g *Graph) PendingRelayouts() int {
	return len(g.relayout)
}

// =============================================================================
// Teardown
// =============================================================================

// Clear destroys every node and resets the graph to its initial empty state.
// Called when the transport resets; the server rebuilds the UI from scratch
// on reconnect.
func (g *Graph) Clear() {
	for _, n := range g.Nodes() {
		g.destroyNode(n)
	}
	g.root = nil
	g.nodes = make(map[NodeID]*Node)
	g.byElem = make(map[Element]*Node)
	g.overlays = make(map[NodeID]struct{})
	g.relayout = nil
}
