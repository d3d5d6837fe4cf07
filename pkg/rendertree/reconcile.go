package rendertree

import (
	"fmt"
	"sort"
	"time"

	"github.com/rio-labs/rioterm/pkg/observability"
	"github.com/rio-labs/rioterm/pkg/protocol"
)

// =============================================================================
// Batch Reconciliation
// =============================================================================

// ApplyBatch reconciles one server batch into the graph: creates nodes for
// unseen ids, shallow-merges deltas into existing ones, re-derives the
// reachable set from the (possibly new) root and the overlay roots, destroys
// everything that fell out, and restores keyboard focus.
//
// The whole batch is validated before anything mutates. On a protocol
// violation (a sentinel from this package, wrapped with the offending id)
// the graph is left exactly as it was. Recoverable conditions, such as child
// ids that resolve to no live node, are logged and do not fail the batch.
//
// Layout is not run here. Nodes whose state or child list changed are marked
// dirty (ancestors included) and the caller schedules a pass afterwards, so
// the engine only ever sees fully applied batches.
func (g *Graph) ApplyBatch(batch protocol.UpdateBatch) error {
	start := time.Now()

	if err := g.validateBatch(batch); err != nil {
		return err
	}

	// Focus is captured before any mutation so the restore step can reason
	// about the pre-batch owner even after its node is gone.
	focused := g.focusedNode()

	var created, updated int
	for _, id := range sortedIDs(batch.Deltas) {
		delta := batch.Deltas[id]
		if n := g.nodes[id]; n != nil {
			g.updateNode(n, delta)
			updated++
		} else {
			g.createNode(id, delta)
			created++
		}
	}

	if rootID, ok := batch.Root(); ok {
		g.designateRoot(rootID)
	}

	reachable := g.walkReachable()
	destroyed := g.sweep(reachable)

	g.restoreFocus(focused)

	g.logger.Debug("batch applied",
		"deltas", len(batch.Deltas),
		"created", created,
		"updated", updated,
		"destroyed", destroyed,
		"nodes", len(g.nodes))
	observability.Reconcile().OnBatchApplied(created, updated, destroyed, time.Since(start))
	return nil
}

// validateBatch checks the type-tag contract for every delta before any
// mutation, giving ApplyBatch its all-or-nothing failure mode.
func (g *Graph) validateBatch(batch protocol.UpdateBatch) error {
	for _, id := range sortedIDs(batch.Deltas) {
		delta := batch.Deltas[id]
		raw, present := delta[protocol.KeyTypeTag]

		if n := g.nodes[id]; n != nil {
			if !present {
				continue
			}
			if tag, ok := raw.(string); !ok || tag != n.typeTag {
				return fmt.Errorf("node %d: %w: %q -> %v", id, ErrTypeTagChanged, n.typeTag, raw)
			}
			continue
		}

		tag, ok := raw.(string)
		if !present || !ok {
			return fmt.Errorf("node %d: %w", id, ErrMissingTypeTag)
		}
		if _, ok := g.reg.Lookup(tag); !ok {
			return fmt.Errorf("node %d: %w: %q", id, ErrUnknownTypeTag, tag)
		}
	}
	return nil
}

// createNode instantiates a node for a first-mention id: constructor from
// the registry, initial state from the delta, mount, then one update call
// carrying the full initial state. Only runs after validation, so the
// lookups cannot miss.
func (g *Graph) createNode(id NodeID, delta protocol.Delta) *Node {
	tag, _ := delta.TypeTag()
	ct, _ := g.reg.Lookup(tag)

	attrs := delta.Attrs()
	n := &Node{
		id:      id,
		typeTag: tag,
		ctype:   ct,
		state:   make(State, len(attrs)),
		comp:    ct.New(),
		graph:   g,
		alive:   true,
	}
	for k, v := range attrs {
		n.state[k] = v
	}
	n.elem = n.comp.Mount(n)

	g.nodes[id] = n
	if n.elem != nil {
		g.byElem[n.elem] = n
	}
	n.MarkDirty()
	n.comp.Update(n, attrs)
	return n
}

// updateNode shallow-merges a delta into an existing node and invokes the
// update hook with the mentioned attributes. A delta that changes nothing
// still reaches the hook but does not dirty layout.
func (g *Graph) updateNode(n *Node, delta protocol.Delta) {
	attrs := delta.Attrs()
	if changed := n.state.merge(attrs); len(changed) > 0 {
		n.MarkDirty()
	}
	n.comp.Update(n, attrs)
}

// designateRoot switches the root to id. An id that names no live node is a
// recoverable server bug: honoring it would sweep the whole graph away, so
// it is logged and the previous root kept.
func (g *Graph) designateRoot(id NodeID) {
	n := g.nodes[id]
	if n == nil {
		g.logger.Error("batch designates unknown root, keeping previous", "root", id)
		return
	}
	if g.root == n {
		return
	}
	g.root = n
	n.parent = nil
	n.MarkDirty()
}

// =============================================================================
// Reachability
// =============================================================================

// walkReachable recomputes the reachable set: the designated root, every
// declared descendant of a reachable node, and the registered overlay roots
// with their descendants. Parent back-references are (re)assigned during the
// walk; a node reachable through two paths keeps the first parent found.
func (g *Graph) walkReachable() map[NodeID]bool {
	reachable := make(map[NodeID]bool, len(g.nodes))

	var walk func(n *Node)
	walk = func(n *Node) {
		if reachable[n.id] {
			return
		}
		reachable[n.id] = true
		for _, attr := range n.ctype.ChildAttrs {
			for _, id := range protocol.ChildIDs(n.state[attr]) {
				child := g.nodes[id]
				if child == nil {
					g.logger.Warn("dangling child reference",
						"parent", n.id, "attr", attr, "child", id)
					observability.Reconcile().OnDanglingReference(n.id, id, attr)
					continue
				}
				if !reachable[id] {
					child.parent = n
					// A child created (or reparented) this batch was
					// marked dirty before this parent existed; propagate
					// now that the chain is known.
					if child.LayoutDirty {
						child.MarkDirty()
					}
					walk(child)
				}
			}
		}
	}

	if g.root != nil {
		walk(g.root)
	}
	for _, n := range g.OverlayRoots() {
		walk(n)
	}
	return reachable
}

// sweep destroys every live node missing from the reachable set and returns
// how many died. Destruction order is ascending by id, which is
// deterministic and safe: the set already contains each doomed node's
// exclusive descendants, and shared descendants with a surviving path are in
// the reachable set and untouched.
func (g *Graph) sweep(reachable map[NodeID]bool) int {
	var doomed []*Node
	for id, n := range g.nodes {
		if !reachable[id] {
			doomed = append(doomed, n)
		}
	}
	sort.Slice(doomed, func(i, j int) bool { return doomed[i].id < doomed[j].id })

	for _, n := range doomed {
		g.destroyNode(n)
	}
	return len(doomed)
}

// destroyNode tears one node down: unmount hook exactly once, removal from
// both lookup tables, element detach. The parent pointer is deliberately
// kept so the focus walk can climb through destroyed nodes. Final: the id is
// forgotten and a later re-mention is a brand-new node.
func (g *Graph) destroyNode(n *Node) {
	if !n.alive {
		return
	}
	n.alive = false
	n.comp.Unmount(n)

	delete(g.nodes, n.id)
	delete(g.overlays, n.id)
	if n.elem != nil {
		delete(g.byElem, n.elem)
		n.elem.Detach()
	}
	if g.root == n {
		g.root = nil
	}
	g.logger.Debug("node destroyed", "node", n.id, "type", n.typeTag)
}

// sortedIDs returns the batch's ids in ascending order, for deterministic
// creation, validation, and logging.
func sortedIDs(deltas map[protocol.NodeID]protocol.Delta) []NodeID {
	ids := make([]NodeID, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
