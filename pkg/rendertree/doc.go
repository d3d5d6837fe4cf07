// Package rendertree maintains the client-side component graph of a
// server-driven UI session.
//
// The server owns the UI: it assigns every component an integer id and ships
// partial state updates in batches. This package turns that stream into a
// live, identity-stable graph of [Node] values, handling creation, shallow
// state merging, reachability-based destruction, and keyboard focus
// preservation across mutations.
//
// # Core Types
//
//   - [Graph]: owns the id and element lookup tables, the root designation,
//     and overlay-root exemptions. One Graph per session.
//   - [Node]: one component instance; carries merged state, geometry fields,
//     and the dirty flag read by pkg/layout.
//   - [Registry]: maps a type tag to its [ComponentType] (constructor plus
//     the attribute names that hold child references).
//   - [Component]: the capability interface every concrete type implements.
//
// # Reconciliation
//
// [Graph.ApplyBatch] is the single entry point. It validates the whole batch
// before touching the graph (unknown or changed type tags abort with no
// mutation), then creates and updates nodes, recomputes reachability from the
// root and overlay roots, destroys everything else, and finally restores
// focus:
//
//	g := rendertree.NewGraph(reg, rendertree.WithLogger(logger))
//	if err := g.ApplyBatch(batch); err != nil {
//	    // protocol violation; the graph is unchanged
//	}
//
// # Ownership
//
// Nodes are owned by the Graph's id table. A node's parent link is a plain
// back-reference used for the focus walk and upward dirty marking; child
// links are derived on demand from state attributes, so removing an id from
// a parent's child list is an ordinary state update.
//
// # Concurrency
//
// A Graph is not safe for concurrent use. The runtime applies batches from a
// single event loop; see pkg/host.
package rendertree
