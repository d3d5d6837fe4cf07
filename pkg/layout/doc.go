// Package layout computes sizes and positions for a render graph.
//
// The algorithm is two axes times two directions, in a strict order:
//
//  1. Natural width, bottom-up: every dirty node computes its intrinsic
//     width from its children's already-computed natural widths.
//  2. Width allocation, top-down: every dirty node distributes its granted
//     width among its children; a child whose granted width changed value is
//     marked dirty and recursed into, and horizontal geometry is written to
//     the platform elements.
//  3. Natural height, bottom-up.
//  4. Height allocation, top-down.
//
// All width work for every tree finishes before any height work starts:
// height may depend on final allocated width (wrapping text), width never
// depends on height. Root sizes come from the host viewport, not from
// content. Clean nodes are never recursed into, so a pass over a clean tree
// does no work at all. Dirty flags are cleared only once, after the final
// phase.
//
// # Re-layout Requests
//
// A node may request an entire extra pass as a side effect of any phase
// ([rendertree.Node.RequestRelayout]), typically because a measurement only
// became available mid-pass. Requests are queued callbacks, drained by the
// [Scheduler] strictly after the pass finishes, never invoked from inside a
// traversal. [Scheduler.Settle] reruns full passes until one completes with
// no requests.
//
// There is deliberately no iteration cap on that loop: capping would turn a
// component bug into a silently wrong layout. A component whose callback
// marks nodes dirty on every pass will keep the loop running forever; the
// scheduler logs a warning and fires the anomaly hook once the pass count
// crosses a configurable threshold, which is the signal to go find that
// component.
//
// # Usage
//
//	engine := layout.NewEngine(graph, layout.WithLogger(logger))
//	sched := layout.NewScheduler(engine, layout.WithThreshold(10))
//	sched.SetViewport(layout.Viewport{Width: 80, Height: 24})
//	sched.Settle()
package layout
