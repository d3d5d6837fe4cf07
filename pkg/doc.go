// Package pkg provides the core libraries for the rioterm client runtime.
//
// # Overview
//
// Rioterm is the terminal half of a server-driven UI framework: a scene
// server owns application state and ships declarative component trees over a
// persistent JSON-RPC channel; the client reconciles them into a render tree,
// lays it out incrementally, and draws it with bubbletea. The pkg directory
// is organized into four main areas:
//
//  1. Wire format and reconciliation ([protocol], [rendertree])
//  2. Layout ([layout])
//  3. Terminal host and components ([host], [component])
//  4. Transport and server-side plumbing ([transport], [scene], [session])
//
// # Architecture
//
// The typical data flow through a session:
//
//	Scene server ([scene])
//	         ↓ UpdateBatch over JSON-RPC ([transport], [protocol])
//	    [rendertree] package (validate, reconcile, sweep)
//	         ↓
//	    [layout] package (four-phase constraint solve)
//	         ↓
//	    [host] + [component] packages (bubbletea render)
//	         ↓ events, viewport reports
//	Scene server
//
// # Quick Start
//
// Connect to a server and render its UI:
//
//	import (
//	    "context"
//	    "github.com/rio-labs/rioterm/pkg/host"
//	    "github.com/rio-labs/rioterm/pkg/transport"
//	)
//
//	client, _ := transport.Dial(ctx, "localhost:7333", transport.ClientOptions{})
//	h, _ := host.New(host.Options{Upstream: client})
//	program := host.NewProgram(h)
//	program.Run()
//
// # Main Packages
//
// ## Wire Format and Reconciliation
//
// [protocol] - The wire types: node IDs, attribute deltas, update batches,
// events, and viewport reports, plus the attribute accessors shared by every
// layer above.
//
// [rendertree] - The client-side tree: a registry of component factories and
// a graph that applies update batches transactionally, sweeps unreachable
// nodes, and hands focus off when the focused node disappears.
//
// ## Layout
//
// [layout] - Four-phase constraint layout (natural width, width allocation,
// natural height, height allocation) with per-node dirty tracking and a
// scheduler that re-runs passes to a fixed point.
//
// ## Terminal Host
//
// [host] - The bubbletea program: routes key and resize messages, owns the
// focus ring, and paints the settled tree each frame.
//
// [component] - The built-in component set (row, column, text, box, spacer,
// button, input, overlay) styled with lipgloss.
//
// ## Transport and Server
//
// [transport] - JSON-RPC 2.0 client and server over TCP with plain-object
// framing.
//
// [scene] - Declarative scene definitions (YAML/JSON), scripted behaviors,
// and the demo scene server with its HTTP inspection API.
//
// [session] - Session bookkeeping with memory and Redis backends.
//
// ## Tooling
//
// [recorder] - Append-only session recordings in a bbolt file, replayable by
// the CLI.
//
// [snapshot] - Headless replay of a recording into a settled render tree,
// exportable as JSON or a Graphviz diagram.
//
// [config] - TOML configuration from the XDG config directory.
//
// [observability] - Process-wide hooks for batch, layout, and transport
// diagnostics.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//	go test -tags integration ./pkg/...  # Include integration tests
//
// [protocol]: https://pkg.go.dev/github.com/rio-labs/rioterm/pkg/protocol
// [rendertree]: https://pkg.go.dev/github.com/rio-labs/rioterm/pkg/rendertree
// [layout]: https://pkg.go.dev/github.com/rio-labs/rioterm/pkg/layout
// [host]: https://pkg.go.dev/github.com/rio-labs/rioterm/pkg/host
// [component]: https://pkg.go.dev/github.com/rio-labs/rioterm/pkg/component
// [transport]: https://pkg.go.dev/github.com/rio-labs/rioterm/pkg/transport
// [scene]: https://pkg.go.dev/github.com/rio-labs/rioterm/pkg/scene
// [session]: https://pkg.go.dev/github.com/rio-labs/rioterm/pkg/session
// [recorder]: https://pkg.go.dev/github.com/rio-labs/rioterm/pkg/recorder
// [snapshot]: https://pkg.go.dev/github.com/rio-labs/rioterm/pkg/snapshot
// [config]: https://pkg.go.dev/github.com/rio-labs/rioterm/pkg/config
// [observability]: https://pkg.go.dev/github.com/rio-labs/rioterm/pkg/observability
package pkg
