// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about reconciliation, layout passes,
// and transport traffic.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the runtime dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, plain logs)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetReconcileHooks(&myReconcileHooks{})
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnPassComplete(measures, allocations, duration)
//	observability.Layout().OnRelayoutAnomaly(passes)
package observability

import (
	"sync"
	"time"

	"github.com/rio-labs/rioterm/pkg/protocol"
)

// =============================================================================
// Reconcile Hooks
// =============================================================================

// ReconcileHooks receives events from batch reconciliation.
type ReconcileHooks interface {
	// OnBatchApplied records a fully applied batch and its node churn.
	OnBatchApplied(created, updated, destroyed int, duration time.Duration)

	// OnDanglingReference records a declared child id that resolved to no
	// live node. Recoverable; the child is treated as absent.
	OnDanglingReference(parent, child protocol.NodeID, attr string)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout engine and scheduler.
type LayoutHooks interface {
	// OnPassComplete records one full four-phase pass.
	OnPassComplete(measures, allocations int, duration time.Duration)

	// OnRelayoutAnomaly fires when the re-layout fixed-point loop crosses
	// the configured pass threshold without settling. The loop keeps
	// running; this is the reportable-anomaly signal.
	OnRelayoutAnomaly(passes int)

	// OnLayoutSettled records a layout run reaching its fixed point.
	OnLayoutSettled(passes int, duration time.Duration)
}

// =============================================================================
// Transport Hooks
// =============================================================================

// TransportHooks receives events from the message channel.
type TransportHooks interface {
	// OnConnect records an established connection.
	OnConnect(addr string)

	// OnDisconnect records a closed connection; err is nil on clean close.
	OnDisconnect(addr string, err error)

	// OnNotification records one routed notification. Outbound reports the
	// direction from this process's point of view.
	OnNotification(method string, outbound bool)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopReconcileHooks is a no-op implementation of ReconcileHooks.
type NoopReconcileHooks struct{}

func (NoopReconcileHooks) OnBatchApplied(int, int, int, time.Duration)                  {}
func (NoopReconcileHooks) OnDanglingReference(protocol.NodeID, protocol.NodeID, string) {}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnPassComplete(int, int, time.Duration) {}
func (NoopLayoutHooks) OnRelayoutAnomaly(int)                  {}
func (NoopLayoutHooks) OnLayoutSettled(int, time.Duration)     {}

// NoopTransportHooks is a no-op implementation of TransportHooks.
type NoopTransportHooks struct{}

func (NoopTransportHooks) OnConnect(string)            {}
func (NoopTransportHooks) OnDisconnect(string, error)  {}
func (NoopTransportHooks) OnNotification(string, bool) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	reconcileHooks ReconcileHooks = NoopReconcileHooks{}
	layoutHooks    LayoutHooks    = NoopLayoutHooks{}
	transportHooks TransportHooks = NoopTransportHooks{}
	hooksMu        sync.RWMutex
)

// SetReconcileHooks registers custom reconcile hooks.
// This should be called once at application startup before any batches apply.
func SetReconcileHooks(h ReconcileHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		reconcileHooks = h
	}
}

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout runs.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetTransportHooks registers custom transport hooks.
// This should be called once at application startup before dialing.
func SetTransportHooks(h TransportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		transportHooks = h
	}
}

// Reconcile returns the registered reconcile hooks.
func Reconcile() ReconcileHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return reconcileHooks
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Transport returns the registered transport hooks.
func Transport() TransportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return transportHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	reconcileHooks = NoopReconcileHooks{}
	layoutHooks = NoopLayoutHooks{}
	transportHooks = NoopTransportHooks{}
}
