package host

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/rio-labs/rioterm/pkg/component"
	"github.com/rio-labs/rioterm/pkg/layout"
	"github.com/rio-labs/rioterm/pkg/protocol"
	"github.com/rio-labs/rioterm/pkg/rendertree"
)

// Upstream is the client→server half the host drives: user events from
// controls and viewport reports on resize. The transport client implements
// it; replay and snapshot runs use [Discard].
type Upstream interface {
	component.Sink

	// SendViewport reports the drawable area to the server.
	SendViewport(vp protocol.Viewport)
}

// Discard is an Upstream with no server behind it.
type Discard struct{}

func (Discard) SendEvent(protocol.Event)       {}
func (Discard) SendViewport(protocol.Viewport) {}

// =============================================================================
// Options
// =============================================================================

// Options configures a Host.
type Options struct {
	// Upstream receives events and viewport reports. Defaults to Discard.
	Upstream Upstream

	// Theme styles the built-in set. Zero value means the stock theme.
	Theme component.Theme

	// AnomalyThreshold is the re-layout pass count that trips the anomaly
	// hook. Zero means the scheduler default.
	AnomalyThreshold int

	// Logger receives host diagnostics. Defaults to a silent logger.
	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks fields and applies defaults. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.AnomalyThreshold < 0 {
		return fmt.Errorf("anomaly threshold must be >= 0, got %d", o.AnomalyThreshold)
	}
	if o.Upstream == nil {
		o.Upstream = Discard{}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.validated = true
	return nil
}

// =============================================================================
// Host
// =============================================================================

// Host owns one session's client state: the graph, the layout scheduler,
// and the focus manager. All methods must be called from one goroutine; the
// bubbletea update loop provides exactly that.
type Host struct {
	graph  *rendertree.Graph
	sched  *layout.Scheduler
	focus  *FocusManager
	up     Upstream
	logger *log.Logger

	// lastErr is the most recent rejected batch, surfaced in the frame.
	lastErr error
	sized   bool
}

// New builds a fully wired host: registry with the built-in set, graph,
// engine, scheduler, focus manager.
func New(opts Options) (*Host, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("host options: %w", err)
	}

	focus := NewFocusManager()
	lib := &component.Library{
		Factory: Elements(),
		Focus:   focus,
		Events:  opts.Upstream,
		Theme:   opts.Theme,
		Logger:  opts.Logger,
	}
	reg := rendertree.NewRegistry()
	if err := lib.Register(reg); err != nil {
		return nil, fmt.Errorf("register components: %w", err)
	}

	graph := rendertree.NewGraph(reg,
		rendertree.WithLogger(opts.Logger),
		rendertree.WithFocusAdapter(focus),
	)
	focus.SetGraph(graph)

	engine := layout.NewEngine(graph, layout.WithLogger(opts.Logger))
	schedOpts := []layout.SchedulerOption{layout.WithSchedulerLogger(opts.Logger)}
	if opts.AnomalyThreshold > 0 {
		schedOpts = append(schedOpts, layout.WithThreshold(opts.AnomalyThreshold))
	}

	return &Host{
		graph:  graph,
		sched:  layout.NewScheduler(engine, schedOpts...),
		focus:  focus,
		up:     opts.Upstream,
		logger: opts.Logger,
	}, nil
}

// Graph exposes the session graph, mainly to tests and debug tooling.
func (h *Host) Graph() *rendertree.Graph { return h.graph }

// Focus exposes the focus manager.
func (h *Host) Focus() *FocusManager { return h.focus }

// Apply runs one batch through the reconciler. A rejected batch keeps the
// previous committed state on screen and is surfaced in the frame until a
// good batch arrives.
func (h *Host) Apply(b protocol.UpdateBatch) {
	if err := h.graph.ApplyBatch(b); err != nil {
		h.logger.Error("batch rejected", "err", err)
		h.lastErr = err
		return
	}
	h.lastErr = nil
}

// Resize moves the viewport and tells the server.
func (h *Host) Resize(width, height int) {
	vp := protocol.Viewport{Width: float64(width), Height: float64(height)}
	h.sched.SetViewport(layout.Viewport{Width: vp.Width, Height: vp.Height})
	h.sized = true
	h.up.SendViewport(vp)
}

// settle runs layout to its fixed point if anything is dirty. Called at the
// end of every update that might have changed geometry inputs.
func (h *Host) settle() {
	if h.sized && h.sched.NeedsPass() {
		h.sched.Settle()
	}
}

// paint composes the committed geometry into one frame.
func (h *Host) paint() string {
	vp := h.sched.Viewport()
	w, hgt := snap(vp.Width), snap(vp.Height)
	if !h.sized || w <= 0 || hgt <= 0 {
		return ""
	}

	c := newCanvas(w, hgt)
	for _, root := range h.graph.Roots() {
		h.paintNode(c, root, 0, 0)
	}
	if h.lastErr != nil {
		c.region(0, float64(hgt-1), float64(w), 1).
			WriteText(0, 0, fmt.Sprintf("protocol error: %v", h.lastErr), errStyle)
	}
	return c.String()
}

// paintNode draws n and then its children, each at its absolute position.
func (h *Host) paintNode(c *canvas, n *rendertree.Node, px, py float64) {
	x, y := px+n.AllocatedX, py+n.AllocatedY
	if p, ok := n.Component().(component.Painter); ok {
		p.Paint(n, c.region(x, y, n.AllocatedWidth, n.AllocatedHeight))
	}
	for _, child := range n.Children() {
		h.paintNode(c, child, x, y)
	}
}
