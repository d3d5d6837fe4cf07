package layout

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rio-labs/rioterm/pkg/observability"
	"github.com/rio-labs/rioterm/pkg/rendertree"
)

// Viewport is the drawable area the host grants the root trees, in cells.
type Viewport struct {
	Width  float64
	Height float64
}

// PassStats counts the component hook calls one pass performed. A pass over
// a clean graph reports zeros.
type PassStats struct {
	// Measures counts natural-size hook calls, both axes.
	Measures int

	// Allocations counts allocation hook calls, both axes.
	Allocations int
}

// =============================================================================
// Engine
// =============================================================================

// Engine runs single four-phase layout passes over a graph. It owns no
// scheduling; see [Scheduler] for the fixed-point loop.
type Engine struct {
	graph  *rendertree.Graph
	logger *log.Logger
	stats  PassStats
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger routes the engine's diagnostics to l.
func WithLogger(l *log.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine returns an engine for g.
func NewEngine(g *rendertree.Graph, opts ...EngineOption) *Engine {
	e := &Engine{graph: g, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph returns the graph the engine lays out.
func (e *Engine) Graph() *rendertree.Graph { return e.graph }

// Pass runs one full four-phase pass over every root tree (the designated
// root plus overlay roots). Both width phases complete for all trees before
// any height phase starts. Roots receive the viewport as their allocated
// size; everything below flows through the normal algorithm. Dirty flags are
// cleared at the very end.
func (e *Engine) Pass(vp Viewport) PassStats {
	start := time.Now()
	e.stats = PassStats{}
	roots := e.graph.Roots()

	for _, root := range roots {
		if !root.LayoutDirty {
			continue
		}
		e.naturalWidth(root)
		root.AllocatedWidth = max(vp.Width, 0)
		root.AllocatedX = 0
		e.allocateWidth(root)
		if el := root.Element(); el != nil {
			el.SetHorizontal(0, root.AllocatedWidth)
		}
	}

	for _, root := range roots {
		if !root.LayoutDirty {
			continue
		}
		e.naturalHeight(root)
		root.AllocatedHeight = max(vp.Height, 0)
		root.AllocatedY = 0
		e.allocateHeight(root)
		if el := root.Element(); el != nil {
			el.SetVertical(0, root.AllocatedHeight)
		}
	}

	for _, root := range roots {
		clearDirty(root)
	}

	e.logger.Debug("layout pass",
		"measures", e.stats.Measures,
		"allocations", e.stats.Allocations,
		"roots", len(roots))
	observability.Layout().OnPassComplete(e.stats.Measures, e.stats.Allocations, time.Since(start))
	return e.stats
}

// =============================================================================
// Phases
// =============================================================================

// naturalWidth recurses into dirty children first, then lets the node
// compute its intrinsic width from their settled natural widths. Requested
// width is the natural width raised to any explicit override.
func (e *Engine) naturalWidth(n *rendertree.Node) {
	for _, c := range n.Children() {
		if c.LayoutDirty {
			e.naturalWidth(c)
		}
	}
	n.NaturalWidth = n.Component().NaturalWidth(n)
	e.stats.Measures++

	n.RequestedWidth = n.NaturalWidth
	if w, ok := n.ExplicitWidth(); ok && w > n.RequestedWidth {
		n.RequestedWidth = w
	}
}

// naturalHeight mirrors naturalWidth. It runs strictly after width
// allocation, so hooks may read their final AllocatedWidth.
func (e *Engine) naturalHeight(n *rendertree.Node) {
	for _, c := range n.Children() {
		if c.LayoutDirty {
			e.naturalHeight(c)
		}
	}
	n.NaturalHeight = n.Component().NaturalHeight(n)
	e.stats.Measures++

	n.RequestedHeight = n.NaturalHeight
	if h, ok := n.ExplicitHeight(); ok && h > n.RequestedHeight {
		n.RequestedHeight = h
	}
}

// allocateWidth lets the node's component distribute AllocatedWidth among
// its children, then compares each child's granted width against its
// previous value: a changed grant dirties the child even if it was clean,
// because its content must re-flow. Horizontal geometry is pushed to the
// element of every child the phase touched.
func (e *Engine) allocateWidth(n *rendertree.Node) {
	children := n.Children()
	prevW := make([]float64, len(children))
	prevX := make([]float64, len(children))
	for i, c := range children {
		prevW[i], prevX[i] = c.AllocatedWidth, c.AllocatedX
	}

	n.Component().AllocateWidth(n)
	e.stats.Allocations++

	for i, c := range children {
		if c.AllocatedWidth < 0 {
			e.logger.Warn("negative width allocation clamped",
				"node", c.ID(), "type", c.TypeTag(), "width", c.AllocatedWidth)
			c.AllocatedWidth = 0
		}
		if c.AllocatedWidth != prevW[i] {
			c.LayoutDirty = true
		}
		if c.LayoutDirty {
			e.allocateWidth(c)
		}
		if c.LayoutDirty || c.AllocatedX != prevX[i] {
			if el := c.Element(); el != nil {
				el.SetHorizontal(c.AllocatedX, c.AllocatedWidth)
			}
		}
	}
}

// allocateHeight mirrors allocateWidth on the vertical axis.
func (e *Engine) allocateHeight(n *rendertree.Node) {
	children := n.Children()
	prevH := make([]float64, len(children))
	prevY := make([]float64, len(children))
	for i, c := range children {
		prevH[i], prevY[i] = c.AllocatedHeight, c.AllocatedY
	}

	n.Component().AllocateHeight(n)
	e.stats.Allocations++

	for i, c := range children {
		if c.AllocatedHeight < 0 {
			e.logger.Warn("negative height allocation clamped",
				"node", c.ID(), "type", c.TypeTag(), "height", c.AllocatedHeight)
			c.AllocatedHeight = 0
		}
		if c.AllocatedHeight != prevH[i] {
			c.LayoutDirty = true
		}
		if c.LayoutDirty {
			e.allocateHeight(c)
		}
		if c.LayoutDirty || c.AllocatedY != prevY[i] {
			if el := c.Element(); el != nil {
				el.SetVertical(c.AllocatedY, c.AllocatedHeight)
			}
		}
	}
}

// clearDirty resets flags along dirty chains only; by the dirty invariant a
// clean node has a clean subtree.
func clearDirty(n *rendertree.Node) {
	if !n.LayoutDirty {
		return
	}
	for _, c := range n.Children() {
		clearDirty(c)
	}
	n.LayoutDirty = false
}
