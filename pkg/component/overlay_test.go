package component

import (
	"testing"

	"github.com/rio-labs/rioterm/pkg/layout"
	"github.com/rio-labs/rioterm/pkg/protocol"
)

func TestOverlayDetachedFromMainTree(t *testing.T) {
	h := newHarness(t)
	h.apply(t, 1, map[protocol.NodeID]protocol.Delta{
		1:  {"typeTag": TagRow, "children": []any{2.0}},
		2:  {"typeTag": TagText, "text": "main"},
		10: {"typeTag": TagOverlay, "content": 11.0},
		11: {"typeTag": TagText, "text": "modal"},
	})

	// Nothing references 10, yet the overlay registration keeps it and its
	// content alive.
	if got := h.graph.Len(); got != 4 {
		t.Fatalf("graph has %d nodes, want 4", got)
	}

	// Closing withdraws the exemption; the same batch sweeps the subtree.
	h.apply(t, 0, map[protocol.NodeID]protocol.Delta{
		10: {"open": false},
	})
	if got := h.graph.Len(); got != 2 {
		t.Fatalf("graph has %d nodes after close, want 2", got)
	}
	if h.graph.Node(10) != nil || h.graph.Node(11) != nil {
		t.Error("overlay subtree still present after close")
	}
}

func TestOverlayReopenRestoresRegistration(t *testing.T) {
	h := newHarness(t)
	// The main tree references the overlay, so closing it does not sweep
	// it away.
	h.apply(t, 1, map[protocol.NodeID]protocol.Delta{
		1:  {"typeTag": TagBox, "child": 10.0},
		10: {"typeTag": TagOverlay, "content": 11.0},
		11: {"typeTag": TagText, "text": "modal"},
	})
	h.apply(t, 0, map[protocol.NodeID]protocol.Delta{
		10: {"open": false},
	})
	h.apply(t, 0, map[protocol.NodeID]protocol.Delta{
		10: {"open": true},
	})

	// Reopening restored the registration, so the overlay stands on its
	// own once the main tree lets go of it.
	h.apply(t, 0, map[protocol.NodeID]protocol.Delta{
		1: {"child": nil},
	})
	if h.graph.Node(10) == nil || h.graph.Node(11) == nil {
		t.Fatal("reopened overlay swept once the main tree dropped it")
	}
}

func TestOverlayCentersContent(t *testing.T) {
	h := newHarness(t)
	h.apply(t, 1, map[protocol.NodeID]protocol.Delta{
		1:  {"typeTag": TagText, "text": "main"},
		10: {"typeTag": TagOverlay, "content": 11.0},
		11: {"typeTag": TagText, "text": "hi"},
	})

	layout.NewEngine(h.graph).Pass(layout.Viewport{Width: 20, Height: 11})

	if e := h.elem(t, 10); e.w != 20 || e.h != 11 {
		t.Fatalf("overlay = %gx%g, want the viewport", e.w, e.h)
	}
	if e := h.elem(t, 11); e.x != 9 || e.w != 2 || e.y != 5 || e.h != 1 {
		t.Errorf("content = (%g,%g %gx%g), want centered (9,5 2x1)", e.x, e.y, e.w, e.h)
	}
}

func TestOverlayGrowingContentFills(t *testing.T) {
	h := newHarness(t)
	h.apply(t, 1, map[protocol.NodeID]protocol.Delta{
		1:  {"typeTag": TagText, "text": "main"},
		10: {"typeTag": TagOverlay, "content": 11.0},
		11: {"typeTag": TagColumn, "growX": true, "growY": true},
	})

	layout.NewEngine(h.graph).Pass(layout.Viewport{Width: 20, Height: 10})

	if e := h.elem(t, 11); e.x != 0 || e.y != 0 || e.w != 20 || e.h != 10 {
		t.Errorf("growing content = (%g,%g %gx%g), want the whole overlay", e.x, e.y, e.w, e.h)
	}
}
