package component

import (
	"testing"

	"github.com/rio-labs/rioterm/pkg/layout"
	"github.com/rio-labs/rioterm/pkg/protocol"
)

func TestBoxInsetsChild(t *testing.T) {
	h := newHarness(t)
	h.apply(t, 1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": TagBox, "child": 2.0, "padding": 1.0, "border": true},
		2: {"typeTag": TagText, "text": "hi"},
	})

	layout.NewEngine(h.graph).Pass(layout.Viewport{Width: 20, Height: 10})

	// Border and padding inset 2 cells per side.
	if e := h.elem(t, 2); e.x != 2 || e.y != 2 || e.w != 16 || e.h != 6 {
		t.Errorf("child = (%g,%g %gx%g), want (2,2 16x6)", e.x, e.y, e.w, e.h)
	}
	if nw := h.graph.Node(1).NaturalWidth; nw != 6 {
		t.Errorf("box natural width = %g, want content 2 + chrome 4", nw)
	}
}

func TestBoxTooSmallForChrome(t *testing.T) {
	h := newHarness(t)
	h.apply(t, 1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": TagBox, "child": 2.0, "padding": 5.0},
		2: {"typeTag": TagText, "text": "x"},
	})

	// The viewport cannot even hold the padding; the child is squeezed to
	// zero, never negative.
	layout.NewEngine(h.graph).Pass(layout.Viewport{Width: 4, Height: 4})

	if e := h.elem(t, 2); e.w != 0 || e.h != 0 {
		t.Errorf("squeezed child = %gx%g, want 0x0", e.w, e.h)
	}
}

func TestBoxPaintsBorder(t *testing.T) {
	h := newHarness(t)
	h.apply(t, 1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": TagBox, "border": true},
	})

	n := h.graph.Node(1)
	s := newGridSurface(5, 3)
	n.Component().(Painter).Paint(n, s)

	want := "" +
		"┌───┐\n" +
		"│   │\n" +
		"└───┘"
	if got := s.String(); got != want {
		t.Errorf("painted:\n%s\nwant:\n%s", got, want)
	}
}

func TestBorderlessBoxPaintsNothing(t *testing.T) {
	h := newHarness(t)
	h.apply(t, 1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": TagBox, "padding": 1.0},
	})

	n := h.graph.Node(1)
	s := newGridSurface(4, 2)
	n.Component().(Painter).Paint(n, s)

	if got := s.String(); got != "    \n    " {
		t.Errorf("painted %q, want blank", got)
	}
}
