package component

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rio-labs/rioterm/pkg/protocol"
	"github.com/rio-labs/rioterm/pkg/rendertree"
)

// =============================================================================
// Test Harness
// =============================================================================

type recElement struct {
	x, w, y, h float64
	detached   bool
}

func (e *recElement) SetHorizontal(x, w float64) { e.x, e.w = x, w }
func (e *recElement) SetVertical(y, h float64)   { e.y, e.h = y, h }
func (e *recElement) Detach()                    { e.detached = true }
func (e *recElement) Connected() bool            { return !e.detached }

type recFactory struct {
	elems map[protocol.NodeID]*recElement
}

func (f *recFactory) NewElement(n *rendertree.Node) rendertree.Element {
	e := &recElement{}
	f.elems[n.ID()] = e
	return e
}

type recSink struct {
	events []protocol.Event
}

func (s *recSink) SendEvent(ev protocol.Event) { s.events = append(s.events, ev) }

type recFocus struct {
	current rendertree.Element
}

func (f *recFocus) FocusedElement() rendertree.Element { return f.current }
func (f *recFocus) Focus(el rendertree.Element)        { f.current = el }

type harness struct {
	graph   *rendertree.Graph
	factory *recFactory
	sink    *recSink
	focus   *recFocus
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		factory: &recFactory{elems: map[protocol.NodeID]*recElement{}},
		sink:    &recSink{},
		focus:   &recFocus{},
	}
	lib := &Library{Factory: h.factory, Events: h.sink, Focus: h.focus}
	reg := rendertree.NewRegistry()
	if err := lib.Register(reg); err != nil {
		t.Fatalf("register library: %v", err)
	}
	h.graph = rendertree.NewGraph(reg, rendertree.WithFocusAdapter(h.focus))
	return h
}

func (h *harness) apply(t *testing.T, root protocol.NodeID, deltas map[protocol.NodeID]protocol.Delta) {
	t.Helper()
	b := protocol.UpdateBatch{Deltas: deltas}
	if root != 0 {
		b = b.WithRoot(root)
	}
	if err := h.graph.ApplyBatch(b); err != nil {
		t.Fatalf("ApplyBatch: %v", err)
	}
}

func (h *harness) elem(t *testing.T, id protocol.NodeID) *recElement {
	t.Helper()
	e, ok := h.factory.elems[id]
	if !ok {
		t.Fatalf("no element recorded for node %d", id)
	}
	return e
}

// gridSurface is a rune grid for paint assertions. Styles are ignored; wide
// runes advance the pen by their display width.
type gridSurface struct {
	w, h  int
	cells [][]rune
}

func newGridSurface(w, h int) *gridSurface {
	cells := make([][]rune, h)
	for y := range cells {
		row := make([]rune, w)
		for x := range row {
			row[x] = ' '
		}
		cells[y] = row
	}
	return &gridSurface{w: w, h: h, cells: cells}
}

func (s *gridSurface) Bounds() (int, int) { return s.w, s.h }

func (s *gridSurface) WriteText(x, y int, str string, _ lipgloss.Style) {
	if y < 0 || y >= s.h {
		return
	}
	for _, r := range str {
		if x >= 0 && x < s.w {
			s.cells[y][x] = r
		}
		x += runewidth.RuneWidth(r)
	}
}

func (s *gridSurface) Fill(r rune, _ lipgloss.Style) {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = r
		}
	}
}

func (s *gridSurface) String() string {
	lines := make([]string, s.h)
	for y, row := range s.cells {
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// Library
// =============================================================================

func TestRegisterWiresAllTags(t *testing.T) {
	lib := &Library{}
	reg := rendertree.NewRegistry()
	if err := lib.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}

	want := []string{TagBox, TagButton, TagColumn, TagInput, TagOverlay, TagRow, TagSpacer, TagText}
	got := reg.Tags()
	if len(got) != len(want) {
		t.Fatalf("tags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tags = %v, want %v", got, want)
		}
	}
}

func TestRegisterTwiceFails(t *testing.T) {
	lib := &Library{}
	reg := rendertree.NewRegistry()
	if err := lib.Register(reg); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := lib.Register(reg); err == nil {
		t.Fatal("second Register succeeded, want duplicate-tag error")
	}
}

func TestZeroLibraryRunsHeadless(t *testing.T) {
	lib := &Library{}
	reg := rendertree.NewRegistry()
	if err := lib.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	g := rendertree.NewGraph(reg)

	err := g.ApplyBatch(protocol.UpdateBatch{Deltas: map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": TagColumn, "children": []any{2.0}},
		2: {"typeTag": TagButton, "label": "ok"},
	}}.WithRoot(1))
	if err != nil {
		t.Fatalf("ApplyBatch: %v", err)
	}
	if g.Node(2).Element() == nil {
		t.Fatal("null factory produced no element")
	}
	if !g.Node(2).Element().Connected() {
		t.Fatal("fresh null element reports disconnected")
	}
}
