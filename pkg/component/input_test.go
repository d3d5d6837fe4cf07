package component

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/rio-labs/rioterm/pkg/protocol"
)

func typeRunes(t *testing.T, h *harness, id protocol.NodeID, s string) {
	t.Helper()
	n := h.graph.Node(id)
	for _, r := range s {
		if !pressKey(t, n, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}) {
			t.Fatalf("rune %q not handled", r)
		}
	}
}

func TestInputTypingEmitsChanges(t *testing.T) {
	h := newHarness(t)
	h.apply(t, 1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": TagInput, "placeholder": "name"},
	})

	typeRunes(t, h, 1, "hi")
	pressKey(t, h.graph.Node(1), tea.KeyMsg{Type: tea.KeyEnter})

	want := []protocol.Event{
		{Node: 1, Type: protocol.EventChange, Payload: map[string]any{"text": "h"}},
		{Node: 1, Type: protocol.EventChange, Payload: map[string]any{"text": "hi"}},
		{Node: 1, Type: protocol.EventSubmit, Payload: map[string]any{"text": "hi"}},
	}
	if diff := cmp.Diff(want, h.sink.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestInputEditingKeys(t *testing.T) {
	h := newHarness(t)
	h.apply(t, 1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": TagInput},
	})
	n := h.graph.Node(1)
	in := n.Component().(*inputComponent)

	typeRunes(t, h, 1, "abc")
	pressKey(t, n, tea.KeyMsg{Type: tea.KeyLeft})
	pressKey(t, n, tea.KeyMsg{Type: tea.KeyBackspace})
	if got := string(in.buf); got != "ac" {
		t.Fatalf("after backspace: %q, want %q", got, "ac")
	}

	pressKey(t, n, tea.KeyMsg{Type: tea.KeyHome})
	pressKey(t, n, tea.KeyMsg{Type: tea.KeyDelete})
	if got := string(in.buf); got != "c" {
		t.Fatalf("after delete: %q, want %q", got, "c")
	}

	pressKey(t, n, tea.KeyMsg{Type: tea.KeyEnd})
	typeRunes(t, h, 1, "z")
	if got := string(in.buf); got != "cz" {
		t.Fatalf("after append: %q, want %q", got, "cz")
	}
}

func TestInputServerUpdateOverridesBuffer(t *testing.T) {
	h := newHarness(t)
	h.apply(t, 1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": TagInput},
	})
	n := h.graph.Node(1)
	in := n.Component().(*inputComponent)

	typeRunes(t, h, 1, "local")
	h.apply(t, 0, map[protocol.NodeID]protocol.Delta{
		1: {"text": "server"},
	})

	if got := string(in.buf); got != "server" {
		t.Errorf("buffer = %q, want server text", got)
	}

	// A delta not mentioning text leaves the buffer alone.
	h.apply(t, 0, map[protocol.NodeID]protocol.Delta{
		1: {"placeholder": "type here"},
	})
	if got := string(in.buf); got != "server" {
		t.Errorf("buffer = %q after unrelated delta, want %q", got, "server")
	}
}

func TestDisabledInputIgnoresKeys(t *testing.T) {
	h := newHarness(t)
	h.apply(t, 1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": TagInput, "disabled": true},
	})
	n := h.graph.Node(1)

	if pressKey(t, n, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}) {
		t.Error("disabled input consumed a rune")
	}
	if len(h.sink.events) != 0 {
		t.Errorf("disabled input emitted %v", h.sink.events)
	}
}

func TestInputPaint(t *testing.T) {
	h := newHarness(t)
	h.apply(t, 1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": TagInput, "placeholder": "name"},
	})
	n := h.graph.Node(1)
	p := n.Component().(Painter)

	// Unfocused and empty shows the placeholder.
	s := newGridSurface(6, 1)
	p.Paint(n, s)
	if got := s.String(); got != "name  " {
		t.Errorf("painted %q, want placeholder", got)
	}

	// Focused editing shows the text with a trailing cursor.
	n.Component().(*inputComponent).GrabFocus(n)
	typeRunes(t, h, 1, "ab")
	s = newGridSurface(6, 1)
	p.Paint(n, s)
	if got := s.String(); got != "ab█   " {
		t.Errorf("painted %q, want %q", got, "ab█   ")
	}

	// Overflowing text keeps the tail and the cursor in view.
	typeRunes(t, h, 1, "cdefgh")
	s = newGridSurface(6, 1)
	p.Paint(n, s)
	if got := s.String(); got != "defgh█" {
		t.Errorf("painted %q, want %q", got, "defgh█")
	}
}
