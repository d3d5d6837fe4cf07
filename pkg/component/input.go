package component

import (
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/rio-labs/rioterm/pkg/protocol"
	"github.com/rio-labs/rioterm/pkg/rendertree"
)

// =============================================================================
// Input
// =============================================================================

// inputComponent is a focusable one-line text field. Editing happens against
// a local rune buffer; every edit emits a change event, enter emits a submit
// event, and a server delta mentioning "text" overwrites the buffer (the
// server stays authoritative).
type inputComponent struct {
	lib    *Library
	buf    []rune
	cursor int
}

func (i *inputComponent) Mount(n *rendertree.Node) rendertree.Element { return i.lib.newElement(n) }

func (i *inputComponent) Update(n *rendertree.Node, delta protocol.Delta) {
	if _, ok := delta["text"]; !ok {
		return
	}
	text, _ := n.State().String("text")
	i.buf = []rune(text)
	i.cursor = min(i.cursor, len(i.buf))
}

func (i *inputComponent) Unmount(*rendertree.Node) {}

// NaturalWidth is a flat 12 cells; a field that resized while being typed
// into would reflow the screen under the user's fingers. Servers size inputs
// with an explicit width or growX.
func (i *inputComponent) NaturalWidth(*rendertree.Node) float64  { return 12 }
func (i *inputComponent) NaturalHeight(*rendertree.Node) float64 { return 1 }
func (i *inputComponent) AllocateWidth(*rendertree.Node)         {}
func (i *inputComponent) AllocateHeight(*rendertree.Node)        {}

func (i *inputComponent) CanFocus(n *rendertree.Node) bool { return !disabled(n) }
func (i *inputComponent) GrabFocus(n *rendertree.Node)     { i.lib.grabFocus(n) }

func (i *inputComponent) HandleKey(n *rendertree.Node, msg tea.KeyMsg) bool {
	if disabled(n) {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		i.insert(msg.Runes)
	case tea.KeySpace:
		i.insert([]rune{' '})
	case tea.KeyBackspace:
		if i.cursor == 0 {
			return true
		}
		i.buf = append(i.buf[:i.cursor-1], i.buf[i.cursor:]...)
		i.cursor--
	case tea.KeyDelete:
		if i.cursor >= len(i.buf) {
			return true
		}
		i.buf = append(i.buf[:i.cursor], i.buf[i.cursor+1:]...)
	case tea.KeyLeft:
		i.cursor = max(i.cursor-1, 0)
		return true
	case tea.KeyRight:
		i.cursor = min(i.cursor+1, len(i.buf))
		return true
	case tea.KeyHome:
		i.cursor = 0
		return true
	case tea.KeyEnd:
		i.cursor = len(i.buf)
		return true
	case tea.KeyEnter:
		i.send(n, protocol.EventSubmit)
		return true
	default:
		return false
	}
	i.send(n, protocol.EventChange)
	return true
}

func (i *inputComponent) insert(runes []rune) {
	i.buf = append(i.buf[:i.cursor], append(append([]rune{}, runes...), i.buf[i.cursor:]...)...)
	i.cursor += len(runes)
}

func (i *inputComponent) send(n *rendertree.Node, typ string) {
	i.lib.Events.SendEvent(protocol.Event{
		Node:    n.ID(),
		Type:    typ,
		Payload: map[string]any{"text": string(i.buf)},
	})
}

func (i *inputComponent) Paint(n *rendertree.Node, s Surface) {
	w, _ := s.Bounds()
	if w <= 0 {
		return
	}
	focused := i.lib.focused(n)
	text := string(i.buf)

	if text == "" && !focused {
		placeholder, _ := n.State().String("placeholder")
		s.WriteText(0, 0, runewidth.Truncate(placeholder, w, ""), i.lib.Theme.Muted)
		return
	}

	style := i.lib.Theme.Input
	if focused {
		style = i.lib.Theme.InputFocused
	}

	// Show the tail so the cursor, which lives near the end while typing,
	// stays in view; its cell is reserved while focused.
	avail := w
	if focused {
		avail--
	}
	vis := text
	for runewidth.StringWidth(vis) > avail && vis != "" {
		_, size := utf8.DecodeRuneInString(vis)
		vis = vis[size:]
	}
	s.WriteText(0, 0, vis, style)

	if focused {
		cx := min(runewidth.StringWidth(string(i.buf[:i.cursor])), w-1)
		s.WriteText(cx, 0, "█", i.lib.Theme.InputFocused)
	}
}
