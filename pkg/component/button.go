package component

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/rio-labs/rioterm/pkg/protocol"
	"github.com/rio-labs/rioterm/pkg/rendertree"
)

// =============================================================================
// Button
// =============================================================================

// buttonComponent is a focusable one-line control rendered as "[ label ]".
// Enter or space emits a press event; a "disabled" button declines focus and
// swallows nothing.
type buttonComponent struct {
	lib *Library
}

func (b *buttonComponent) label(n *rendertree.Node) string {
	s, _ := n.State().String("label")
	return s
}

func (b *buttonComponent) Mount(n *rendertree.Node) rendertree.Element { return b.lib.newElement(n) }
func (b *buttonComponent) Update(*rendertree.Node, protocol.Delta)     {}
func (b *buttonComponent) Unmount(*rendertree.Node)                    {}

func (b *buttonComponent) NaturalWidth(n *rendertree.Node) float64 {
	return float64(runewidth.StringWidth(b.label(n)) + 4)
}

func (b *buttonComponent) NaturalHeight(*rendertree.Node) float64 { return 1 }
func (b *buttonComponent) AllocateWidth(*rendertree.Node)         {}
func (b *buttonComponent) AllocateHeight(*rendertree.Node)        {}

func (b *buttonComponent) CanFocus(n *rendertree.Node) bool { return !disabled(n) }
func (b *buttonComponent) GrabFocus(n *rendertree.Node)     { b.lib.grabFocus(n) }

func (b *buttonComponent) HandleKey(n *rendertree.Node, msg tea.KeyMsg) bool {
	if disabled(n) {
		return false
	}
	switch msg.Type {
	case tea.KeyEnter, tea.KeySpace:
		b.lib.Events.SendEvent(protocol.Event{Node: n.ID(), Type: protocol.EventPress})
		return true
	}
	return false
}

func (b *buttonComponent) Paint(n *rendertree.Node, s Surface) {
	style := b.lib.Theme.Button
	switch {
	case disabled(n):
		style = b.lib.Theme.ButtonDisabled
	case b.lib.focused(n):
		style = b.lib.Theme.ButtonFocused
	}
	w, _ := s.Bounds()
	s.WriteText(0, 0, runewidth.Truncate("[ "+b.label(n)+" ]", w, ""), style)
}
