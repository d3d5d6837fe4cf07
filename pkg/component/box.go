package component

import (
	"strings"

	"github.com/rio-labs/rioterm/pkg/protocol"
	"github.com/rio-labs/rioterm/pkg/rendertree"
)

// =============================================================================
// Box
// =============================================================================

// boxComponent frames a single "child" with uniform "padding" cells and an
// optional one-cell "border". The child is inset on every side; a box too
// small for its chrome squeezes the child to zero rather than going
// negative.
type boxComponent struct {
	lib *Library
}

func bordered(n *rendertree.Node) bool {
	v, _ := n.State().Bool("border")
	return v
}

// inset is the per-side distance between the box edge and its child.
func (b *boxComponent) inset(n *rendertree.Node) float64 {
	pad, _ := n.State().Number("padding")
	pad = max(pad, 0)
	if bordered(n) {
		pad++
	}
	return pad
}

func (b *boxComponent) Mount(n *rendertree.Node) rendertree.Element { return b.lib.newElement(n) }
func (b *boxComponent) Update(*rendertree.Node, protocol.Delta)     {}
func (b *boxComponent) Unmount(*rendertree.Node)                    {}

func (b *boxComponent) NaturalWidth(n *rendertree.Node) float64 {
	var w float64
	for _, c := range n.Children() {
		w = max(w, c.RequestedWidth)
	}
	return w + 2*b.inset(n)
}

func (b *boxComponent) NaturalHeight(n *rendertree.Node) float64 {
	var h float64
	for _, c := range n.Children() {
		h = max(h, c.RequestedHeight)
	}
	return h + 2*b.inset(n)
}

func (b *boxComponent) AllocateWidth(n *rendertree.Node) {
	in := b.inset(n)
	for _, c := range n.Children() {
		c.AllocatedWidth = max(n.AllocatedWidth-2*in, 0)
		c.AllocatedX = in
	}
}

func (b *boxComponent) AllocateHeight(n *rendertree.Node) {
	in := b.inset(n)
	for _, c := range n.Children() {
		c.AllocatedHeight = max(n.AllocatedHeight-2*in, 0)
		c.AllocatedY = in
	}
}

func (b *boxComponent) Paint(n *rendertree.Node, s Surface) {
	if !bordered(n) {
		return
	}
	w, h := s.Bounds()
	if w < 2 || h < 2 {
		return
	}
	runes := b.lib.Theme.BorderRunes
	style := b.lib.Theme.Border

	s.WriteText(0, 0, runes.TopLeft+strings.Repeat(runes.Top, w-2)+runes.TopRight, style)
	for y := 1; y < h-1; y++ {
		s.WriteText(0, y, runes.Left, style)
		s.WriteText(w-1, y, runes.Right, style)
	}
	s.WriteText(0, h-1, runes.BottomLeft+strings.Repeat(runes.Bottom, w-2)+runes.BottomRight, style)
}
