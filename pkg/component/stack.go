package component

import (
	"github.com/rio-labs/rioterm/pkg/protocol"
	"github.com/rio-labs/rioterm/pkg/rendertree"
)

// =============================================================================
// Row / Column
// =============================================================================

// stackComponent lays its "children" out along one axis. Every child is
// granted its requested main-axis extent; surplus splits evenly among the
// children growing on that axis; "spacing" cells separate consecutive
// children. On the cross axis a child gets its request clamped to the stack,
// or the full extent when growing.
type stackComponent struct {
	lib      *Library
	vertical bool
}

func (s *stackComponent) Mount(n *rendertree.Node) rendertree.Element { return s.lib.newElement(n) }
func (s *stackComponent) Update(*rendertree.Node, protocol.Delta)     {}
func (s *stackComponent) Unmount(*rendertree.Node)                    {}

func (s *stackComponent) spacing(n *rendertree.Node) float64 {
	v, _ := n.State().Number("spacing")
	return max(v, 0)
}

// gapTotal is the summed spacing between count children.
func (s *stackComponent) gapTotal(n *rendertree.Node, count int) float64 {
	if count < 2 {
		return 0
	}
	return s.spacing(n) * float64(count-1)
}

func (s *stackComponent) NaturalWidth(n *rendertree.Node) float64 {
	children := n.Children()
	var w float64
	if s.vertical {
		for _, c := range children {
			w = max(w, c.RequestedWidth)
		}
		return w
	}
	for _, c := range children {
		w += c.RequestedWidth
	}
	return w + s.gapTotal(n, len(children))
}

func (s *stackComponent) NaturalHeight(n *rendertree.Node) float64 {
	children := n.Children()
	var h float64
	if !s.vertical {
		for _, c := range children {
			h = max(h, c.RequestedHeight)
		}
		return h
	}
	for _, c := range children {
		h += c.RequestedHeight
	}
	return h + s.gapTotal(n, len(children))
}

func (s *stackComponent) AllocateWidth(n *rendertree.Node) {
	children := n.Children()
	if s.vertical {
		for _, c := range children {
			w := c.RequestedWidth
			if c.GrowX() || w > n.AllocatedWidth {
				w = n.AllocatedWidth
			}
			c.AllocatedWidth = w
			c.AllocatedX = 0
		}
		return
	}

	gap := s.spacing(n)
	used := s.gapTotal(n, len(children))
	growers := 0
	for _, c := range children {
		used += c.RequestedWidth
		if c.GrowX() {
			growers++
		}
	}
	var share float64
	if growers > 0 && n.AllocatedWidth > used {
		share = (n.AllocatedWidth - used) / float64(growers)
	}

	var x float64
	for _, c := range children {
		w := c.RequestedWidth
		if c.GrowX() {
			w += share
		}
		c.AllocatedWidth = w
		c.AllocatedX = x
		x += w + gap
	}
}

func (s *stackComponent) AllocateHeight(n *rendertree.Node) {
	children := n.Children()
	if !s.vertical {
		for _, c := range children {
			h := c.RequestedHeight
			if c.GrowY() || h > n.AllocatedHeight {
				h = n.AllocatedHeight
			}
			c.AllocatedHeight = h
			c.AllocatedY = 0
		}
		return
	}

	gap := s.spacing(n)
	used := s.gapTotal(n, len(children))
	growers := 0
	for _, c := range children {
		used += c.RequestedHeight
		if c.GrowY() {
			growers++
		}
	}
	var share float64
	if growers > 0 && n.AllocatedHeight > used {
		share = (n.AllocatedHeight - used) / float64(growers)
	}

	var y float64
	for _, c := range children {
		h := c.RequestedHeight
		if c.GrowY() {
			h += share
		}
		c.AllocatedHeight = h
		c.AllocatedY = y
		y += h + gap
	}
}

// =============================================================================
// Spacer
// =============================================================================

// spacerComponent occupies space and draws nothing. Servers pair it with
// growX or growY to push siblings apart.
type spacerComponent struct {
	lib *Library
}

func (s *spacerComponent) Mount(n *rendertree.Node) rendertree.Element { return s.lib.newElement(n) }
func (s *spacerComponent) Update(*rendertree.Node, protocol.Delta)     {}
func (s *spacerComponent) Unmount(*rendertree.Node)                    {}
func (s *spacerComponent) NaturalWidth(*rendertree.Node) float64       { return 0 }
func (s *spacerComponent) NaturalHeight(*rendertree.Node) float64      { return 0 }
func (s *spacerComponent) AllocateWidth(*rendertree.Node)              {}
func (s *spacerComponent) AllocateHeight(*rendertree.Node)             {}
