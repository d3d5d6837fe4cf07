package component

import (
	"github.com/rio-labs/rioterm/pkg/protocol"
	"github.com/rio-labs/rioterm/pkg/rendertree"
)

// =============================================================================
// Overlay
// =============================================================================

// overlayComponent hosts a detached subtree: it registers itself as an
// overlay root on mount, so it and its "content" survive reachability sweeps
// without being referenced from the main tree. Setting "open" to false
// withdraws the registration and the very batch that carries it sweeps the
// overlay away; setting it back to true restores the registration.
//
// The overlay spans the whole viewport and centers its content at the
// content's requested size; a growing child fills the overlay instead.
type overlayComponent struct {
	lib *Library
}

func (o *overlayComponent) Mount(n *rendertree.Node) rendertree.Element {
	n.Graph().RegisterOverlayRoot(n.ID())
	return o.lib.newElement(n)
}

func (o *overlayComponent) Update(n *rendertree.Node, delta protocol.Delta) {
	if open, ok := n.State().Bool("open"); ok {
		// Registration mirrors "open" so a closed overlay that the server
		// reopens regains its sweep exemption.
		if open {
			n.Graph().RegisterOverlayRoot(n.ID())
		} else {
			n.Graph().UnregisterOverlayRoot(n.ID())
		}
	}
}

func (o *overlayComponent) Unmount(n *rendertree.Node) {
	n.Graph().UnregisterOverlayRoot(n.ID())
}

func (o *overlayComponent) NaturalWidth(n *rendertree.Node) float64 {
	var w float64
	for _, c := range n.Children() {
		w = max(w, c.RequestedWidth)
	}
	return w
}

func (o *overlayComponent) NaturalHeight(n *rendertree.Node) float64 {
	var h float64
	for _, c := range n.Children() {
		h = max(h, c.RequestedHeight)
	}
	return h
}

func (o *overlayComponent) AllocateWidth(n *rendertree.Node) {
	for _, c := range n.Children() {
		w := c.RequestedWidth
		if c.GrowX() || w > n.AllocatedWidth {
			w = n.AllocatedWidth
		}
		c.AllocatedWidth = w
		c.AllocatedX = (n.AllocatedWidth - w) / 2
	}
}

func (o *overlayComponent) AllocateHeight(n *rendertree.Node) {
	for _, c := range n.Children() {
		h := c.RequestedHeight
		if c.GrowY() || h > n.AllocatedHeight {
			h = n.AllocatedHeight
		}
		c.AllocatedHeight = h
		c.AllocatedY = (n.AllocatedHeight - h) / 2
	}
}

func (o *overlayComponent) Paint(n *rendertree.Node, s Surface) {
	s.Fill('░', o.lib.Theme.Scrim)
}
