package host

import (
	"github.com/rio-labs/rioterm/pkg/component"
	"github.com/rio-labs/rioterm/pkg/rendertree"
)

// termElement is the terminal platform element: a rectangle in parent-local
// cells. Painting walks the node tree rather than the elements, so the
// element's job is holding the committed geometry and the connectedness bit
// the focus walk reads.
type termElement struct {
	x, y, w, h float64
	connected  bool
}

func (e *termElement) SetHorizontal(x, w float64) { e.x, e.w = x, w }
func (e *termElement) SetVertical(y, h float64)   { e.y, e.h = y, h }
func (e *termElement) Detach()                    { e.connected = false }
func (e *termElement) Connected() bool            { return e.connected }

type elementFactory struct{}

func (elementFactory) NewElement(*rendertree.Node) rendertree.Element {
	return &termElement{connected: true}
}

// Elements returns the terminal element factory.
func Elements() component.ElementFactory { return elementFactory{} }
