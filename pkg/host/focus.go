package host

import (
	"github.com/rio-labs/rioterm/pkg/rendertree"
)

// FocusManager owns keyboard focus for one session. It serves both sides:
// the reconciler reads the current owner through the adapter half, and
// controls (or tab cycling) write through Focus. A destroyed element simply
// stops reporting Connected; the reconciler's focus walk then moves focus
// somewhere live.
type FocusManager struct {
	graph   *rendertree.Graph
	current rendertree.Element
}

// NewFocusManager returns an empty manager; call SetGraph once the graph
// exists (the two reference each other).
func NewFocusManager() *FocusManager { return &FocusManager{} }

// SetGraph wires the graph the manager cycles over.
func (f *FocusManager) SetGraph(g *rendertree.Graph) { f.graph = g }

// FocusedElement returns the element owning keyboard focus, or nil.
func (f *FocusManager) FocusedElement() rendertree.Element { return f.current }

// Focus moves keyboard focus to el.
func (f *FocusManager) Focus(el rendertree.Element) { f.current = el }

// FocusedNode resolves the focus owner to its live node, or nil.
func (f *FocusManager) FocusedNode() *rendertree.Node {
	if f.graph == nil || f.current == nil {
		return nil
	}
	return f.graph.NodeForElement(f.current)
}

// CycleNext moves focus to the next focusable node in paint order, wrapping
// around. Cycling spans every root tree; modality is the server's concern
// (it disables what a dialog should trap).
func (f *FocusManager) CycleNext() { f.cycle(1) }

// CyclePrev moves focus to the previous focusable node.
func (f *FocusManager) CyclePrev() { f.cycle(-1) }

func (f *FocusManager) cycle(step int) {
	order := f.focusables()
	if len(order) == 0 {
		return
	}
	idx := -1
	if cur := f.FocusedNode(); cur != nil {
		for i, n := range order {
			if n == cur {
				idx = i
				break
			}
		}
	}
	var next *rendertree.Node
	switch {
	case idx >= 0:
		next = order[(idx+step+len(order))%len(order)]
	case step < 0:
		next = order[len(order)-1]
	default:
		next = order[0]
	}
	next.Component().(rendertree.FocusableComponent).GrabFocus(next)
}

// focusables walks the root trees depth-first and collects the nodes that
// currently accept focus.
func (f *FocusManager) focusables() []*rendertree.Node {
	if f.graph == nil {
		return nil
	}
	var out []*rendertree.Node
	var walk func(n *rendertree.Node)
	walk = func(n *rendertree.Node) {
		if fc, ok := n.Component().(rendertree.FocusableComponent); ok && fc.CanFocus(n) {
			out = append(out, n)
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	for _, root := range f.graph.Roots() {
		walk(root)
	}
	return out
}
