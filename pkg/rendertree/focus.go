package rendertree

// =============================================================================
// Focus Preservation
// =============================================================================

// focusedNode resolves the platform's current focus owner to a node, before
// the batch mutates anything. Nil when no adapter is wired, nothing is
// focused, or the focused element belongs to no node.
func (g *Graph) focusedNode() *Node {
	if g.focus == nil {
		return nil
	}
	return g.NodeForElement(g.focus.FocusedElement())
}

// restoreFocus runs after the destruction sweep. If the captured owner
// survived the batch, focus stays where it is. Otherwise the walk climbs the
// recorded ancestor chain, through destroyed nodes (they keep their final
// parent pointer exactly for this), and hands focus to the nearest live
// ancestor that accepts it. No candidate is a benign miss: focus drops.
func (g *Graph) restoreFocus(captured *Node) {
	if captured == nil {
		return
	}
	if captured.alive && captured.elem != nil && captured.elem.Connected() {
		return
	}

	for anc := captured.parent; anc != nil; anc = anc.parent {
		if !anc.alive {
			continue
		}
		fc, ok := anc.comp.(FocusableComponent)
		if !ok || !fc.CanFocus(anc) {
			continue
		}
		fc.GrabFocus(anc)
		g.logger.Debug("focus transferred", "from", captured.id, "to", anc.id)
		return
	}
	g.logger.Debug("focus dropped, no live focusable ancestor", "from", captured.id)
}
