// Package component provides the built-in component set servers can compose:
// containers (row, column, box, overlay), content (text, spacer), and
// focusable controls (button, input).
//
// The set is wired into a type registry through a [Library], which carries
// the collaborators every instance shares: the element factory, the focus
// owner, the event sink, and the theme. Injecting the factory keeps the set
// platform-free, so the same registration runs under the terminal host, unit
// tests, and the headless snapshot tool:
//
//	lib := &component.Library{Factory: host.Elements(), Events: client}
//	reg := rendertree.NewRegistry()
//	if err := lib.Register(reg); err != nil {
//	    return err
//	}
//
// # State contract
//
// Components read only their documented state attributes plus the shared
// layout keys (width, height, growX, growY). Unknown attributes are ignored,
// never rejected; the server may run ahead of the client.
package component
