// Package host runs a session inside a terminal. A bubbletea program is the
// platform: its update loop is the session's single-threaded executor, so
// batches, key input, and resizes are applied strictly in arrival order with
// no locking anywhere in the core.
//
// The host owns the wiring: it builds the registry (the built-in component
// set), the graph, the layout scheduler, and the focus manager, and paints
// committed geometry onto a cell canvas with lipgloss styles. Transport code
// feeds it by sending [BatchMsg] and [DisconnectMsg] into the program.
//
//	h, err := host.New(host.Options{Upstream: client})
//	if err != nil {
//	    return err
//	}
//	p := host.NewProgram(h)
//	client.OnBatch(func(b protocol.UpdateBatch) { p.Send(host.BatchMsg{Batch: b}) })
//	_, err = p.Run()
package host
