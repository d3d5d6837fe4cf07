// Package scene implements the demo scene server: a library of declarative
// scene definitions and the server that streams them to connected UI
// clients as update batches.
//
// A scene is a flat list of node definitions plus a root designation,
// authored in YAML or JSON or built in Go. [Scene.Compile] turns it into the
// initial [protocol.UpdateBatch]; scripted scenes then keep mutating state
// over time (timers) and in response to client events, which exercises
// incremental reconciliation on the other end of the wire.
//
// The scene library lives behind [Store] (in-memory or MongoDB). [Server]
// implements the transport session handler, tracks connected clients in a
// session store, and exposes an HTTP control surface (health, scene and
// session listings) next to the RPC listener.
//
//	srv, err := scene.NewServer(scene.Options{})
//	if err != nil {
//	    return err
//	}
//	err = srv.Run(ctx, "localhost:7333", "localhost:7334")
package scene
