// Package transport implements the bidirectional message channel between a
// UI client and a scene server: JSON-RPC 2.0 notifications over a persistent
// stream (TCP in production, [net.Pipe] in tests).
//
// The server pushes [protocol.MethodUpdate] notifications carrying update
// batches; the client pushes [protocol.MethodEvent] and
// [protocol.MethodViewport] notifications upstream and opens the session
// with a [protocol.MethodHello] request. Framing is a plain JSON object per
// message; neither side of the core ever sees it.
//
// # Client
//
//	client, err := transport.Dial(ctx, addr, func(b protocol.UpdateBatch) {
//	    program.Send(host.BatchMsg{Batch: b})
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//	res, err := client.Hello(ctx, protocol.HelloRequest{Scene: "demo"})
//
// # Server
//
//	ln, err := net.Listen("tcp", addr)
//	if err != nil {
//	    return err
//	}
//	err = transport.Serve(ctx, ln, sessionHandler)
//
// There is no reconnection policy here: a dropped connection surfaces
// through DisconnectNotify and the caller decides what to do (the terminal
// host exits; the server discards the session).
package transport
