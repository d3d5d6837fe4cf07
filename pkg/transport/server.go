package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/rio-labs/rioterm/pkg/observability"
	"github.com/rio-labs/rioterm/pkg/protocol"
)

// Peer is the server's handle on one connected client.
type Peer struct {
	conn *jsonrpc2.Conn
	addr string
}

// Addr returns the client's remote address.
func (p *Peer) Addr() string { return p.addr }

// SendBatch pushes one update batch to the client. Batches sent on a single
// peer arrive in send order.
func (p *Peer) SendBatch(ctx context.Context, b protocol.UpdateBatch) error {
	observability.Transport().OnNotification(protocol.MethodUpdate, true)
	return p.conn.Notify(ctx, protocol.MethodUpdate, b)
}

// DisconnectNotify returns a channel closed when the peer's connection ends.
func (p *Peer) DisconnectNotify() <-chan struct{} {
	return p.conn.DisconnectNotify()
}

// Close drops the peer.
func (p *Peer) Close() error { return p.conn.Close() }

// SessionHandler is the server-side collaborator behind the channel; the
// scene server implements it. All methods for one peer are called from that
// peer's read goroutine, in arrival order. Disconnected is called exactly
// once, after the last routed message.
type SessionHandler interface {
	HandleHello(ctx context.Context, p *Peer, req protocol.HelloRequest) (protocol.HelloResult, error)
	HandleEvent(ctx context.Context, p *Peer, ev protocol.Event) error
	HandleViewport(ctx context.Context, p *Peer, vp protocol.Viewport) error
	Disconnected(p *Peer)
}

// Serve accepts connections from ln until ctx is canceled, routing each
// client's messages to h. It always closes ln and returns nil on a clean
// shutdown.
func Serve(ctx context.Context, ln net.Listener, h SessionHandler, opts ...ServeOption) error {
	s := &server{handler: h, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		nc, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go s.serveConn(ctx, nc)
	}
}

// ServeOption configures Serve.
type ServeOption func(*server)

// WithServeLogger routes accept-loop diagnostics to l.
func WithServeLogger(l *log.Logger) ServeOption {
	return func(s *server) {
		if l != nil {
			s.logger = l
		}
	}
}

type server struct {
	handler SessionHandler
	logger  *log.Logger
}

func (s *server) serveConn(ctx context.Context, nc net.Conn) {
	addr := nc.RemoteAddr().String()
	s.logger.Debug("client connected", "addr", addr)
	observability.Transport().OnConnect(addr)

	peer := &Peer{addr: addr}
	peer.conn = jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(nc, jsonrpc2.PlainObjectCodec{}),
		s.peerHandler(peer))

	select {
	case <-peer.conn.DisconnectNotify():
	case <-ctx.Done():
		peer.conn.Close()
		<-peer.conn.DisconnectNotify()
	}
	s.handler.Disconnected(peer)
	observability.Transport().OnDisconnect(addr, nil)
	s.logger.Debug("client disconnected", "addr", addr)
}

func (s *server) peerHandler(p *Peer) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		protocol.MethodHello:    s.hello(p),
		protocol.MethodEvent:    s.event(p),
		protocol.MethodViewport: s.viewport(p),
	})
}

func (s *server) hello(p *Peer) method {
	return func(ctx context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
		var req protocol.HelloRequest
		if rawParams != nil && json.Unmarshal(rawParams, &req) != nil {
			return nil, errInvalidParams
		}
		return s.handler.HandleHello(ctx, p, req)
	}
}

func (s *server) event(p *Peer) method {
	return func(ctx context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
		var ev protocol.Event
		if json.Unmarshal(rawParams, &ev) != nil {
			return nil, errInvalidParams
		}
		observability.Transport().OnNotification(protocol.MethodEvent, false)
		return nil, s.handler.HandleEvent(ctx, p, ev)
	}
}

func (s *server) viewport(p *Peer) method {
	return func(ctx context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
		var vp protocol.Viewport
		if json.Unmarshal(rawParams, &vp) != nil {
			return nil, errInvalidParams
		}
		observability.Transport().OnNotification(protocol.MethodViewport, false)
		return nil, s.handler.HandleViewport(ctx, p, vp)
	}
}
