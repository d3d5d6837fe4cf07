package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/rio-labs/rioterm/pkg/observability"
	"github.com/rio-labs/rioterm/pkg/protocol"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

// BatchFunc receives one server batch. It runs on the connection's read
// goroutine; implementations must hand the batch off to the session's event
// loop (for the terminal host, Program.Send) rather than reconcile inline.
type BatchFunc func(protocol.UpdateBatch)

// Client is the UI side of one session channel.
type Client struct {
	conn    *jsonrpc2.Conn
	addr    string
	logger  *log.Logger
	onBatch BatchFunc
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientLogger routes client diagnostics to l.
func WithClientLogger(l *log.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Dial connects to a scene server over TCP and starts routing its update
// notifications to onBatch.
func Dial(ctx context.Context, addr string, onBatch BatchFunc, opts ...ClientOption) (*Client, error) {
	nc, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return NewClient(ctx, nc, addr, onBatch, opts...), nil
}

// NewClient wraps an established stream. addr is used for logging only;
// tests pass one end of a [net.Pipe].
func NewClient(ctx context.Context, rwc io.ReadWriteCloser, addr string, onBatch BatchFunc, opts ...ClientOption) *Client {
	c := &Client{
		addr:    addr,
		logger:  log.New(io.Discard),
		onBatch: onBatch,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.conn = jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.PlainObjectCodec{}),
		c.handler())
	observability.Transport().OnConnect(addr)
	return c
}

func (c *Client) handler() jsonrpc2.Handler {
	return routingHandler(map[string]method{
		protocol.MethodUpdate: c.update,
	})
}

func (c *Client) update(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var batch protocol.UpdateBatch
	if json.Unmarshal(rawParams, &batch) != nil {
		return nil, errInvalidParams
	}
	observability.Transport().OnNotification(protocol.MethodUpdate, false)
	if c.onBatch != nil {
		c.onBatch(batch)
	}
	return nil, nil
}

// Hello opens the session and returns the server's acknowledgement.
func (c *Client) Hello(ctx context.Context, req protocol.HelloRequest) (protocol.HelloResult, error) {
	var res protocol.HelloResult
	if err := c.conn.Call(ctx, protocol.MethodHello, req, &res); err != nil {
		return protocol.HelloResult{}, fmt.Errorf("hello: %w", err)
	}
	return res, nil
}

// SendEvent reports a user interaction to the server. Implements the
// component event sink; send failures are logged, not surfaced, because a
// dying connection already reports through DisconnectNotify.
func (c *Client) SendEvent(ev protocol.Event) {
	observability.Transport().OnNotification(protocol.MethodEvent, true)
	if err := c.conn.Notify(context.Background(), protocol.MethodEvent, ev); err != nil {
		c.logger.Debug("send event failed", "node", ev.Node, "err", err)
	}
}

// SendViewport reports the drawable area to the server.
func (c *Client) SendViewport(vp protocol.Viewport) {
	observability.Transport().OnNotification(protocol.MethodViewport, true)
	if err := c.conn.Notify(context.Background(), protocol.MethodViewport, vp); err != nil {
		c.logger.Debug("send viewport failed", "err", err)
	}
}

// DisconnectNotify returns a channel closed when the connection ends, for
// any reason.
func (c *Client) DisconnectNotify() <-chan struct{} {
	return c.conn.DisconnectNotify()
}

// Close tears the connection down.
func (c *Client) Close() error {
	err := c.conn.Close()
	observability.Transport().OnDisconnect(c.addr, err)
	return err
}

// =============================================================================
// Routing
// =============================================================================

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

// routingHandler dispatches requests by method name. Handlers run
// synchronously on the read goroutine, which preserves notification order.
func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		if req.Params == nil {
			return fn(ctx, conn, nil)
		}
		return fn(ctx, conn, *req.Params)
	})
}
