package scene

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/rio-labs/rioterm/pkg/protocol"
	"github.com/rio-labs/rioterm/pkg/session"
	"github.com/rio-labs/rioterm/pkg/transport"
)

// Options configures a Server.
type Options struct {
	// Scenes is the scene library. Defaults to an in-memory store seeded
	// with the built-in set.
	Scenes Store

	// Sessions tracks connected clients. Defaults to an in-memory store.
	Sessions session.Store

	// DefaultScene is served to clients that do not name one. Defaults to
	// "demo".
	DefaultScene string

	// SessionTTL is the session lifetime between touches. Defaults to
	// [session.DefaultTTL].
	SessionTTL time.Duration

	// Logger receives server diagnostics. Defaults to a silent logger.
	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks fields and applies defaults. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.SessionTTL < 0 {
		return fmt.Errorf("session TTL must be >= 0, got %v", o.SessionTTL)
	}
	if o.Scenes == nil {
		o.Scenes = NewMemoryStore(Builtin()...)
	}
	if o.Sessions == nil {
		o.Sessions = session.NewMemoryStore()
	}
	if o.DefaultScene == "" {
		o.DefaultScene = "demo"
	}
	if o.SessionTTL == 0 {
		o.SessionTTL = session.DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.validated = true
	return nil
}

// Server streams scenes to connected UI clients. It implements
// [transport.SessionHandler].
type Server struct {
	opts   Options
	logger *log.Logger

	mu   sync.Mutex
	live map[*transport.Peer]*liveSession
}

// liveSession is the in-process state for one connected peer. Script calls
// are serialized under mu because ticks and events arrive on different
// goroutines.
type liveSession struct {
	mu     sync.Mutex
	id     string
	peer   *transport.Peer
	script Script
	stop   chan struct{}
}

// NewServer builds a server from opts.
func NewServer(opts Options) (*Server, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("server options: %w", err)
	}
	return &Server{
		opts:   opts,
		logger: opts.Logger,
		live:   make(map[*transport.Peer]*liveSession),
	}, nil
}

// Run serves RPC on rpcAddr and the HTTP control surface on httpAddr until
// ctx is canceled. An empty httpAddr disables the HTTP listener.
func (s *Server) Run(ctx context.Context, rpcAddr, httpAddr string) error {
	ln, err := net.Listen("tcp", rpcAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", rpcAddr, err)
	}
	s.logger.Info("scene server listening", "rpc", ln.Addr().String())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return transport.Serve(ctx, ln, s, transport.WithServeLogger(s.logger))
	})

	if httpAddr != "" {
		httpSrv := &http.Server{Addr: httpAddr, Handler: s.HTTPHandler()}
		g.Go(func() error {
			s.logger.Info("control surface listening", "http", httpAddr)
			if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// =============================================================================
// Session Handling
// =============================================================================

// HandleHello resolves the requested scene, records the session, pushes the
// initial batch, and starts the scene's tick loop if it has one.
func (s *Server) HandleHello(ctx context.Context, p *transport.Peer, req protocol.HelloRequest) (protocol.HelloResult, error) {
	name := req.Scene
	if name == "" {
		name = s.opts.DefaultScene
	}
	sc, err := s.opts.Scenes.Get(ctx, name)
	if err != nil {
		return protocol.HelloResult{}, fmt.Errorf("scene %q: %w", name, err)
	}
	script, err := NewScript(sc)
	if err != nil {
		return protocol.HelloResult{}, err
	}

	sess := session.New(name, p.Addr(), s.opts.SessionTTL)
	sess.Client = req.Client
	if err := s.opts.Sessions.Put(ctx, sess); err != nil {
		return protocol.HelloResult{}, fmt.Errorf("record session: %w", err)
	}

	live := &liveSession{
		id:     sess.ID,
		peer:   p,
		script: script,
		stop:   make(chan struct{}),
	}
	s.mu.Lock()
	s.live[p] = live
	s.mu.Unlock()

	if err := p.SendBatch(ctx, sc.Compile()); err != nil {
		return protocol.HelloResult{}, fmt.Errorf("send initial batch: %w", err)
	}
	if script != nil && script.TickInterval() > 0 {
		go s.tickLoop(live)
	}

	names, err := s.sceneNames(ctx)
	if err != nil {
		s.logger.Warn("list scenes failed", "err", err)
	}
	s.logger.Info("session opened", "session", sess.ID, "scene", name, "addr", p.Addr())
	return protocol.HelloResult{SessionID: sess.ID, Scene: name, Scenes: names}, nil
}

// HandleEvent routes a client event to the session's script and pushes any
// resulting batch.
func (s *Server) HandleEvent(ctx context.Context, p *transport.Peer, ev protocol.Event) error {
	live := s.lookup(p)
	if live == nil {
		return fmt.Errorf("event before hello from %s", p.Addr())
	}
	s.touch(ctx, live.id)

	if live.script == nil {
		return nil
	}
	live.mu.Lock()
	batch, ok := live.script.HandleEvent(ev)
	live.mu.Unlock()
	if !ok {
		return nil
	}
	return p.SendBatch(ctx, batch)
}

// HandleViewport records client liveness. Scenes size themselves through
// growth flags, so the viewport itself stays client-side.
func (s *Server) HandleViewport(ctx context.Context, p *transport.Peer, vp protocol.Viewport) error {
	if live := s.lookup(p); live != nil {
		s.touch(ctx, live.id)
	}
	return nil
}

// Disconnected stops the session's tick loop and drops its record.
func (s *Server) Disconnected(p *transport.Peer) {
	s.mu.Lock()
	live := s.live[p]
	delete(s.live, p)
	s.mu.Unlock()
	if live == nil {
		return
	}

	close(live.stop)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.opts.Sessions.Delete(ctx, live.id); err != nil {
		s.logger.Warn("delete session failed", "session", live.id, "err", err)
	}
	s.logger.Info("session closed", "session", live.id, "addr", p.Addr())
}

func (s *Server) lookup(p *transport.Peer) *liveSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live[p]
}

func (s *Server) touch(ctx context.Context, id string) {
	if err := s.opts.Sessions.Touch(ctx, id, s.opts.SessionTTL); err != nil && !errors.Is(err, session.ErrNotFound) {
		s.logger.Warn("touch session failed", "session", id, "err", err)
	}
}

func (s *Server) sceneNames(ctx context.Context) ([]string, error) {
	scenes, err := s.opts.Scenes.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(scenes))
	for i, sc := range scenes {
		names[i] = sc.Name
	}
	return names, nil
}

// tickLoop pushes the script's periodic batches until the session ends.
func (s *Server) tickLoop(live *liveSession) {
	ticker := time.NewTicker(live.script.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-live.stop:
			return
		case now := <-ticker.C:
			live.mu.Lock()
			batch, ok := live.script.Tick(now)
			live.mu.Unlock()
			if !ok {
				continue
			}
			if err := live.peer.SendBatch(context.Background(), batch); err != nil {
				s.logger.Debug("tick send failed", "session", live.id, "err", err)
				return
			}
		}
	}
}
