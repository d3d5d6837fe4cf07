package layout

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rio-labs/rioterm/pkg/observability"
)

// DefaultThreshold is the pass count at which an unsettled re-layout loop is
// reported as an anomaly.
const DefaultThreshold = 10

// =============================================================================
// Scheduler
// =============================================================================

// Scheduler drives the engine to a fixed point: it runs a full pass, drains
// the re-layout requests the pass queued, and repeats while there are any.
// It also owns the viewport, dirtying the roots when it changes.
type Scheduler struct {
	engine    *Engine
	logger    *log.Logger
	threshold int
	viewport  Viewport
	sized     bool
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithSchedulerLogger routes the scheduler's diagnostics to l.
func WithSchedulerLogger(l *log.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithThreshold sets the anomaly threshold for the fixed-point loop. Values
// below one fall back to [DefaultThreshold].
func WithThreshold(n int) SchedulerOption {
	return func(s *Scheduler) {
		if n >= 1 {
			s.threshold = n
		}
	}
}

// NewScheduler returns a scheduler driving e.
func NewScheduler(e *Engine, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		engine:    e,
		logger:    log.New(io.Discard),
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetViewport records a new drawable area and marks every root dirty so the
// next pass re-flows from the top. Reporting the current size again is a
// no-op, which coalesces repeated resize events.
func (s *Scheduler) SetViewport(vp Viewport) {
	if s.sized && vp == s.viewport {
		return
	}
	s.viewport = vp
	s.sized = true
	for _, root := range s.engine.Graph().Roots() {
		root.MarkDirty()
	}
}

// Viewport returns the last viewport set.
func (s *Scheduler) Viewport() Viewport { return s.viewport }

// NeedsPass reports whether a pass would do anything: a dirty root tree or
// queued re-layout requests.
func (s *Scheduler) NeedsPass() bool {
	if s.engine.Graph().PendingRelayouts() > 0 {
		return true
	}
	for _, root := range s.engine.Graph().Roots() {
		if root.LayoutDirty {
			return true
		}
	}
	return false
}

// Settle runs full passes until one finishes with no re-layout requests and
// returns how many passes ran. Between passes the queued request callbacks
// run (they typically mark nodes dirty); any request forces another full
// pass, per the mid-pass request contract.
//
// The loop has no upper bound. When the pass count crosses the threshold the
// scheduler logs a warning and fires the anomaly hook, then keeps going: a
// cap here would trade a visible hang for a silently wrong layout.
func (s *Scheduler) Settle() int {
	start := time.Now()
	passes := 0
	for {
		s.engine.Pass(s.viewport)
		passes++

		reqs := s.engine.Graph().TakeRelayoutRequests()
		if len(reqs) == 0 {
			break
		}
		if passes == s.threshold {
			s.logger.Warn("re-layout loop not settling",
				"passes", passes, "pending", len(reqs))
			observability.Layout().OnRelayoutAnomaly(passes)
		}
		for _, fn := range reqs {
			fn()
		}
	}

	s.logger.Debug("layout settled", "passes", passes)
	observability.Layout().OnLayoutSettled(passes, time.Since(start))
	return passes
}
