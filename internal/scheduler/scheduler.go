// Package scheduler drives the prerequisite-check passes: it debounces
// change notifications, keeps at most one pass in flight, and owns the
// enabled/disabled feature state.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marinamoger/myDegreesExtension/internal/audit"
	"github.com/marinamoger/myDegreesExtension/internal/eval"
	"github.com/marinamoger/myDegreesExtension/internal/logging"
	"github.com/marinamoger/myDegreesExtension/internal/planner"
	"github.com/marinamoger/myDegreesExtension/internal/prereq"
)

// State is the scheduler's externally visible state.
type State int

const (
	StateDisabled State = iota
	StateIdle
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	}
	return "unknown"
}

// Catalog is the prerequisite-catalog dependency.
type Catalog interface {
	Load() error
	EnsureScheduled(ctx context.Context, items []planner.ScheduledCourse)
	Formula(code string) (prereq.Formula, bool)
}

// History is the history-cache dependency.
type History interface {
	Ensure(ctx context.Context) *audit.Set
}

// Deps wires the scheduler to its collaborators. Clock and Delay default to
// the real clock and 750ms when zero.
type Deps struct {
	Page      planner.PageModel
	Catalog   Catalog
	History   History
	Annotator eval.Annotator
	Log       *logging.Logger

	Clock Clock
	Delay time.Duration
}

// Scheduler is a single-flight cooperative loop: ticks arriving while a
// pass runs are dropped, and a pending debounce timer fires at most one
// extra pass after the current one completes. State converges on the next
// tick, so dropped ticks are acceptable.
type Scheduler struct {
	deps Deps

	mu          sync.Mutex
	enabled     bool
	running     bool
	initialized bool
	closed      bool
	pending     Timer

	wg sync.WaitGroup
}

func New(deps Deps) *Scheduler {
	if deps.Clock == nil {
		deps.Clock = realClock{}
	}
	if deps.Delay == 0 {
		deps.Delay = 750 * time.Millisecond
	}
	if deps.Log == nil {
		deps.Log = logging.NewNop()
	}
	return &Scheduler{deps: deps}
}

// State reports the current state: Disabled when the feature is off,
// Running while a pass is in flight, Idle otherwise.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case !s.enabled:
		return StateDisabled
	case s.running:
		return StateRunning
	default:
		return StateIdle
	}
}

// Enabled reports the feature toggle. Passes re-check it before every
// side-effecting write, so a disable landing mid-pass suppresses the
// pass's output.
func (s *Scheduler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// SetEnabled flips the feature toggle. Enabling triggers an immediate pass;
// disabling cancels any pending tick and clears every badge synchronously
// without running a pass. An in-flight pass is allowed to finish, but its
// writes are suppressed by the enabled re-check.
func (s *Scheduler) SetEnabled(ctx context.Context, enabled bool) {
	s.mu.Lock()
	if s.closed || s.enabled == enabled {
		s.mu.Unlock()
		return
	}
	s.enabled = enabled
	if !enabled && s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.mu.Unlock()

	if enabled {
		s.tick(ctx)
		return
	}
	s.clearAll()
}

// Notify reports an external change (a page mutation). While enabled it
// (re)arms the debounce timer; rapid notifications within the delay window
// coalesce into a single tick.
func (s *Scheduler) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled || s.closed {
		return
	}
	if s.pending != nil {
		s.pending.Stop()
	}
	s.pending = s.deps.Clock.AfterFunc(s.deps.Delay, func() {
		s.tick(context.Background())
	})
}

// Close cancels any pending tick and waits for an in-flight pass.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// tick is the single-flight entry point. A tick landing while a pass runs
// is dropped, not queued.
func (s *Scheduler) tick(ctx context.Context) {
	s.mu.Lock()
	s.pending = nil
	if !s.enabled || s.closed || s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.wg.Add(1)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		s.wg.Done()
	}()
	s.pass(ctx)
}

func (s *Scheduler) pass(ctx context.Context) {
	log := s.deps.Log.With("pass", uuid.NewString()[:8])

	// One-time bootstrap: warm the catalog and the history cache before any
	// per-tick work. Never repeated for the life of the session; the
	// history stays fresh via its TTL, not via this latch.
	s.mu.Lock()
	bootstrap := !s.initialized
	s.initialized = true
	s.mu.Unlock()
	if bootstrap {
		if err := s.deps.Catalog.Load(); err != nil {
			log.Warn("catalog bootstrap failed", "error", err)
		}
		s.deps.History.Ensure(ctx)
		log.Info("bootstrap complete")
	}

	layout := planner.Collect(s.deps.Page)
	if len(layout.Items) == 0 {
		log.Debug("no scheduled courses collectible, skipping pass")
		return
	}

	s.deps.Catalog.EnsureScheduled(ctx, layout.Items)
	history := s.deps.History.Ensure(ctx)
	verdicts := eval.Evaluate(layout, history, s.deps.Catalog)

	// The feature may have been switched off while the fetches ran; the
	// results are then simply not rendered.
	if !s.Enabled() {
		log.Debug("disabled mid-pass, dropping verdicts")
		return
	}
	eval.Apply(verdicts, s.deps.Annotator)

	flagged := 0
	for _, v := range verdicts {
		if !v.Compliant() {
			flagged++
		}
	}
	log.Info("pass complete", "courses", len(layout.Items), "flagged", flagged)
}

func (s *Scheduler) clearAll() {
	layout := planner.Collect(s.deps.Page)
	for _, it := range layout.Items {
		s.deps.Annotator.ClearBadge(it)
	}
}
