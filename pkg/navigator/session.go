package navigator

import (
	"context"
	"log/slog"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/randalmurphal/navigator/pkg/navigator/registry"
)

// Session is the root of one navigation tree. It owns the stack registry,
// the receivers, the checkpoint index and the action list queue.
type Session struct {
	id     string
	cfg    sessionConfig
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool

	registry *registry.Registry[string, *Navigator]
	root     *Navigator

	receivers   mapset.Set[*receiver]
	receiverSeq atomic.Uint64

	// checkpoints maps checkpoint name to the stack that captured it.
	checkpoints   map[string]string
	checkpointSeq atomic.Uint64

	active  *Run
	pending []*Run
}

// NewSession creates a session with a mounted root stack.
func NewSession(opts ...Option) *Session {
	cfg := defaultSessionConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.applyDefaults()
	if cfg.sessionID == "" {
		cfg.sessionID = uuid.NewString()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:          cfg.sessionID,
		cfg:         cfg,
		logger:      cfg.logger.With(slog.String("session_id", cfg.sessionID)),
		ctx:         ctx,
		cancel:      cancel,
		registry:    registry.New[string, *Navigator](),
		receivers:   mapset.NewSet[*receiver](),
		checkpoints: make(map[string]string),
	}
	s.root = newNavigator(s, RootID, "", PlacementRoot, ctx)
	s.registry.Mount(RootID, s.root)
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Root returns the root stack.
func (s *Session) Root() *Navigator { return s.root }

// Scheduler returns the session's execution context.
func (s *Session) Scheduler() Scheduler { return s.cfg.scheduler }

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger { return s.logger }

// IsClosed reports whether Close has been called. Safe from any goroutine.
func (s *Session) IsClosed() bool { return s.closed.Load() }

// Navigator returns a mounted stack by id. Safe from any goroutine.
func (s *Session) Navigator(id string) (*Navigator, bool) {
	return s.registry.Lookup(id)
}

// Navigators returns every mounted stack in mount order. Safe from any
// goroutine.
func (s *Session) Navigators() []*Navigator {
	return s.registry.Values()
}

// Perform runs actions against the root stack.
func (s *Session) Perform(actions ...Action) *Run {
	return s.root.Perform(actions...)
}

// Do runs fn on the session's scheduler. It may be called from any
// goroutine.
func (s *Session) Do(fn func()) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	s.cfg.scheduler.Post(func() {
		if !s.closed.Load() {
			fn()
		}
	})
	return nil
}

// Close cancels every pending action list, unmounts every stack and drops
// every receiver. Call it on the scheduler context.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	for _, run := range s.pending {
		s.finish(run, RunCancelled, "session closed")
	}
	s.pending = nil
	if s.active != nil {
		s.finish(s.active, RunCancelled, "session closed")
	}

	stacks := s.registry.Len()
	s.root.unmount()
	s.receivers.Clear()
	s.cancel()
	s.logger.Debug("session closed", slog.Int("stacks", stacks))
}

func (s *Session) mount(parent *Navigator, id string, placement Placement) *Navigator {
	if id == "" {
		id = uuid.NewString()
	}
	if placement == PlacementRoot {
		placement = PlacementNested
	}

	nav, created := s.registry.GetOrMount(id, func() *Navigator {
		return newNavigator(s, id, parent.id, placement, parent.ctx)
	})
	if created {
		nav.logger.Debug("stack mounted",
			slog.String("parent_id", parent.id),
			slog.String("placement", placement.String()),
		)
		nav.notify(ChangeMount, AnyDestination{})
	}
	return nav
}

// release drops everything a stack owns outside its own state.
func (s *Session) release(n *Navigator) {
	for _, r := range s.receivers.ToSlice() {
		if r.owner == n {
			r.active.Store(false)
			s.receivers.Remove(r)
		}
	}
	for name := range n.state.checkpoints {
		if s.checkpoints[name] == n.id {
			delete(s.checkpoints, name)
		}
	}
	s.cancelRunsRootedAt(n)
}

// orderedReceivers returns active receivers in registration order.
func (s *Session) orderedReceivers() []*receiver {
	rs := s.receivers.ToSlice()
	sort.Slice(rs, func(i, j int) bool { return rs[i].seq < rs[j].seq })
	return rs
}
