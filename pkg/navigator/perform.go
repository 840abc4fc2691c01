package navigator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"

	"github.com/randalmurphal/navigator/pkg/navigator/observability"
)

// RunStatus is the lifecycle state of an action list.
type RunStatus int32

// Run statuses.
const (
	RunQueued RunStatus = iota
	RunRunning
	RunSuspended
	RunCompleted
	RunCancelled
)

// String returns the status name.
func (s RunStatus) String() string {
	switch s {
	case RunQueued:
		return "queued"
	case RunRunning:
		return "running"
	case RunSuspended:
		return "suspended"
	case RunCompleted:
		return "completed"
	case RunCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// Finished reports whether s is terminal.
func (s RunStatus) Finished() bool {
	return s == RunCompleted || s == RunCancelled
}

// Run is a handle on one performed action list.
type Run struct {
	id      string
	session *Session
	root    *Navigator
	target  *Navigator
	actions []Action
	next    int

	status  atomic.Int32
	err     error
	done    chan struct{}
	elapsed func() time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	span   trace.Span
}

// ID returns the run id.
func (r *Run) ID() string { return r.id }

// Done is closed when the run completes or is cancelled.
func (r *Run) Done() <-chan struct{} { return r.done }

// Status returns the current status. Safe from any goroutine.
func (r *Run) Status() RunStatus { return RunStatus(r.status.Load()) }

// Err returns a wrapped ErrRunCancelled once a run has been cancelled, and
// nil otherwise. Read it after Done is closed.
func (r *Run) Err() error { return r.err }

// Next returns the index of the next action to execute.
func (r *Run) Next() int { return r.next }

// Target returns the stack the next action applies to.
func (r *Run) Target() *Navigator { return r.target }

// Wait blocks until the run finishes or ctx is done. Never call it on the
// scheduler context: the run needs that context to make progress.
func (r *Run) Wait(ctx context.Context) (RunStatus, error) {
	select {
	case <-r.done:
		return r.Status(), r.err
	case <-ctx.Done():
		return r.Status(), ctx.Err()
	}
}

// Perform executes actions in order against this stack and its
// descendants. Lists are serialized per session: while another list is
// running or suspended, this one queues behind it.
func (n *Navigator) Perform(actions ...Action) *Run {
	s := n.session
	run := s.newRun(n, actions)

	if s.closed.Load() {
		s.finish(run, RunCancelled, "session closed")
		return run
	}
	if !n.IsMounted() {
		s.finish(run, RunCancelled, "navigator unmounted")
		return run
	}

	observability.LogRunStart(n.logger, run.id, len(actions))
	s.pending = append(s.pending, run)
	s.pump()
	return run
}

func (s *Session) newRun(root *Navigator, actions []Action) *Run {
	run := &Run{
		id:      uuid.NewString(),
		session: s,
		root:    root,
		target:  root,
		actions: append([]Action(nil), actions...),
		done:    make(chan struct{}),
		elapsed: observability.TimedOperation(),
	}
	ctx, cancel := context.WithCancel(root.ctx)
	run.ctx, run.span = s.cfg.spans.StartRunSpan(ctx, s.id, run.id, len(actions))
	run.cancel = cancel
	return run
}

// pump starts queued runs until one suspends or the queue is empty.
func (s *Session) pump() {
	for s.active == nil && len(s.pending) > 0 {
		run := s.pending[0]
		s.pending = s.pending[1:]
		s.active = run
		s.step(run)
	}
}

// step executes actions until the list ends or suspends.
func (s *Session) step(run *Run) {
	run.status.Store(int32(RunRunning))
	for run.next < len(run.actions) {
		if run.Status().Finished() {
			return
		}
		if !run.root.IsMounted() {
			s.finish(run, RunCancelled, "navigator unmounted")
			return
		}

		index := run.next
		a := run.actions[index]
		run.next++

		if a.kind == ActionAuthenticationRequired {
			if s.suspend(run) {
				return
			}
			continue
		}
		s.apply(run, a, index)
	}
	s.finish(run, RunCompleted, "")
}

// suspend parks run until the gate opens. It returns false when there is
// nothing to wait for.
func (s *Session) suspend(run *Run) bool {
	gate := s.cfg.gate
	if gate == nil {
		run.root.logger.Warn("authentication required but no gate configured",
			slog.String("run_id", run.id))
		return false
	}
	if gateOpen(gate) {
		return false
	}

	run.status.Store(int32(RunSuspended))
	observability.LogRunSuspended(run.root.logger, run.id, run.next)
	s.cfg.spans.AddSpanEvent(run.ctx, "suspended", attribute.Int("next_action", run.next))

	go func(ctx context.Context) {
		select {
		case <-gate.Done():
			s.cfg.scheduler.Post(func() { s.resumeRun(run) })
		case <-ctx.Done():
		}
	}(run.ctx)
	return true
}

func (s *Session) resumeRun(run *Run) {
	if run.Status() != RunSuspended {
		return
	}
	if !run.root.IsMounted() || s.closed.Load() {
		s.finish(run, RunCancelled, "navigator unmounted")
		s.pump()
		return
	}
	s.cfg.spans.AddSpanEvent(run.ctx, "resumed", attribute.Int("next_action", run.next))
	s.step(run)
	s.pump()
}

func (s *Session) apply(run *Run, a Action, index int) {
	elapsed := observability.TimedOperation()
	ctx, span := s.cfg.spans.StartActionSpan(run.ctx, a.kind.String(), index)

	switch a.kind {
	case ActionPush:
		run.retarget(a.value)
		run.target.Push(a.value)
	case ActionNavigate:
		run.retarget(a.value)
		run.target.Navigate(a.value)
	case ActionSend:
		run.sender().Send(a.value)
		run.retarget(a.value)
	case ActionSendValues:
		if len(a.values) > 0 {
			run.sender().SendValues(a.values...)
			run.retarget(a.values[0])
		}
	case ActionReset:
		run.root.reset()
		run.target = run.root
	case ActionDismissAny:
		run.target.DismissAny()
	case ActionDismissAll:
		run.target.DismissAll()
	case ActionPopAll:
		run.target.PopAll()
	case ActionPopAllIn:
		if nav, ok := run.root.Find(a.stackID); ok {
			nav.PopAll()
		} else {
			observability.LogIgnored(run.root.logger, run.root.id, a.kind.String(), "stack "+a.stackID+" not mounted")
		}
	case ActionPopTo:
		run.target.PopTo(a.n)
	case ActionPopLast:
		run.target.PopLast(a.n)
	case ActionSelect:
		run.selectStack(a.stackID)
	case ActionReturnToCheckpoint:
		if nav, ok := s.returnToCheckpoint(a.name); ok {
			if _, inTree := run.root.Find(nav.id); inTree {
				run.target = nav
			}
		}
	case ActionCheckpoint:
		run.target.Checkpoint(a.name)
	}

	observability.LogAction(run.root.logger, run.id, a.kind.String(), run.target.id)
	s.cfg.metrics.RecordAction(ctx, a.kind.String(), elapsed())
	s.cfg.spans.EndSpanWithError(span, nil)
}

// retarget moves the target to v's stack when v names one.
func (r *Run) retarget(v any) {
	if st, ok := v.(StackTargeter); ok {
		r.selectStack(st.TargetStackID())
	}
}

func (r *Run) selectStack(id string) {
	nav, ok := r.root.Find(id)
	if !ok || !nav.IsMounted() {
		observability.LogIgnored(r.root.logger, r.root.id, "select", "stack "+id+" not mounted")
		return
	}
	r.target = nav
}

// sender is the stack a broadcast originates from. Broadcasts are session
// wide, so a stale target falls back to the root.
func (r *Run) sender() *Navigator {
	if r.target.IsMounted() {
		return r.target
	}
	return r.root
}

func (s *Session) finish(run *Run, status RunStatus, reason string) {
	if run.Status().Finished() {
		return
	}
	run.status.Store(int32(status))
	elapsed := run.elapsed()

	if status == RunCancelled {
		run.err = fmt.Errorf("%w: %s", ErrRunCancelled, reason)
		observability.LogRunCancelled(run.root.logger, run.id, run.next, reason)
		s.cfg.spans.EndSpanWithError(run.span, run.err)
	} else {
		observability.LogRunComplete(run.root.logger, run.id, observability.Milliseconds(elapsed), run.next)
		s.cfg.spans.EndSpanWithError(run.span, nil)
	}
	s.cfg.metrics.RecordRun(s.ctx, status.String(), elapsed)

	run.cancel()
	close(run.done)
	if s.active == run {
		s.active = nil
	}
}

// cancelRunsRootedAt drops runs that can no longer make progress because
// n is going away: runs rooted at n, and a suspended run targeting n.
func (s *Session) cancelRunsRootedAt(n *Navigator) {
	kept := s.pending[:0]
	for _, run := range s.pending {
		if run.root == n {
			s.finish(run, RunCancelled, "navigator unmounted")
			continue
		}
		kept = append(kept, run)
	}
	clear(s.pending[len(kept):])
	s.pending = kept

	if run := s.active; run != nil {
		if run.root == n || (run.Status() == RunSuspended && run.target == n) {
			s.finish(run, RunCancelled, "navigator unmounted")
			// Start whatever queued behind it once the current call unwinds.
			s.cfg.scheduler.Post(s.pump)
		}
	}
}
