package navigator

import (
	"fmt"
	"reflect"
	"time"

	"go.uber.org/atomic"
)

type resumeKind int

const (
	resumeAuto resumeKind = iota
	resumeImmediately
	resumeAfter
	resumeWith
	resumeCheckpoint
	resumeCancel
)

// Resume tells the protocol what to do with the values queued behind the
// one a receiver just handled. The zero Resume is Auto.
type Resume struct {
	kind       resumeKind
	delay      time.Duration
	values     []any
	checkpoint string
}

// Auto sends the remainder after the session's auto resume delay.
func Auto() Resume { return Resume{kind: resumeAuto} }

// Immediately sends the remainder now.
func Immediately() Resume { return Resume{kind: resumeImmediately} }

// After sends the remainder once d has elapsed.
func After(d time.Duration) Resume { return Resume{kind: resumeAfter, delay: d} }

// With discards the remainder and sends values now instead.
func With(values ...any) Resume {
	return Resume{kind: resumeWith, values: append([]any(nil), values...)}
}

// ToCheckpoint discards the remainder and returns to the named checkpoint.
func ToCheckpoint(name string) Resume { return Resume{kind: resumeCheckpoint, checkpoint: name} }

// Cancel discards the remainder.
func Cancel() Resume { return Resume{kind: resumeCancel} }

// String returns the directive name.
func (r Resume) String() string {
	switch r.kind {
	case resumeAuto:
		return "auto"
	case resumeImmediately:
		return "immediately"
	case resumeAfter:
		return fmt.Sprintf("after(%s)", r.delay)
	case resumeWith:
		return fmt.Sprintf("with(%d)", len(r.values))
	case resumeCheckpoint:
		return fmt.Sprintf("checkpoint(%s)", r.checkpoint)
	case resumeCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// receiver is one registration. Broadcast receivers have an empty
// checkpoint; checkpoint-return handlers name theirs.
type receiver struct {
	seq        uint64
	owner      *Navigator
	typ        string
	checkpoint string
	deliver    func(v any) (Resume, bool)
	active     atomic.Bool
	paused     atomic.Bool
}

func (r *receiver) accepting() bool {
	return r.active.Load() && !r.paused.Load() && r.owner.IsMounted()
}

// Subscription controls a registered receiver.
type Subscription struct {
	r *receiver
	s *Session
}

// Unsubscribe removes the receiver. Safe to call more than once.
func (sub *Subscription) Unsubscribe() {
	if sub == nil || sub.r == nil {
		return
	}
	if sub.r.active.CompareAndSwap(true, false) {
		sub.s.receivers.Remove(sub.r)
	}
}

// Pause stops deliveries until Resume.
func (sub *Subscription) Pause() {
	if sub != nil && sub.r != nil {
		sub.r.paused.Store(true)
	}
}

// Resume restarts deliveries after Pause.
func (sub *Subscription) Resume() {
	if sub != nil && sub.r != nil {
		sub.r.paused.Store(false)
	}
}

// IsPaused reports whether deliveries are paused.
func (sub *Subscription) IsPaused() bool {
	return sub != nil && sub.r != nil && sub.r.paused.Load()
}

// Active reports whether the receiver is still registered. It turns false
// after Unsubscribe or when the owning stack unmounts.
func (sub *Subscription) Active() bool {
	return sub != nil && sub.r != nil && sub.r.active.Load() && sub.r.owner.IsMounted()
}

func (s *Session) register(owner *Navigator, typ, checkpoint string, deliver func(any) (Resume, bool)) *Subscription {
	r := &receiver{
		seq:        s.receiverSeq.Inc(),
		owner:      owner,
		typ:        typ,
		checkpoint: checkpoint,
		deliver:    deliver,
	}
	if owner.IsMounted() && !s.closed.Load() {
		r.active.Store(true)
		s.receivers.Add(r)
	}
	return &Subscription{r: r, s: s}
}

func typeNameOf[T any]() string {
	return reflect.TypeFor[T]().String()
}

// Receive registers handler for every broadcast value that is a T. T may
// be an interface. The receiver lives as long as nav stays mounted.
func Receive[T any](nav *Navigator, handler func(T, *Navigator) Resume) *Subscription {
	return nav.session.register(nav, typeNameOf[T](), "", func(v any) (Resume, bool) {
		t, ok := v.(T)
		if !ok {
			return Resume{}, false
		}
		if handler == nil {
			return Auto(), true
		}
		return handler(t, nav), true
	})
}

// ReceiveValue is Receive for handlers that do not need the navigator.
func ReceiveValue[T any](nav *Navigator, handler func(T) Resume) *Subscription {
	return Receive(nav, func(v T, _ *Navigator) Resume {
		if handler == nil {
			return Auto()
		}
		return handler(v)
	})
}

// ReceiveDestinations navigates nav to every received T and resumes Auto.
func ReceiveDestinations[T any](nav *Navigator) *Subscription {
	return Receive(nav, func(d T, n *Navigator) Resume {
		n.Navigate(d)
		return Auto()
	})
}

// OnCheckpointReturn registers fn for values passed to
// ReturnToCheckpointWith for the named checkpoint. Values that are not a
// T are not delivered. fn runs after the checkpoint has been restored.
func OnCheckpointReturn[T any](nav *Navigator, name string, fn func(T, *Navigator)) *Subscription {
	return nav.session.register(nav, typeNameOf[T](), name, func(v any) (Resume, bool) {
		t, ok := v.(T)
		if !ok {
			return Resume{}, false
		}
		if fn != nil {
			fn(t, nav)
		}
		return Cancel(), true
	})
}
