package navigator

import (
	"fmt"
	"time"

	"github.com/randalmurphal/navigator/pkg/navigator/observability"
)

// Send broadcasts v to every receiver of its type.
func (n *Navigator) Send(v any) {
	n.send(v, nil)
}

// SendValues broadcasts the first value with the rest queued behind it.
// The receiver's Resume decides when, and whether, the rest follow.
func (n *Navigator) SendValues(values ...any) {
	if len(values) == 0 {
		return
	}
	n.send(values[0], values[1:])
}

func (n *Navigator) send(v any, rest []any) {
	if !n.IsMounted() {
		observability.LogIgnored(n.logger, n.id, "send", "not mounted")
		return
	}
	if v == nil {
		observability.LogIgnored(n.logger, n.id, "send", "nil value")
		return
	}
	n.session.broadcast(n, v, rest)
}

// broadcast delivers v to every accepting receiver of its type and returns
// how many received it. Each receiver resumes the remainder on its own
// stack.
func (s *Session) broadcast(origin *Navigator, v any, rest []any) int {
	label := fmt.Sprintf("%+v", v)
	observability.LogSend(origin.logger, origin.id, label, len(rest))

	delivered := 0
	for _, r := range s.orderedReceivers() {
		if r.checkpoint != "" || !r.accepting() {
			continue
		}
		resume, ok := r.deliver(v)
		if !ok {
			continue
		}
		delivered++
		observability.LogReceive(r.owner.logger, r.owner.id, label, resume.String())
		r.owner.resume(resume, rest)
	}

	s.cfg.metrics.RecordSend(origin.ctx, typeName(v), delivered)
	return delivered
}

// resume applies a receiver's directive to the remainder.
func (n *Navigator) resume(r Resume, rest []any) {
	switch r.kind {
	case resumeAuto:
		n.resumeAfter(n.session.cfg.autoResumeDelay, rest)
	case resumeImmediately:
		n.SendValues(rest...)
	case resumeAfter:
		n.resumeAfter(r.delay, rest)
	case resumeWith:
		n.SendValues(r.values...)
	case resumeCheckpoint:
		n.ReturnToCheckpoint(r.checkpoint)
	case resumeCancel:
	}
}

// resumeAfter schedules the remainder on the scheduler. The timer is owned
// by n and stopped if n unmounts first.
func (n *Navigator) resumeAfter(d time.Duration, rest []any) {
	if len(rest) == 0 || !n.IsMounted() {
		return
	}
	if d <= 0 {
		n.SendValues(rest...)
		return
	}

	n.resumeSeq++
	key := n.resumeSeq
	n.resumes[key] = n.session.cfg.scheduler.After(d, func() {
		delete(n.resumes, key)
		if n.IsMounted() {
			n.SendValues(rest...)
		}
	})
}

// PendingResumes returns the number of delayed resumes waiting on n.
func (n *Navigator) PendingResumes() int {
	return len(n.resumes)
}
