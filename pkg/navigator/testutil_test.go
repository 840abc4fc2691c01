package navigator

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/randalmurphal/navigator/pkg/navigator/navtest"
)

// Test destination types used across tests.

// Page is a plain pushed destination.
type Page struct {
	N int
}

// Login presents as a sheet.
type Login struct {
	Reason string
}

func (Login) NavigationMethod() Method { return MethodSheet }

// Onboarding presents as a cover.
type Onboarding struct{}

func (Onboarding) NavigationMethod() Method { return MethodCover }

// Tab selects a tab stack.
type Tab string

func (t Tab) TargetStackID() string { return string(t) }

// HomePage belongs to the home tab.
type HomePage struct {
	N int
}

func (HomePage) TargetStackID() string { return "home" }

// Note is a value that is only ever sent.
type Note string

// Labeled is an interface some sent values satisfy.
type Labeled interface {
	Label() string
}

func (n Note) Label() string { return string(n) }

// awaitTimeout bounds waits for work posted from other goroutines.
const awaitTimeout = 2 * time.Second

// quietLogger discards output.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestSession creates a session on a manual scheduler.
func newTestSession(t *testing.T, opts ...Option) (*Session, *navtest.Scheduler) {
	t.Helper()
	sched := navtest.NewScheduler()
	base := []Option{
		WithScheduler(sched),
		WithLogger(quietLogger()),
		WithSessionID("test-session"),
	}
	s := NewSession(append(base, opts...)...)
	t.Cleanup(s.Close)
	return s, sched
}

// values unboxes a path.
func values(path []AnyDestination) []any {
	out := make([]any, len(path))
	for i, d := range path {
		out[i] = d.Value()
	}
	return out
}

// pushPages pushes Page{N} for each n.
func pushPages(nav *Navigator, ns ...int) {
	for _, n := range ns {
		nav.Push(Page{N: n})
	}
}

// changeRecorder collects observer callbacks.
type changeRecorder struct {
	changes []Change
}

func (r *changeRecorder) observe(c Change) {
	r.changes = append(r.changes, c)
}

func (r *changeRecorder) count(navID string, kind ChangeKind) int {
	n := 0
	for _, c := range r.changes {
		if c.NavigatorID == navID && c.Kind == kind {
			n++
		}
	}
	return n
}

func (r *changeRecorder) reset() {
	r.changes = nil
}

// touched returns the ids of stacks with changes of the given kinds.
func (r *changeRecorder) touched(kinds ...ChangeKind) map[string]bool {
	out := make(map[string]bool)
	for _, c := range r.changes {
		for _, k := range kinds {
			if c.Kind == k {
				out[c.NavigatorID] = true
			}
		}
	}
	return out
}
