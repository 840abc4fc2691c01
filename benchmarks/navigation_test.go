package benchmarks

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/randalmurphal/navigator/pkg/navigator"
	"github.com/randalmurphal/navigator/pkg/navigator/navtest"
)

// Page is a plain pushed destination.
type Page struct {
	N int
}

// Detail carries a larger payload, hashed for identity on every push.
type Detail struct {
	ID       string
	Tags     []string
	Metadata map[string]string
}

// Note is a broadcast payload.
type Note string

func stackID(n int) string {
	return fmt.Sprintf("stack-%d", n)
}

func newSession(b *testing.B, opts ...navigator.Option) (*navigator.Session, *navtest.Scheduler) {
	b.Helper()
	sched := navtest.NewScheduler()
	base := []navigator.Option{
		navigator.WithScheduler(sched),
		navigator.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	s := navigator.NewSession(append(base, opts...)...)
	b.Cleanup(s.Close)
	return s, sched
}

// mountTree mounts width tabs under the root, each with a nested chain of
// depth stacks.
func mountTree(s *navigator.Session, width, depth int) {
	for w := 0; w < width; w++ {
		parent := s.Root().Mount(stackID(w), navigator.PlacementTab)
		for d := 0; d < depth; d++ {
			parent = parent.Mount(fmt.Sprintf("%s-%d", stackID(w), d), navigator.PlacementNested)
		}
	}
}

// BenchmarkWrap measures boxing a destination.
func BenchmarkWrap(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = navigator.Wrap(Page{N: i})
	}
}

// BenchmarkWrap_Large measures boxing a destination with a larger payload.
func BenchmarkWrap_Large(b *testing.B) {
	d := Detail{
		ID:       "detail-1",
		Tags:     []string{"a", "b", "c"},
		Metadata: map[string]string{"k1": "v1", "k2": "v2"},
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = navigator.Wrap(d)
	}
}

// BenchmarkPushPop measures one push followed by one pop.
func BenchmarkPushPop(b *testing.B) {
	s, _ := newSession(b)
	root := s.Root()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		root.Push(Page{N: i})
		root.Pop()
	}
}

// BenchmarkPush_100_PopAll measures filling a stack and clearing it.
func BenchmarkPush_100_PopAll(b *testing.B) {
	s, _ := newSession(b)
	root := s.Root()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for n := 0; n < 100; n++ {
			root.Push(Page{N: n})
		}
		root.PopAll()
	}
}

// BenchmarkSheet_Dedup measures re-presenting the active sheet.
func BenchmarkSheet_Dedup(b *testing.B) {
	s, _ := newSession(b)
	root := s.Root()
	root.NavigateVia(Page{N: 1}, navigator.MethodSheet)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		root.NavigateVia(Page{N: 1}, navigator.MethodSheet)
	}
}

// BenchmarkMountUnmount measures mounting and unmounting a tab with a
// nested chain under it.
func BenchmarkMountUnmount(b *testing.B) {
	s, _ := newSession(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tab := s.Root().Mount("tab", navigator.PlacementTab)
		parent := tab
		for d := 0; d < 5; d++ {
			parent = parent.Mount(fmt.Sprintf("tab-%d", d), navigator.PlacementNested)
		}
		tab.Unmount()
	}
}

// BenchmarkDismissAll_Tree measures DismissAll over a 10x5 tree.
func BenchmarkDismissAll_Tree(b *testing.B) {
	s, _ := newSession(b)
	mountTree(s, 10, 5)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Root().DismissAll()
	}
}
