package navigator

import (
	"sort"

	"go.uber.org/atomic"
)

// NavigationState is the mutable state of one stack: its path, its sheet
// and cover, and the checkpoints captured on it.
//
// The state is owned by its Navigator and changes only through it. Count
// and IsEmpty may be read from any goroutine; everything else belongs to
// the scheduler context.
type NavigationState struct {
	path        []AnyDestination
	sheet       AnyDestination
	cover       AnyDestination
	checkpoints map[string]Checkpoint

	// count mirrors len(path) for readers off the scheduler.
	count atomic.Int64
}

func newNavigationState() *NavigationState {
	return &NavigationState{
		checkpoints: make(map[string]Checkpoint),
	}
}

// Path returns a copy of the path, bottom first.
func (s *NavigationState) Path() []AnyDestination {
	out := make([]AnyDestination, len(s.path))
	copy(out, s.path)
	return out
}

// Top returns the last pushed destination.
func (s *NavigationState) Top() (AnyDestination, bool) {
	if len(s.path) == 0 {
		return AnyDestination{}, false
	}
	return s.path[len(s.path)-1], true
}

// Sheet returns the active sheet.
func (s *NavigationState) Sheet() (AnyDestination, bool) {
	return s.sheet, !s.sheet.IsZero()
}

// Cover returns the active cover.
func (s *NavigationState) Cover() (AnyDestination, bool) {
	return s.cover, !s.cover.IsZero()
}

// IsPresenting reports whether a sheet or cover is active.
func (s *NavigationState) IsPresenting() bool {
	return !s.sheet.IsZero() || !s.cover.IsZero()
}

// Count returns the path length. Safe from any goroutine.
func (s *NavigationState) Count() int {
	return int(s.count.Load())
}

// IsEmpty reports whether the path is empty. Safe from any goroutine.
func (s *NavigationState) IsEmpty() bool {
	return s.count.Load() == 0
}

// Checkpoint returns the named checkpoint captured on this stack.
func (s *NavigationState) Checkpoint(name string) (Checkpoint, bool) {
	cp, ok := s.checkpoints[name]
	return cp, ok
}

// Checkpoints returns the checkpoints on this stack in capture order.
func (s *NavigationState) Checkpoints() []Checkpoint {
	out := make([]Checkpoint, 0, len(s.checkpoints))
	for _, cp := range s.checkpoints {
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

func (s *NavigationState) sync() {
	s.count.Store(int64(len(s.path)))
}

func (s *NavigationState) push(d AnyDestination) {
	s.path = append(s.path, d)
	s.sync()
}

// popTo truncates the path to position entries.
func (s *NavigationState) popTo(position int) bool {
	if position < 0 || position > len(s.path) {
		return false
	}
	clear(s.path[position:])
	s.path = s.path[:position]
	s.sync()
	return true
}

// popLast removes the last k entries.
func (s *NavigationState) popLast(k int) bool {
	if k < 0 || k > len(s.path) {
		return false
	}
	return s.popTo(len(s.path) - k)
}

// popAll empties the path and reports whether anything was removed.
func (s *NavigationState) popAll() bool {
	if len(s.path) == 0 {
		return false
	}
	return s.popTo(0)
}

// replacePath swaps in a restored path.
func (s *NavigationState) replacePath(path []AnyDestination) {
	s.path = path
	s.sync()
}

// setSheet presents d unless it is already the active sheet.
func (s *NavigationState) setSheet(d AnyDestination) bool {
	if s.sheet.Equal(d) {
		return false
	}
	s.sheet = d
	return true
}

// setCover presents d unless it is already the active cover.
func (s *NavigationState) setCover(d AnyDestination) bool {
	if s.cover.Equal(d) {
		return false
	}
	s.cover = d
	return true
}

func (s *NavigationState) clearSheet() bool {
	if s.sheet.IsZero() {
		return false
	}
	s.sheet = AnyDestination{}
	return true
}

func (s *NavigationState) clearCover() bool {
	if s.cover.IsZero() {
		return false
	}
	s.cover = AnyDestination{}
	return true
}
