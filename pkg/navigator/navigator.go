package navigator

import (
	"context"
	"fmt"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"

	"github.com/randalmurphal/navigator/pkg/navigator/observability"
)

// RootID is the id of every session's root stack.
const RootID = "root"

// Placement is where a stack sits relative to its parent.
type Placement int

const (
	// PlacementRoot is the session's root stack.
	PlacementRoot Placement = iota
	// PlacementTab is one tab of a tabbed parent.
	PlacementTab
	// PlacementNested is a stack embedded in its parent's content.
	PlacementNested
	// PlacementSheet is a stack hosted in the parent's sheet.
	PlacementSheet
	// PlacementCover is a stack hosted in the parent's cover.
	PlacementCover
)

var placementNames = map[Placement]string{
	PlacementRoot:   "root",
	PlacementTab:    "tab",
	PlacementNested: "nested",
	PlacementSheet:  "sheet",
	PlacementCover:  "cover",
}

// String returns the placement name.
func (p Placement) String() string {
	if name, ok := placementNames[p]; ok {
		return name
	}
	return fmt.Sprintf("placement(%d)", int(p))
}

// ParsePlacement is the inverse of Placement.String.
func ParsePlacement(s string) (Placement, bool) {
	for p, name := range placementNames {
		if name == s {
			return p, true
		}
	}
	return 0, false
}

// ChangeKind classifies a Change.
type ChangeKind int

// Change kinds.
const (
	ChangePush ChangeKind = iota
	ChangePop
	ChangeSheet
	ChangeCover
	ChangeDismiss
	ChangeMount
	ChangeUnmount
	ChangeRestore
)

// String returns the change name.
func (k ChangeKind) String() string {
	switch k {
	case ChangePush:
		return "push"
	case ChangePop:
		return "pop"
	case ChangeSheet:
		return "sheet"
	case ChangeCover:
		return "cover"
	case ChangeDismiss:
		return "dismiss"
	case ChangeMount:
		return "mount"
	case ChangeUnmount:
		return "unmount"
	case ChangeRestore:
		return "restore"
	default:
		return fmt.Sprintf("change(%d)", int(k))
	}
}

// Change describes one state change, for observers registered with
// WithObserver.
type Change struct {
	NavigatorID string
	Kind        ChangeKind
	// Destination is the pushed, presented or dismissed destination, when
	// there is one.
	Destination AnyDestination
	// Depth is the path length after the change.
	Depth int
}

// Navigator drives one navigation stack.
//
// Navigators are created by Session (the root) and Mount (everything
// else). A Navigator refers to its parent and children by id only.
type Navigator struct {
	id        string
	parentID  string
	placement Placement
	session   *Session
	state     *NavigationState
	logger    *slog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	mounted atomic.Bool

	// Pending delayed resumes, stopped on unmount.
	resumes   map[uint64]Timer
	resumeSeq uint64
}

func newNavigator(s *Session, id, parentID string, placement Placement, parentCtx context.Context) *Navigator {
	ctx, cancel := context.WithCancel(parentCtx)
	n := &Navigator{
		id:        id,
		parentID:  parentID,
		placement: placement,
		session:   s,
		state:     newNavigationState(),
		logger:    observability.EnrichLogger(s.logger, s.id, id),
		ctx:       ctx,
		cancel:    cancel,
		resumes:   make(map[uint64]Timer),
	}
	n.mounted.Store(true)
	return n
}

// ID returns the stack id.
func (n *Navigator) ID() string { return n.id }

// ParentID returns the parent stack id, or "" for the root.
func (n *Navigator) ParentID() string { return n.parentID }

// Placement returns where the stack sits in its parent.
func (n *Navigator) Placement() Placement { return n.placement }

// Session returns the owning session.
func (n *Navigator) Session() *Session { return n.session }

// Context is cancelled when the stack unmounts.
func (n *Navigator) Context() context.Context { return n.ctx }

// Logger returns the stack's logger.
func (n *Navigator) Logger() *slog.Logger { return n.logger }

// IsMounted reports whether the stack is still part of the tree.
// Safe from any goroutine.
func (n *Navigator) IsMounted() bool { return n.mounted.Load() }

// State returns the stack's state for reading.
func (n *Navigator) State() *NavigationState { return n.state }

// IsEmpty reports whether the path is empty. Safe from any goroutine.
func (n *Navigator) IsEmpty() bool { return n.state.IsEmpty() }

// Count returns the path length. Safe from any goroutine.
func (n *Navigator) Count() int { return n.state.Count() }

// Path returns a copy of the path.
func (n *Navigator) Path() []AnyDestination { return n.state.Path() }

// Top returns the last pushed destination.
func (n *Navigator) Top() (AnyDestination, bool) { return n.state.Top() }

// Sheet returns the active sheet.
func (n *Navigator) Sheet() (AnyDestination, bool) { return n.state.Sheet() }

// Cover returns the active cover.
func (n *Navigator) Cover() (AnyDestination, bool) { return n.state.Cover() }

// Navigate presents d using its own method.
func (n *Navigator) Navigate(d any) {
	dest := Wrap(d)
	n.NavigateVia(dest, dest.Method())
}

// NavigateVia presents d using m instead of its own method.
func (n *Navigator) NavigateVia(d any, m Method) {
	dest := Wrap(d)
	if !n.IsMounted() {
		observability.LogIgnored(n.logger, n.id, "navigate", "not mounted")
		return
	}
	if dest.IsZero() {
		observability.LogIgnored(n.logger, n.id, "navigate", "nil destination")
		return
	}
	observability.LogNavigate(n.logger, n.id, dest.String(), m.String())

	switch m {
	case MethodSend:
		n.Send(dest.Value())
	case MethodSheet:
		n.presentSheet(dest)
	case MethodCover:
		if n.session.cfg.coverSupported {
			n.presentCover(dest)
		} else {
			n.presentSheet(dest)
		}
	default:
		n.push(dest)
	}
}

// Push appends d to the path. Duplicates are allowed.
func (n *Navigator) Push(d any) {
	n.NavigateVia(d, MethodPush)
}

func (n *Navigator) push(dest AnyDestination) {
	n.state.push(dest)
	n.session.cfg.metrics.RecordNavigation(n.ctx, n.id, MethodPush.String())
	n.notify(ChangePush, dest)
}

func (n *Navigator) presentSheet(dest AnyDestination) {
	if current, ok := n.state.Sheet(); ok {
		if current.Equal(dest) {
			observability.LogIgnored(n.logger, n.id, "sheet", "already presented")
			return
		}
		n.unmountChildren(PlacementSheet)
	}
	n.state.setSheet(dest)
	n.session.cfg.metrics.RecordNavigation(n.ctx, n.id, MethodSheet.String())
	n.notify(ChangeSheet, dest)
}

func (n *Navigator) presentCover(dest AnyDestination) {
	if current, ok := n.state.Cover(); ok {
		if current.Equal(dest) {
			observability.LogIgnored(n.logger, n.id, "cover", "already presented")
			return
		}
		n.unmountChildren(PlacementCover)
	}
	n.state.setCover(dest)
	n.session.cfg.metrics.RecordNavigation(n.ctx, n.id, MethodCover.String())
	n.notify(ChangeCover, dest)
}

// Pop removes the top of the path.
func (n *Navigator) Pop() bool {
	return n.PopLast(1)
}

// PopTo truncates the path to position entries. It fails, leaving the path
// alone, unless 0 <= position <= Count().
func (n *Navigator) PopTo(position int) bool {
	if !n.IsMounted() || !n.state.popTo(position) {
		observability.LogIgnored(n.logger, n.id, "pop_to", "position out of range")
		return false
	}
	n.notify(ChangePop, AnyDestination{})
	return true
}

// PopLast removes the last k entries. It fails, leaving the path alone,
// unless 0 <= k <= Count().
func (n *Navigator) PopLast(k int) bool {
	if !n.IsMounted() || !n.state.popLast(k) {
		observability.LogIgnored(n.logger, n.id, "pop_last", "count out of range")
		return false
	}
	n.notify(ChangePop, AnyDestination{})
	return true
}

// PopAll empties the path and reports whether anything was removed.
func (n *Navigator) PopAll() bool {
	if !n.IsMounted() || !n.state.popAll() {
		return false
	}
	n.notify(ChangePop, AnyDestination{})
	return true
}

// Dismiss dismisses the sheet or cover that hosts this stack.
func (n *Navigator) Dismiss() bool {
	parent, ok := n.Parent()
	if !ok {
		return false
	}
	switch n.placement {
	case PlacementSheet:
		return parent.dismissSheet()
	case PlacementCover:
		return parent.dismissCover()
	}
	return false
}

// DismissPresented dismisses this stack's own sheet and cover.
func (n *Navigator) DismissPresented() bool {
	sheet := n.dismissSheet()
	cover := n.dismissCover()
	return sheet || cover
}

// DismissAny dismisses this stack's modal or, failing that, the first
// modal found below it. Dismissing a modal unmounts everything presented
// inside it.
func (n *Navigator) DismissAny() bool {
	if n.DismissPresented() {
		return true
	}
	for _, child := range n.Children() {
		if child.DismissAny() {
			return true
		}
	}
	return false
}

// DismissAll dismisses every modal on this stack and below.
func (n *Navigator) DismissAll() bool {
	changed := n.DismissPresented()
	for _, child := range n.Children() {
		if child.DismissAll() {
			changed = true
		}
	}
	return changed
}

func (n *Navigator) dismissSheet() bool {
	dest := n.state.sheet
	if !n.state.clearSheet() {
		return false
	}
	n.unmountChildren(PlacementSheet)
	n.notify(ChangeDismiss, dest)
	return true
}

func (n *Navigator) dismissCover() bool {
	dest := n.state.cover
	if !n.state.clearCover() {
		return false
	}
	n.unmountChildren(PlacementCover)
	n.notify(ChangeDismiss, dest)
	return true
}

// reset dismisses every modal and empties every path in the subtree.
func (n *Navigator) reset() {
	n.DismissAll()
	for _, nav := range n.subtree() {
		nav.PopAll()
	}
}

// Mount creates a child stack, or returns the existing stack with that
// id. An empty id gets a generated one. Returns nil when n itself is no
// longer mounted.
func (n *Navigator) Mount(id string, placement Placement) *Navigator {
	if !n.IsMounted() {
		observability.LogIgnored(n.logger, n.id, "mount", "parent not mounted")
		return nil
	}
	return n.session.mount(n, id, placement)
}

// Unmount removes the stack and everything below it. Receivers, pending
// resumes, checkpoints and action lists owned by those stacks are dropped.
// The root cannot be unmounted; close the session instead.
func (n *Navigator) Unmount() bool {
	if n.parentID == "" {
		observability.LogIgnored(n.logger, n.id, "unmount", "root stack")
		return false
	}
	return n.unmount()
}

func (n *Navigator) unmount() bool {
	if !n.mounted.CompareAndSwap(true, false) {
		return false
	}
	for _, child := range n.Children() {
		child.unmount()
	}

	for key, t := range n.resumes {
		t.Stop()
		delete(n.resumes, key)
	}
	n.session.release(n)
	n.cancel()
	n.session.registry.Unmount(n.id)
	n.notify(ChangeUnmount, AnyDestination{})
	return true
}

func (n *Navigator) unmountChildren(placement Placement) {
	for _, child := range n.Children() {
		if child.placement == placement {
			child.unmount()
		}
	}
}

// Parent returns the parent stack.
func (n *Navigator) Parent() (*Navigator, bool) {
	if n.parentID == "" {
		return nil, false
	}
	return n.session.registry.Lookup(n.parentID)
}

// Children returns the direct child stacks in mount order.
func (n *Navigator) Children() []*Navigator {
	return n.session.registry.Filter(func(c *Navigator) bool {
		return c.parentID == n.id
	})
}

// Root returns the session's root stack.
func (n *Navigator) Root() *Navigator {
	return n.session.root
}

// Find returns the stack with the given id if it is n or below n.
func (n *Navigator) Find(id string) (*Navigator, bool) {
	nav, ok := n.session.registry.Lookup(id)
	if !ok {
		return nil, false
	}
	for cur := nav; ; {
		if cur == n {
			return nav, true
		}
		next, ok := cur.Parent()
		if !ok {
			return nil, false
		}
		cur = next
	}
}

// subtree lists n and its descendants breadth first.
func (n *Navigator) subtree() []*Navigator {
	visited := mapset.NewThreadUnsafeSet(n.id)
	out := []*Navigator{n}
	for i := 0; i < len(out); i++ {
		for _, child := range out[i].Children() {
			if visited.Add(child.id) {
				out = append(out, child)
			}
		}
	}
	return out
}

func (n *Navigator) notify(kind ChangeKind, dest AnyDestination) {
	if fn := n.session.cfg.observer; fn != nil {
		fn(Change{
			NavigatorID: n.id,
			Kind:        kind,
			Destination: dest,
			Depth:       n.state.Count(),
		})
	}
}
