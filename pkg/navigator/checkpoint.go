package navigator

import (
	"github.com/randalmurphal/navigator/pkg/navigator/observability"
)

// Checkpoint is a named marker of a stack's depth and presentation state.
type Checkpoint struct {
	Name    string
	StackID string
	// Depth is the path length at capture.
	Depth int
	// Sheet and Cover record whether each modal was active at capture.
	Sheet bool
	Cover bool
	// Data is whatever the caller attached with CheckpointWith.
	Data any
	// Sequence orders captures within a session.
	Sequence uint64
}

// Checkpoint captures this stack's current depth and presentation state
// under name. Names are unique per session: capturing an existing name
// moves it here.
func (n *Navigator) Checkpoint(name string) {
	n.CheckpointWith(name, nil)
}

// CheckpointWith captures a checkpoint carrying data.
func (n *Navigator) CheckpointWith(name string, data any) {
	if !n.IsMounted() || name == "" {
		observability.LogIgnored(n.logger, n.id, "checkpoint", "not mounted or unnamed")
		return
	}
	s := n.session
	if prevID, ok := s.checkpoints[name]; ok && prevID != n.id {
		if prev, ok := s.registry.Lookup(prevID); ok {
			delete(prev.state.checkpoints, name)
		}
	}

	_, sheet := n.state.Sheet()
	_, cover := n.state.Cover()
	n.state.checkpoints[name] = Checkpoint{
		Name:     name,
		StackID:  n.id,
		Depth:    n.state.Count(),
		Sheet:    sheet,
		Cover:    cover,
		Data:     data,
		Sequence: s.checkpointSeq.Inc(),
	}
	s.checkpoints[name] = n.id
	observability.LogCheckpoint(n.logger, "captured", name, n.id, n.state.Count())
}

// LookupCheckpoint finds a checkpoint anywhere in the session.
func (s *Session) LookupCheckpoint(name string) (Checkpoint, bool) {
	stackID, ok := s.checkpoints[name]
	if !ok {
		return Checkpoint{}, false
	}
	nav, ok := s.registry.Lookup(stackID)
	if !ok {
		return Checkpoint{}, false
	}
	return nav.state.Checkpoint(name)
}

// ReturnToCheckpoint restores the stack that captured name: its path is
// truncated to the captured depth, modals that were not active at capture
// are dismissed, and so is every modal presented below it. Unknown names
// and unmounted stacks make this a no-op that returns false.
func (n *Navigator) ReturnToCheckpoint(name string) bool {
	_, ok := n.session.returnToCheckpoint(name)
	return ok
}

// ReturnToCheckpointWith returns to name and then hands value to the
// OnCheckpointReturn handlers registered for it.
func (n *Navigator) ReturnToCheckpointWith(name string, value any) bool {
	nav, ok := n.session.returnToCheckpoint(name)
	if !ok {
		return false
	}
	n.session.deliverCheckpoint(nav, name, value)
	return true
}

func (s *Session) returnToCheckpoint(name string) (*Navigator, bool) {
	stackID, ok := s.checkpoints[name]
	if !ok {
		observability.LogIgnored(s.root.logger, s.root.id, "return_to_checkpoint", "unknown checkpoint "+name)
		return nil, false
	}
	nav, ok := s.registry.Lookup(stackID)
	if !ok || !nav.IsMounted() {
		observability.LogIgnored(s.root.logger, s.root.id, "return_to_checkpoint", "stack not mounted")
		return nil, false
	}
	cp, ok := nav.state.Checkpoint(name)
	if !ok {
		return nil, false
	}

	nav.restoreCheckpoint(cp)
	observability.LogCheckpoint(nav.logger, "restored", name, nav.id, nav.state.Count())
	return nav, true
}

func (n *Navigator) restoreCheckpoint(cp Checkpoint) {
	if n.state.Count() > cp.Depth {
		n.PopTo(cp.Depth)
	}
	if !cp.Sheet {
		n.dismissSheet()
	}
	if !cp.Cover {
		n.dismissCover()
	}
	for _, child := range n.Children() {
		child.DismissAll()
	}
}

func (s *Session) deliverCheckpoint(nav *Navigator, name string, value any) int {
	delivered := 0
	for _, r := range s.orderedReceivers() {
		if r.checkpoint != name || !r.accepting() {
			continue
		}
		if _, ok := r.deliver(value); ok {
			delivered++
		}
	}
	observability.LogReceive(nav.logger, nav.id, name, "checkpoint")
	return delivered
}
