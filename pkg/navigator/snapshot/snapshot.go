// Package snapshot persists navigation stacks so a session can be restored
// after the process restarts.
//
// A Snapshot captures one stack: the ordered path, the active sheet and
// cover, and where the stack sits in the tree. Destinations are stored as
// Entry values whose payload is opaque JSON; turning entries back into
// destination values is the caller's business (see navigator.Codec).
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Version is the current snapshot format version.
const Version = 1

// ErrVersionMismatch is returned by Unmarshal for snapshots written by an
// incompatible format version.
var ErrVersionMismatch = errors.New("snapshot version mismatch")

// Entry is one persisted destination.
type Entry struct {
	// Type is the registered name used to decode Data.
	Type string `json:"type"`
	// Identity is the destination's identity hash at save time.
	Identity uint64          `json:"identity"`
	Data     json.RawMessage `json:"data"`
}

// Snapshot is the persisted form of one navigation stack.
type Snapshot struct {
	Version   int       `json:"version"`
	SessionID string    `json:"session_id"`
	StackID   string    `json:"stack_id"`
	ParentID  string    `json:"parent_id,omitempty"`
	Placement string    `json:"placement,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	Path  []Entry `json:"path"`
	Sheet *Entry  `json:"sheet,omitempty"`
	Cover *Entry  `json:"cover,omitempty"`
}

// New creates a snapshot of a stack's path.
func New(sessionID, stackID string, path []Entry) *Snapshot {
	if path == nil {
		path = []Entry{}
	}
	return &Snapshot{
		Version:   Version,
		SessionID: sessionID,
		StackID:   stackID,
		Timestamp: time.Now().UTC(),
		Path:      path,
	}
}

// WithParent records the parent stack and placement.
func (s *Snapshot) WithParent(parentID, placement string) *Snapshot {
	s.ParentID = parentID
	s.Placement = placement
	return s
}

// WithSheet records the active sheet.
func (s *Snapshot) WithSheet(e Entry) *Snapshot {
	s.Sheet = &e
	return s
}

// WithCover records the active cover.
func (s *Snapshot) WithCover(e Entry) *Snapshot {
	s.Cover = &e
	return s
}

// Depth returns the number of entries on the path.
func (s *Snapshot) Depth() int {
	return len(s.Path)
}

// Marshal serializes a snapshot to JSON.
func (s *Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal deserializes a snapshot from JSON.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Version != Version {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, s.Version, Version)
	}
	return &s, nil
}
