package snapshot

import (
	"context"
	"errors"
	"time"
)

// Store persists stack snapshots keyed by (session id, stack id).
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a snapshot, replacing any earlier one for the same stack
	// and bumping its revision.
	Save(ctx context.Context, snap *Snapshot) error

	// Load retrieves the latest snapshot of a stack.
	// Returns ErrNotFound if none exists.
	Load(ctx context.Context, sessionID, stackID string) (*Snapshot, error)

	// List returns metadata for every stack saved under a session, ordered
	// by first save. An unknown session yields an empty slice.
	List(ctx context.Context, sessionID string) ([]Info, error)

	// Delete removes one stack's snapshot. Missing snapshots are not an
	// error.
	Delete(ctx context.Context, sessionID, stackID string) error

	// DeleteSession removes every snapshot of a session.
	DeleteSession(ctx context.Context, sessionID string) error

	// Close releases any resources.
	Close() error
}

// Info describes a stored snapshot without decoding it.
type Info struct {
	SessionID string
	StackID   string
	ParentID  string
	Revision  int
	Depth     int
	Timestamp time.Time
	Size      int64
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates no snapshot exists for the stack.
	ErrNotFound = errors.New("snapshot not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("snapshot store closed")

	// ErrInvalidSnapshot indicates a snapshot without a session or stack id.
	ErrInvalidSnapshot = errors.New("snapshot missing session or stack id")
)

func validate(snap *Snapshot) error {
	if snap == nil || snap.SessionID == "" || snap.StackID == "" {
		return ErrInvalidSnapshot
	}
	return nil
}
