package navigator

import (
	"errors"
	"fmt"
)

// Sentinel errors for session lifecycle.
var (
	// ErrSessionClosed indicates the session has been closed.
	ErrSessionClosed = errors.New("session closed")

	// ErrNilRouter indicates Route was called without a router.
	ErrNilRouter = errors.New("router cannot be nil")

	// ErrRunCancelled indicates an action list was dropped before it
	// finished, because its stack unmounted or the session closed.
	ErrRunCancelled = errors.New("action run cancelled")
)

// Sentinel errors for persistence.
var (
	// ErrUnknownDestination indicates a destination type that was never
	// registered with the codec.
	ErrUnknownDestination = errors.New("unknown destination type")

	// ErrNoCodec indicates persistence was attempted without a codec.
	ErrNoCodec = errors.New("no destination codec configured")

	// ErrParentNotMounted indicates a snapshot whose parent stack does not
	// exist, so the stack cannot be rebuilt.
	ErrParentNotMounted = errors.New("parent stack not mounted")
)

// SnapshotError wraps errors from saving or restoring a stack.
type SnapshotError struct {
	// StackID is the stack being saved or restored.
	StackID string
	// Op is the operation that failed ("encode", "decode", "save", "load").
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot %s for stack %s: %v", e.Op, e.StackID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *SnapshotError) Unwrap() error {
	return e.Err
}
