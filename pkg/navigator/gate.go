package navigator

import "sync"

// Gate is the rendezvous AuthenticationRequired waits on. Done is closed
// once the gate has been passed, for example when the user has logged in.
type Gate interface {
	Done() <-chan struct{}
}

// gateOpen reports whether g has already been signalled.
func gateOpen(g Gate) bool {
	select {
	case <-g.Done():
		return true
	default:
		return false
	}
}

// AuthGate is a resettable Gate. Signal opens it; Reset closes it again
// for the next wait.
type AuthGate struct {
	mu   sync.Mutex
	ch   chan struct{}
	open bool
}

var _ Gate = (*AuthGate)(nil)

// NewAuthGate creates a closed gate.
func NewAuthGate() *AuthGate {
	return &AuthGate{ch: make(chan struct{})}
}

// Done implements Gate.
func (g *AuthGate) Done() <-chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ch
}

// Signal opens the gate and releases every waiter. Safe to call more than
// once and from any goroutine.
func (g *AuthGate) Signal() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.open {
		g.open = true
		close(g.ch)
	}
}

// Reset closes an open gate. Waiters already released are unaffected.
func (g *AuthGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.open {
		g.open = false
		g.ch = make(chan struct{})
	}
}

// IsOpen reports whether the gate has been signalled since the last Reset.
func (g *AuthGate) IsOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open
}
