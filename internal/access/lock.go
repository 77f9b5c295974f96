// ABOUTME: Locked/unlocked state machine guarding the whole launcher UI
// ABOUTME: Transitions only through explicit lock, successful verification or code removal

package access

import "sync"

// LockState is the state of the lock gate.
type LockState int

// Lock states
const (
	Unlocked LockState = iota
	Locked
)

func (s LockState) String() string {
	if s == Locked {
		return "locked"
	}
	return "unlocked"
}

// LockGate tracks whether the UI is usable. It is safe for concurrent use.
type LockGate struct {
	mu      sync.Mutex
	state   LockState
	hasCode bool
}

// NewLockGate returns a gate for a session that starts with or without a
// lock code. A session with a code starts Locked.
func NewLockGate(hasCode bool) *LockGate {
	g := &LockGate{hasCode: hasCode}
	if hasCode {
		g.state = Locked
	}
	return g
}

// State returns the current state.
func (g *LockGate) State() LockState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// IsUnlocked reports whether the UI may be shown.
func (g *LockGate) IsUnlocked() bool {
	return g.State() == Unlocked
}

// HasCode reports whether a lock code is configured.
func (g *LockGate) HasCode() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hasCode
}

// Lock locks the UI. It has no effect, and returns false, when no code is set.
func (g *LockGate) Lock() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.hasCode {
		return false
	}
	g.state = Locked
	return true
}

// Verified records the outcome of a code verification. Only a successful
// one unlocks; a failed one leaves the state as it was.
func (g *LockGate) Verified(ok bool) {
	if !ok {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = Unlocked
}

// CodeChanged records that the lock code was set or removed. Setting a code
// while unlocked does not lock; removing it always unlocks.
func (g *LockGate) CodeChanged(hasCode bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hasCode = hasCode
	if !hasCode {
		g.state = Unlocked
	}
}

// Reset starts a new session: Locked when a code is set, Unlocked otherwise.
func (g *LockGate) Reset(hasCode bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hasCode = hasCode
	g.state = Unlocked
	if hasCode {
		g.state = Locked
	}
}
