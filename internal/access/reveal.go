// ABOUTME: Repeated-tap gesture that reveals the hidden vault
// ABOUTME: Counts taps on one affordance within a rolling inactivity window

package access

import (
	"sync"
	"time"
)

// Gesture defaults
const (
	DefaultRevealTaps   = 5
	DefaultRevealWindow = 2 * time.Second
)

// RevealGesture counts taps toward revealing the vault. It is safe for
// concurrent use.
type RevealGesture struct {
	mu        sync.Mutex
	threshold int
	window    time.Duration
	now       func() time.Time

	count    int
	lastTap  time.Time
	revealed bool
}

// RevealOption configures a RevealGesture.
type RevealOption func(*RevealGesture)

// WithClock overrides the time source.
func WithClock(now func() time.Time) RevealOption {
	return func(g *RevealGesture) { g.now = now }
}

// NewRevealGesture creates a gesture that reveals after threshold taps, each
// within window of the previous one. Non-positive values use the defaults.
func NewRevealGesture(threshold int, window time.Duration, opts ...RevealOption) *RevealGesture {
	if threshold <= 0 {
		threshold = DefaultRevealTaps
	}
	if window <= 0 {
		window = DefaultRevealWindow
	}
	g := &RevealGesture{threshold: threshold, window: window, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Tap registers a tap on the affordance and reports whether this tap
// revealed the vault.
func (g *RevealGesture) Tap() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if g.count > 0 && now.Sub(g.lastTap) > g.window {
		g.count = 0
	}
	g.count++
	g.lastTap = now

	if g.count >= g.threshold {
		g.count = 0
		g.revealed = true
		return true
	}
	return false
}

// Miss registers activity outside the affordance and resets the counter.
func (g *RevealGesture) Miss() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.count = 0
}

// Count returns the taps counted so far, accounting for window expiry.
func (g *RevealGesture) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.count > 0 && g.now().Sub(g.lastTap) > g.window {
		g.count = 0
	}
	return g.count
}

// Revealed reports whether the vault is showing.
func (g *RevealGesture) Revealed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.revealed
}

// Close hides the vault.
func (g *RevealGesture) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.revealed = false
	g.count = 0
}
