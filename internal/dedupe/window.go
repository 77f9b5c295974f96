// ABOUTME: Thread-safe TTL window for suppressing repeated launch requests
// ABOUTME: Size-limited with oldest-first eviction and background cleanup of expired keys

package dedupe

import (
	"container/list"
	"sync"
	"time"
)

type entry struct {
	at      time.Time
	element *list.Element
}

// Window remembers keys for a fixed duration. Keys are evicted oldest first
// once maxSize is reached.
type Window struct {
	mu      sync.Mutex
	seen    map[string]*entry
	order   *list.List // keys in insertion order, oldest at front
	ttl     time.Duration
	maxSize int
	now     func() time.Time
	done    chan struct{}
	closed  bool
}

// Option configures a Window.
type Option func(*Window)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *Window) { w.now = now }
}

// New creates a window of the given length holding at most maxSize keys.
// A zero or negative ttl disables suppression. A background goroutine
// removes expired keys until Close.
func New(ttl time.Duration, maxSize int, opts ...Option) *Window {
	if maxSize < 1 {
		maxSize = 1
	}
	w := &Window{
		seen:    make(map[string]*entry),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	go w.cleanup()
	return w
}

// Recent reports whether key was marked within the window.
func (w *Window) Recent(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.recentLocked(key)
}

// Suppress atomically checks and marks key. It returns true when key was
// already marked within the window; the original mark is kept, so a stream
// of repeats does not extend the window. Otherwise key is marked and false
// is returned.
func (w *Window) Suppress(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.recentLocked(key) {
		return true
	}
	w.markLocked(key)
	return false
}

// Forget removes key so the next Suppress for it returns false.
func (w *Window) Forget(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.seen[key]; ok {
		w.order.Remove(e.element)
		delete(w.seen, key)
	}
}

// Len returns the number of keys held, expired or not.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.seen)
}

func (w *Window) recentLocked(key string) bool {
	if w.ttl <= 0 {
		return false
	}
	e, ok := w.seen[key]
	return ok && w.now().Sub(e.at) < w.ttl
}

// markLocked must be called with mu held.
func (w *Window) markLocked(key string) {
	if w.ttl <= 0 {
		return
	}
	now := w.now()

	if e, exists := w.seen[key]; exists {
		e.at = now
		w.order.MoveToBack(e.element)
		return
	}

	if len(w.seen) >= w.maxSize {
		w.evictOldest()
	}

	w.seen[key] = &entry{at: now, element: w.order.PushBack(key)}
}

func (w *Window) evictOldest() {
	front := w.order.Front()
	if front == nil {
		return
	}
	key, _ := front.Value.(string)
	w.order.Remove(front)
	delete(w.seen, key)
}

func (w *Window) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.removeExpired()
		case <-w.done:
			return
		}
	}
}

func (w *Window) removeExpired() {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	for key, e := range w.seen {
		if now.Sub(e.at) >= w.ttl {
			w.order.Remove(e.element)
			delete(w.seen, key)
		}
	}
}

// Close stops the background cleanup goroutine. It is safe to call multiple times.
func (w *Window) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.closed {
		close(w.done)
		w.closed = true
	}
}
