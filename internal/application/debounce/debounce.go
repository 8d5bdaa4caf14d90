// Package debounce coalesces bursts of work per key. The autosave endpoint
// uses it so rapid field edits collapse into one draft write per window.
package debounce

import (
	"sync"
	"time"
)

// DefaultWindow matches the autosave coalescing window: edits within 500ms
// of each other produce a single write.
const DefaultWindow = 500 * time.Millisecond

// Debouncer runs the latest function triggered for a key once the key has
// been quiet for the window (trailing edge). Earlier triggers within the
// window are dropped; at most one window of work is lost on shutdown, which
// is the documented draft-autosave tradeoff.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	timers  map[string]*time.Timer
	pending map[string]func()
}

// New creates a Debouncer with the given coalescing window.
func New(window time.Duration) *Debouncer {
	return &Debouncer{
		window:  window,
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]func()),
	}
}

// Trigger schedules fn for the key, replacing any not-yet-fired work and
// restarting the key's window.
func (d *Debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[key] = fn
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.timers[key] = time.AfterFunc(d.window, func() { d.fire(key) })
}

// Cancel drops any pending work for the key without running it. Used when a
// draft is cleared so a trailing autosave cannot resurrect it.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[key]; ok {
		t.Stop()
		delete(d.timers, key)
	}
	delete(d.pending, key)
}

// Flush runs all pending work immediately. Called on shutdown.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	var fns []func()
	for key, fn := range d.pending {
		if t, ok := d.timers[key]; ok {
			t.Stop()
			delete(d.timers, key)
		}
		delete(d.pending, key)
		fns = append(fns, fn)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (d *Debouncer) fire(key string) {
	d.mu.Lock()
	fn, ok := d.pending[key]
	delete(d.pending, key)
	delete(d.timers, key)
	d.mu.Unlock()

	if ok && fn != nil {
		fn()
	}
}
