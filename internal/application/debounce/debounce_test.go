package debounce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestTrigger_CoalescesBurst(t *testing.T) {
	d := New(30 * time.Millisecond)
	var calls atomic.Int32
	var last atomic.Int32

	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Trigger("k", func() {
			calls.Add(1)
			last.Store(n)
		})
	}

	time.Sleep(100 * time.Millisecond)
	if calls.Load() != 1 {
		t.Errorf("burst should coalesce into one call, got %d", calls.Load())
	}
	if last.Load() != 5 {
		t.Errorf("latest trigger should win, got %d", last.Load())
	}
}

func TestTrigger_KeysAreIndependent(t *testing.T) {
	d := New(20 * time.Millisecond)
	var mu sync.Mutex
	fired := map[string]int{}

	record := func(key string) func() {
		return func() {
			mu.Lock()
			fired[key]++
			mu.Unlock()
		}
	}
	d.Trigger("a", record("a"))
	d.Trigger("b", record("b"))

	time.Sleep(80 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if fired["a"] != 1 || fired["b"] != 1 {
		t.Errorf("each key should fire once, got %v", fired)
	}
}

func TestCancel(t *testing.T) {
	d := New(20 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger("k", func() { calls.Add(1) })
	d.Cancel("k")

	time.Sleep(60 * time.Millisecond)
	if calls.Load() != 0 {
		t.Errorf("cancelled work must not run, got %d calls", calls.Load())
	}
}

func TestFlush_RunsPendingNow(t *testing.T) {
	d := New(time.Hour)
	var calls atomic.Int32
	d.Trigger("a", func() { calls.Add(1) })
	d.Trigger("b", func() { calls.Add(1) })

	d.Flush()
	if calls.Load() != 2 {
		t.Errorf("flush should run all pending work, got %d", calls.Load())
	}

	// Nothing left to fire afterwards.
	time.Sleep(20 * time.Millisecond)
	if calls.Load() != 2 {
		t.Errorf("flush must clear pending work, got %d", calls.Load())
	}
}
