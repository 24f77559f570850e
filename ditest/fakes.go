package ditest

import (
	"sync"
	"sync/atomic"
)

// Counter counts calls.
type Counter struct {
	n atomic.Int64
}

// Inc increments the counter.
func (c *Counter) Inc() { c.n.Add(1) }

// Count returns the current count.
func (c *Counter) Count() int { return int(c.n.Load()) }

// Recorder records events in order.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

// Record appends an event.
func (r *Recorder) Record(event string) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// Equal reports whether the recorded events are exactly want.
func (r *Recorder) Equal(want ...string) bool {
	got := r.Events()
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
