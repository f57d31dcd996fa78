package log

import "sync"

// DefaultRingSize is the history kept by a RingLogger created with size 0.
const DefaultRingSize = 128

// RingLogger keeps the most recent events in memory for diagnostics.
type RingLogger struct {
	mu     sync.Mutex
	events []Event
	next   int
	full   bool
}

// NewRingLogger creates a ring holding up to size events.
func NewRingLogger(size int) *RingLogger {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingLogger{events: make([]Event, size)}
}

// Log stores event, overwriting the oldest one when the ring is full.
func (r *RingLogger) Log(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[r.next] = event
	r.next = (r.next + 1) % len(r.events)
	if r.next == 0 {
		r.full = true
	}
}

// Events returns the stored events, oldest first.
func (r *RingLogger) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		return append([]Event(nil), r.events[:r.next]...)
	}
	out := make([]Event, 0, len(r.events))
	out = append(out, r.events[r.next:]...)
	return append(out, r.events[:r.next]...)
}

var _ Logger = (*RingLogger)(nil)
