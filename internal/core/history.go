package core

import "sync"

// DefaultHistoryCapacity bounds the log when no explicit capacity is configured.
const DefaultHistoryCapacity = 100

// History is the bounded, append-only log of presence and message events.
// Late joiners replay it to catch up; once the capacity is reached the
// oldest events are evicted first.
type History struct {
	mu       sync.Mutex
	capacity int
	events   []Event
}

// NewHistory creates an empty log. Capacities below one fall back to
// DefaultHistoryCapacity.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultHistoryCapacity
	}
	return &History{
		capacity: capacity,
		events:   make([]Event, 0, capacity),
	}
}

// Append adds the event to the tail, evicting from the head when the log
// would exceed its capacity.
func (h *History) Append(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
	if len(h.events) > h.capacity {
		h.events = h.events[len(h.events)-h.capacity:]
	}
}

// Snapshot returns the current contents, oldest first. The returned slice is
// a copy; appends after the call do not show through.
func (h *History) Snapshot() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Event, len(h.events))
	copy(out, h.events)
	return out
}

// Len reports the number of retained events.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

// Capacity reports the configured bound.
func (h *History) Capacity() int {
	return h.capacity
}
