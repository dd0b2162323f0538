package stats

import "sync"

// Counters accumulates relay activity observed from the session module's
// domain events. Everything here is advisory: delivery to clients never
// waits on it.
type Counters struct {
	mu            sync.Mutex
	joins         uint64
	leaves        uint64
	messages      uint64
	typingSignals uint64
	currentOnline int
	peakOnline    int
}

// NewCounters creates a zeroed counter set.
func NewCounters() *Counters {
	return &Counters{}
}

// RecordJoin notes a completed join and the resulting online count.
func (c *Counters) RecordJoin(online int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.joins++
	c.currentOnline = online
	if online > c.peakOnline {
		c.peakOnline = online
	}
}

// RecordLeave notes a disconnect and the resulting online count.
func (c *Counters) RecordLeave(online int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.leaves++
	c.currentOnline = online
}

// RecordMessage notes one relayed chat line.
func (c *Counters) RecordMessage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages++
}

// RecordTyping notes one typing signal, in either direction.
func (c *Counters) RecordTyping() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.typingSignals++
}

// Snapshot returns a consistent copy of all counters.
func (c *Counters) Snapshot() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Summary{
		Joins:         c.joins,
		Leaves:        c.leaves,
		Messages:      c.messages,
		TypingSignals: c.typingSignals,
		CurrentOnline: c.currentOnline,
		PeakOnline:    c.peakOnline,
	}
}

// Summary is a point-in-time view of the counters.
type Summary struct {
	Joins         uint64 `json:"joins"`
	Leaves        uint64 `json:"leaves"`
	Messages      uint64 `json:"messages"`
	TypingSignals uint64 `json:"typing_signals"`
	CurrentOnline int    `json:"current_online"`
	PeakOnline    int    `json:"peak_online"`
}
