package session

import "sync"

// TypingTracker holds the per-user typing flag. State changes only on
// explicit client signals or disconnect; the server runs no expiry timer, so
// a client that dies without sending isTyping=false leaves its flag set.
// That matches the protocol's client-driven re-assertion policy.
type TypingTracker struct {
	mu     sync.Mutex
	active map[string]bool
}

// NewTypingTracker creates an empty tracker.
func NewTypingTracker() *TypingTracker {
	return &TypingTracker{
		active: make(map[string]bool),
	}
}

// Set records the typing flag for a display name.
func (t *TypingTracker) Set(username string, isTyping bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if isTyping {
		t.active[username] = true
	} else {
		delete(t.active, username)
	}
}

// Clear drops the flag for a display name, used on disconnect.
func (t *TypingTracker) Clear(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.active, username)
}

// IsTyping reports whether a display name is currently flagged as typing.
func (t *TypingTracker) IsTyping(username string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active[username]
}

// Active returns the display names currently flagged as typing.
func (t *TypingTracker) Active() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	names := make([]string, 0, len(t.active))
	for name := range t.active {
		names = append(names, name)
	}
	return names
}
