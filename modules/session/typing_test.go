package session

import "testing"

func TestTypingTracker_SetAndClear(t *testing.T) {
	tr := NewTypingTracker()

	tr.Set("Alice", true)
	if !tr.IsTyping("Alice") {
		t.Error("IsTyping(Alice) = false after Set(true)")
	}

	// Repeated assertion is a no-op, not an error.
	tr.Set("Alice", true)
	if got := len(tr.Active()); got != 1 {
		t.Errorf("Active() length = %d, want 1", got)
	}

	tr.Set("Alice", false)
	if tr.IsTyping("Alice") {
		t.Error("IsTyping(Alice) = true after Set(false)")
	}

	tr.Set("Bob", true)
	tr.Clear("Bob")
	if tr.IsTyping("Bob") {
		t.Error("IsTyping(Bob) = true after Clear")
	}
	if got := len(tr.Active()); got != 0 {
		t.Errorf("Active() length = %d, want 0", got)
	}
}

func TestTypingTracker_FlagPersistsWithoutSignal(t *testing.T) {
	tr := NewTypingTracker()

	// No expiry timer: a flag stays set until the client or a disconnect
	// clears it.
	tr.Set("Alice", true)
	if !tr.IsTyping("Alice") {
		t.Fatal("IsTyping(Alice) = false, want true")
	}

	tr.Set("Bob", false)
	if tr.IsTyping("Bob") {
		t.Error("IsTyping(Bob) = true, never set")
	}
	if !tr.IsTyping("Alice") {
		t.Error("IsTyping(Alice) dropped by unrelated signal")
	}
}
