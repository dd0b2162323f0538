package broadcast

import (
	"testing"

	"github.com/go-monolith/mono/pkg/types"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)         {}
func (m *mockLogger) Info(msg string, args ...any)          {}
func (m *mockLogger) Warn(msg string, args ...any)          {}
func (m *mockLogger) Error(msg string, args ...any)         {}
func (m *mockLogger) With(args ...any) types.Logger         { return m }
func (m *mockLogger) WithError(err error) types.Logger      { return m }
func (m *mockLogger) WithModule(module string) types.Logger { return m }

func drainOne(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case payload, ok := <-c.Outbound():
		if !ok {
			t.Fatal("outbound channel closed unexpectedly")
		}
		return payload
	default:
		t.Fatal("no payload queued")
		return nil
	}
}

func TestHub_SendTo(t *testing.T) {
	hub := NewHub(4, &mockLogger{})
	client := hub.Register("c1")

	if !hub.SendTo("c1", []byte("hello")) {
		t.Fatal("SendTo(c1) = false, want true")
	}
	if got := string(drainOne(t, client)); got != "hello" {
		t.Errorf("payload = %q, want %q", got, "hello")
	}

	if hub.SendTo("unknown", []byte("hello")) {
		t.Error("SendTo(unknown) = true, want false")
	}
}

func TestHub_BroadcastPolicies(t *testing.T) {
	hub := NewHub(4, &mockLogger{})
	a := hub.Register("a")
	b := hub.Register("b")
	c := hub.Register("c")
	order := []string{"a", "b", "c"}

	hub.Broadcast(order, All(), []byte("everyone"))
	for name, client := range map[string]*Client{"a": a, "b": b, "c": c} {
		if got := string(drainOne(t, client)); got != "everyone" {
			t.Errorf("client %s payload = %q, want %q", name, got, "everyone")
		}
	}

	hub.Broadcast(order, AllExcept("b"), []byte("not b"))
	if got := string(drainOne(t, a)); got != "not b" {
		t.Errorf("client a payload = %q, want %q", got, "not b")
	}
	if got := string(drainOne(t, c)); got != "not b" {
		t.Errorf("client c payload = %q, want %q", got, "not b")
	}
	select {
	case payload := <-b.Outbound():
		t.Errorf("excluded client received %q", payload)
	default:
	}
}

func TestHub_BroadcastSkipsUnknownConnections(t *testing.T) {
	hub := NewHub(4, &mockLogger{})
	a := hub.Register("a")

	// Stale ids in the order are tolerated.
	hub.Broadcast([]string{"gone", "a", "also-gone"}, All(), []byte("hi"))

	if got := string(drainOne(t, a)); got != "hi" {
		t.Errorf("payload = %q, want %q", got, "hi")
	}
	if got := hub.ClientCount(); got != 1 {
		t.Errorf("ClientCount() = %d, want 1", got)
	}
}

func TestHub_SaturatedClientEvicted(t *testing.T) {
	hub := NewHub(1, &mockLogger{})
	slow := hub.Register("slow")
	fast := hub.Register("fast")
	order := []string{"slow", "fast"}

	hub.Broadcast(order, All(), []byte("first"))
	// The fast client drains, the slow one does not.
	if got := string(drainOne(t, fast)); got != "first" {
		t.Fatalf("fast payload = %q, want %q", got, "first")
	}

	hub.Broadcast(order, All(), []byte("second"))

	// Only the saturated client is dropped.
	if got := hub.ClientCount(); got != 1 {
		t.Errorf("ClientCount() = %d, want 1", got)
	}
	if got := string(drainOne(t, fast)); got != "second" {
		t.Errorf("fast payload = %q, want %q", got, "second")
	}

	// The evicted client's queue holds the first payload, then closes.
	if got := string(<-slow.Outbound()); got != "first" {
		t.Errorf("slow payload = %q, want %q", got, "first")
	}
	if _, ok := <-slow.Outbound(); ok {
		t.Error("evicted client's outbound channel still open")
	}
}

func TestHub_UnregisterIdempotent(t *testing.T) {
	hub := NewHub(4, &mockLogger{})
	client := hub.Register("c1")

	hub.Unregister("c1")
	hub.Unregister("c1")
	hub.Unregister("never-registered")

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("ClientCount() = %d, want 0", got)
	}
	if _, ok := <-client.Outbound(); ok {
		t.Error("outbound channel still open after unregister")
	}
	if hub.SendTo("c1", []byte("late")) {
		t.Error("SendTo() after unregister = true, want false")
	}
}

func TestHub_CloseAll(t *testing.T) {
	hub := NewHub(4, &mockLogger{})
	a := hub.Register("a")
	b := hub.Register("b")

	hub.CloseAll()

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("ClientCount() = %d, want 0", got)
	}
	for name, client := range map[string]*Client{"a": a, "b": b} {
		if _, ok := <-client.Outbound(); ok {
			t.Errorf("client %s outbound channel still open", name)
		}
	}
}
