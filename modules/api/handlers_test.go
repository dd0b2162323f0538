package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"

	"github.com/example/chat-relay/modules/broadcast"
	"github.com/example/chat-relay/modules/session"
	"github.com/example/chat-relay/modules/stats"
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

// stubStats implements stats.Port with a canned summary.
type stubStats struct {
	summary stats.Summary
	err     error
}

func (s *stubStats) Summary(_ context.Context) (stats.Summary, error) {
	return s.summary, s.err
}

func newTestApp(t *testing.T, statsPort stats.Port) (*fiber.App, *session.Service) {
	t.Helper()

	logger := &mockLogger{}
	hub := broadcast.NewHub(4, logger)
	svc := session.NewService(session.NewRegistry(), session.NewTypingTracker(), hub, logger)
	handlers := NewHandlers(hub, svc, statsPort, logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/", handlers.Status)
	app.Get("/health", handlers.HealthCheck)
	app.Get("/stats", handlers.Stats)
	return app, svc
}

func decodeBody(t *testing.T, body io.Reader, out any) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(out); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

func TestStatusEndpoint(t *testing.T) {
	app, svc := newTestApp(t, &stubStats{})

	if err := svc.Join("c1", "Alice"); err != nil {
		t.Fatalf("Join() unexpected error: %v", err)
	}
	if err := svc.Join("c2", "Bob"); err != nil {
		t.Fatalf("Join() unexpected error: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("app.Test() unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	var status StatusResponse
	decodeBody(t, resp.Body, &status)
	if status.Message != "Chat server is running" {
		t.Errorf("message = %q, want %q", status.Message, "Chat server is running")
	}
	if status.ConnectedUsers != 2 {
		t.Errorf("connectedUsers = %d, want 2", status.ConnectedUsers)
	}
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := newTestApp(t, &stubStats{})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("app.Test() unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	var health HealthResponse
	decodeBody(t, resp.Body, &health)
	if health.Status != "healthy" {
		t.Errorf("status = %q, want %q", health.Status, "healthy")
	}
}

func TestStatsEndpoint(t *testing.T) {
	app, _ := newTestApp(t, &stubStats{summary: stats.Summary{
		Joins:      5,
		Messages:   12,
		PeakOnline: 3,
	}})

	resp, err := app.Test(httptest.NewRequest("GET", "/stats", nil))
	if err != nil {
		t.Fatalf("app.Test() unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	var body StatsResponse
	decodeBody(t, resp.Body, &body)
	if body.Stats.Joins != 5 || body.Stats.Messages != 12 || body.Stats.PeakOnline != 3 {
		t.Errorf("stats = %+v, want joins=5 messages=12 peak=3", body.Stats)
	}
}

func TestDispatchInboundFrames(t *testing.T) {
	logger := &mockLogger{}
	hub := broadcast.NewHub(4, logger)
	svc := session.NewService(session.NewRegistry(), session.NewTypingTracker(), hub, logger)
	h := NewHandlers(hub, svc, &stubStats{}, logger)

	coord := session.NewCoordinator("c1", svc)
	hub.Register("c1")

	// Malformed and unknown frames are dropped without touching state.
	h.dispatch(coord, []byte(`not json`))
	h.dispatch(coord, []byte(`{"event":"shrug","data":{}}`))
	h.dispatch(coord, []byte(`{"event":"send_message","data":{"username":"Alice","text":"early"}}`))
	if got := svc.OnlineCount(); got != 0 {
		t.Fatalf("OnlineCount() = %d, want 0 before join", got)
	}

	h.dispatch(coord, []byte(`{"event":"join","data":{"username":"Alice"}}`))
	if got := coord.State(); got != session.StateJoined {
		t.Fatalf("State() = %v, want joined", got)
	}
	if got := svc.OnlineCount(); got != 1 {
		t.Fatalf("OnlineCount() = %d, want 1", got)
	}

	h.dispatch(coord, []byte(`{"event":"typing","data":{"username":"Alice","isTyping":true}}`))
	if got := len(svc.TypingUsers()); got != 1 {
		t.Errorf("TypingUsers() length = %d, want 1", got)
	}

	h.dispatch(coord, []byte(`{"event":"send_message","data":{"username":"Alice","text":"hello"}}`))
	coord.Disconnect()
	if got := svc.OnlineCount(); got != 0 {
		t.Errorf("OnlineCount() = %d, want 0 after disconnect", got)
	}
}

func TestStatsEndpointUnavailable(t *testing.T) {
	app, _ := newTestApp(t, &stubStats{err: errors.New("bus down")})

	resp, err := app.Test(httptest.NewRequest("GET", "/stats", nil))
	if err != nil {
		t.Fatalf("app.Test() unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusServiceUnavailable)
	}
}
