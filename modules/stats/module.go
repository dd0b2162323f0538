// Package stats consumes the session module's domain events and exposes
// aggregate relay counters over the service container.
package stats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/example/chat-relay/events"
)

// ServiceSummary is the request-reply service name under this module.
const ServiceSummary = "summary"

// SummaryRequest is the (empty) request for the summary service.
type SummaryRequest struct{}

// SummaryResponse carries the counter snapshot.
type SummaryResponse struct {
	Summary Summary `json:"summary"`
}

// Module aggregates relay activity from domain events.
type Module struct {
	counters *Counters
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the stats module.
func NewModule(logger types.Logger) *Module {
	return &Module{
		counters: NewCounters(),
		logger:   logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "stats"
}

// Start initializes the module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Stats module started")
	return nil
}

// Stop gracefully shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	summary := m.counters.Snapshot()
	m.logger.Info("Stats module stopped",
		"joins", summary.Joins,
		"leaves", summary.Leaves,
		"messages", summary.Messages)
	return nil
}

// Health reports the current counter totals.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	summary := m.counters.Snapshot()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"current_online": summary.CurrentOnline,
			"peak_online":    summary.PeakOnline,
			"messages":       summary.Messages,
		},
	}
}

// RegisterEventConsumers subscribes to the session module's events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(
		registry, events.UserJoinedV1, m.handleUserJoined, m,
	); err != nil {
		return fmt.Errorf("failed to register UserJoined consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(
		registry, events.UserLeftV1, m.handleUserLeft, m,
	); err != nil {
		return fmt.Errorf("failed to register UserLeft consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(
		registry, events.MessageRelayedV1, m.handleMessageRelayed, m,
	); err != nil {
		return fmt.Errorf("failed to register MessageRelayed consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(
		registry, events.TypingChangedV1, m.handleTypingChanged, m,
	); err != nil {
		return fmt.Errorf("failed to register TypingChanged consumer: %w", err)
	}

	m.logger.Info("Registered stats event consumers",
		"events", "UserJoined, UserLeft, MessageRelayed, TypingChanged")
	return nil
}

// RegisterServices exposes the summary request-reply service.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceSummary,
		json.Unmarshal,
		json.Marshal,
		m.handleSummary,
	); err != nil {
		return fmt.Errorf("failed to register summary service: %w", err)
	}
	return nil
}

func (m *Module) handleUserJoined(_ context.Context, event events.UserJoinedEvent, _ *mono.Msg) error {
	m.counters.RecordJoin(event.Online)
	return nil
}

func (m *Module) handleUserLeft(_ context.Context, event events.UserLeftEvent, _ *mono.Msg) error {
	m.counters.RecordLeave(event.Online)
	return nil
}

func (m *Module) handleMessageRelayed(_ context.Context, _ events.MessageRelayedEvent, _ *mono.Msg) error {
	m.counters.RecordMessage()
	return nil
}

func (m *Module) handleTypingChanged(_ context.Context, _ events.TypingChangedEvent, _ *mono.Msg) error {
	m.counters.RecordTyping()
	return nil
}

func (m *Module) handleSummary(_ context.Context, _ SummaryRequest, _ *mono.Msg) (SummaryResponse, error) {
	return SummaryResponse{Summary: m.counters.Snapshot()}, nil
}

// Counters returns the underlying counter set.
func (m *Module) Counters() *Counters {
	return m.counters
}
