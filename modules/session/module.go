// Package session implements the relay's connection/session coordination:
// the registry of who is online, the per-connection protocol state machine,
// and the critical section that keeps roster changes and broadcast order
// consistent.
package session

import (
	"context"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/example/chat-relay/events"
)

// Module wraps the session service as a framework module and declares the
// domain events it emits.
type Module struct {
	svc    *Service
	logger types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module              = (*Module)(nil)
	_ mono.EventBusAwareModule = (*Module)(nil)
	_ mono.EventEmitterModule  = (*Module)(nil)
)

// NewModule creates the session module around an existing service.
func NewModule(svc *Service, logger types.Logger) *Module {
	return &Module{
		svc:    svc,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "session"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.svc.SetEventBus(bus)
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.UserJoinedV1.ToBase(),
		events.UserLeftV1.ToBase(),
		events.MessageRelayedV1.ToBase(),
		events.TypingChangedV1.ToBase(),
	}
}

// Start initializes the module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Session module started")
	return nil
}

// Stop gracefully shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Session module stopped", "online", m.svc.OnlineCount())
	return nil
}

// Service returns the session service for wiring into the API module.
func (m *Module) Service() *Service {
	return m.svc
}
