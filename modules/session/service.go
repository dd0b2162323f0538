package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/example/chat-relay/domain/chat"
	"github.com/example/chat-relay/events"
	"github.com/example/chat-relay/modules/broadcast"
)

// Broadcaster is the outbound path the service fans events out on. The hub
// satisfies it; tests substitute a recorder.
type Broadcaster interface {
	SendTo(connID string, payload []byte) bool
	Broadcast(order []string, policy broadcast.Policy, payload []byte)
}

// Service owns the relay's shared state: the registry, the typing tracker,
// and the single critical section that orders roster mutations with the
// issuance of their broadcasts. Because every mutation, its roster snapshot,
// and the resulting enqueues happen under one lock, the visible roster never
// reflects a partial change and each recipient observes broadcasts in the
// order they were issued.
type Service struct {
	mu       sync.Mutex
	registry *Registry
	typing   *TypingTracker
	hub      Broadcaster
	bus      mono.EventBus
	logger   types.Logger
	now      func() time.Time
	lastID   int64
}

// NewService wires the shared session state together.
func NewService(registry *Registry, typing *TypingTracker, hub Broadcaster, logger types.Logger) *Service {
	return &Service{
		registry: registry,
		typing:   typing,
		hub:      hub,
		logger:   logger,
		now:      time.Now,
	}
}

// SetEventBus attaches the bus used for fire-and-forget domain events.
func (s *Service) SetEventBus(bus mono.EventBus) {
	s.bus = bus
}

// nextMessageID derives a message id from the arrival time, bumped past the
// previous id so two messages landing in the same millisecond never collide.
// Callers must hold s.mu.
func (s *Service) nextMessageID(ts time.Time) int64 {
	id := ts.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// enqueue marshals an event and hands it to the broadcaster under the
// service lock. Marshal failures are logged and the event dropped; payloads
// are plain structs so this does not happen in practice.
func (s *Service) enqueue(order []string, policy broadcast.Policy, event string, data any) {
	payload, err := encodeEvent(event, data)
	if err != nil {
		s.logger.Error("Failed to encode outbound event", "event", event, "error", err)
		return
	}
	s.hub.Broadcast(order, policy, payload)
}

// Join registers a connection under a display name and fans out the three
// join broadcasts: the join notice to everyone else, the online-users
// snapshot to the joiner alone, and the refreshed roster to everyone. The
// snapshot is taken in the same critical section as the insert, so a joiner
// always sees itself in the roster it receives.
func (s *Service) Join(connID, username string) error {
	s.mu.Lock()
	if err := s.registry.Insert(connID, username); err != nil {
		s.mu.Unlock()
		return err
	}
	ts := s.now()
	names := s.registry.Names()
	order := s.registry.ConnIDs()

	s.enqueue(order, broadcast.AllExcept(connID), EventUserJoined, chat.PresenceNotice{
		Username:  username,
		Message:   fmt.Sprintf("%s joined the chat", username),
		Timestamp: ts,
	})
	if payload, err := encodeEvent(EventOnlineUsers, names); err == nil {
		s.hub.SendTo(connID, payload)
	}
	s.enqueue(order, broadcast.All(), EventUsersUpdate, names)
	online := len(names)
	s.mu.Unlock()

	s.publish(func() error {
		return events.UserJoinedV1.Publish(s.bus, events.UserJoinedEvent{
			ConnID:    connID,
			Username:  username,
			Online:    online,
			Timestamp: ts,
		}, nil)
	})
	s.logger.Info("User joined", "connID", connID, "username", username, "online", online)
	return nil
}

// Relay fans a chat line out to every registered connection, including the
// sender, and returns the constructed message.
func (s *Service) Relay(connID, username, text string) chat.Message {
	s.mu.Lock()
	ts := s.now()
	msg := chat.Message{
		ID:        s.nextMessageID(ts),
		Username:  username,
		Text:      text,
		Timestamp: ts,
	}
	order := s.registry.ConnIDs()
	s.enqueue(order, broadcast.All(), EventReceiveMessage, msg)
	s.mu.Unlock()

	s.publish(func() error {
		return events.MessageRelayedV1.Publish(s.bus, events.MessageRelayedEvent{
			MessageID: msg.ID,
			Username:  username,
			Length:    len(text),
			Timestamp: ts,
		}, nil)
	})
	s.logger.Debug("Message relayed", "connID", connID, "messageID", msg.ID)
	return msg
}

// Typing records a typing signal and notifies everyone except the sender.
// Repeated identical signals are passed through unchanged; the client is
// responsible for re-assertion and for the final isTyping=false.
func (s *Service) Typing(connID, username string, isTyping bool) {
	s.mu.Lock()
	ts := s.now()
	s.typing.Set(username, isTyping)
	order := s.registry.ConnIDs()
	s.enqueue(order, broadcast.AllExcept(connID), EventUserTyping, chat.TypingNotice{
		Username: username,
		IsTyping: isTyping,
	})
	s.mu.Unlock()

	s.publish(func() error {
		return events.TypingChangedV1.Publish(s.bus, events.TypingChangedEvent{
			Username:  username,
			IsTyping:  isTyping,
			Timestamp: ts,
		}, nil)
	})
}

// Leave removes a connection from the registry, clears its typing flag, and
// fans out the leave notice plus the refreshed roster. It is idempotent:
// only the call that actually removes the entry broadcasts anything.
func (s *Service) Leave(connID string) bool {
	s.mu.Lock()
	username, removed := s.registry.Remove(connID)
	if !removed {
		s.mu.Unlock()
		return false
	}
	ts := s.now()
	s.typing.Clear(username)
	names := s.registry.Names()
	order := s.registry.ConnIDs()

	s.enqueue(order, broadcast.AllExcept(connID), EventUserLeft, chat.PresenceNotice{
		Username:  username,
		Message:   fmt.Sprintf("%s left the chat", username),
		Timestamp: ts,
	})
	s.enqueue(order, broadcast.All(), EventUsersUpdate, names)
	online := len(names)
	s.mu.Unlock()

	s.publish(func() error {
		return events.UserLeftV1.Publish(s.bus, events.UserLeftEvent{
			ConnID:    connID,
			Username:  username,
			Online:    online,
			Timestamp: ts,
		}, nil)
	})
	s.logger.Info("User left", "connID", connID, "username", username, "online", online)
	return true
}

// publish emits a domain event outside the critical section. Delivery to
// clients never depends on the bus; failures are logged and dropped.
func (s *Service) publish(fn func() error) {
	if s.bus == nil {
		return
	}
	if err := fn(); err != nil {
		s.logger.Warn("Failed to publish domain event", "error", err)
	}
}

// OnlineCount returns the number of joined connections.
func (s *Service) OnlineCount() int {
	return s.registry.Size()
}

// OnlineUsers returns the roster in join order.
func (s *Service) OnlineUsers() []string {
	return s.registry.Names()
}

// TypingUsers returns the display names currently flagged as typing.
func (s *Service) TypingUsers() []string {
	return s.typing.Active()
}
