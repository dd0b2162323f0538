package session

import (
	"errors"
	"strings"
)

// State is a connection's position in its protocol lifecycle.
type State int

const (
	// StatePending is a connected transport that has not joined yet.
	StatePending State = iota
	// StateJoined holds a display name and a registry entry.
	StateJoined
	// StateClosed is terminal; a reconnect gets a fresh Coordinator.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateJoined:
		return "joined"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Protocol violations. These are dropped silently at the transport layer;
// no error event is surfaced to the client.
var (
	ErrNotJoined     = errors.New("connection has not joined")
	ErrAlreadyJoined = errors.New("connection already joined")
	ErrClosed        = errors.New("connection closed")
	ErrEmptyUsername = errors.New("username is empty")
	ErrEmptyMessage  = errors.New("message text is empty")
)

// Coordinator drives one connection's protocol state machine: pending until
// a valid join, joined until disconnect, then closed. It validates inbound
// events and delegates the accepted ones to the shared Service. A
// Coordinator is driven by its connection's single read loop and needs no
// locking of its own.
type Coordinator struct {
	connID   string
	username string
	state    State
	svc      *Service
}

// NewCoordinator creates the state machine for one connection.
func NewCoordinator(connID string, svc *Service) *Coordinator {
	return &Coordinator{
		connID: connID,
		state:  StatePending,
		svc:    svc,
	}
}

// ConnID returns the connection identifier.
func (c *Coordinator) ConnID() string {
	return c.connID
}

// Username returns the joined display name, or "" before join.
func (c *Coordinator) Username() string {
	return c.username
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	return c.state
}

// Join attaches a display name and registers the connection. The name is
// trimmed; an empty result rejects the event without a state change. A
// second join is a protocol violation.
func (c *Coordinator) Join(username string) error {
	switch c.state {
	case StateJoined:
		return ErrAlreadyJoined
	case StateClosed:
		return ErrClosed
	}

	name := strings.TrimSpace(username)
	if name == "" {
		return ErrEmptyUsername
	}
	if err := c.svc.Join(c.connID, name); err != nil {
		return err
	}
	c.username = name
	c.state = StateJoined
	return nil
}

// Send relays a chat line. Sending before join is a protocol violation and
// empty text (after trimming) is dropped; neither changes state.
func (c *Coordinator) Send(text string) error {
	if c.state != StateJoined {
		return ErrNotJoined
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	c.svc.Relay(c.connID, c.username, text)
	return nil
}

// Typing forwards a typing signal. Repeated identical signals pass through.
func (c *Coordinator) Typing(isTyping bool) error {
	if c.state != StateJoined {
		return ErrNotJoined
	}
	c.svc.Typing(c.connID, c.username, isTyping)
	return nil
}

// Disconnect runs the terminal transition. It is idempotent and safe to call
// from any state: a pending connection leaves no registry entry and
// broadcasts nothing, a joined one is removed and announced exactly once.
func (c *Coordinator) Disconnect() {
	if c.state == StateClosed {
		return
	}
	if c.state == StateJoined {
		c.svc.Leave(c.connID)
	}
	c.state = StateClosed
}
