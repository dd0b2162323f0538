package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// UserJoinedEvent is emitted when a connection completes its join.
type UserJoinedEvent struct {
	ConnID    string    `json:"conn_id"`
	Username  string    `json:"username"`
	Online    int       `json:"online"`
	Timestamp time.Time `json:"timestamp"`
}

// UserLeftEvent is emitted when a joined connection disconnects.
type UserLeftEvent struct {
	ConnID    string    `json:"conn_id"`
	Username  string    `json:"username"`
	Online    int       `json:"online"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageRelayedEvent is emitted after a message has been fanned out.
type MessageRelayedEvent struct {
	MessageID int64     `json:"message_id"`
	Username  string    `json:"username"`
	Length    int       `json:"length"`
	Timestamp time.Time `json:"timestamp"`
}

// TypingChangedEvent is emitted when a user's typing state changes.
type TypingChangedEvent struct {
	Username  string    `json:"username"`
	IsTyping  bool      `json:"isTyping"`
	Timestamp time.Time `json:"timestamp"`
}

// Event definitions for the session domain.
var (
	UserJoinedV1 = helper.EventDefinition[UserJoinedEvent](
		"session",
		"UserJoined",
		"v1",
	)

	UserLeftV1 = helper.EventDefinition[UserLeftEvent](
		"session",
		"UserLeft",
		"v1",
	)

	MessageRelayedV1 = helper.EventDefinition[MessageRelayedEvent](
		"session",
		"MessageRelayed",
		"v1",
	)

	TypingChangedV1 = helper.EventDefinition[TypingChangedEvent](
		"session",
		"TypingChanged",
		"v1",
	)
)
