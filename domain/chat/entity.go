// Package chat defines the entity types shared across the relay's modules.
package chat

import "time"

// Message is a single chat line. Messages are transient: they exist only for
// the duration of the broadcast fan-out and are never stored.
type Message struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// PresenceNotice announces a user joining or leaving the chat.
type PresenceNotice struct {
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// TypingNotice reports a change in a user's typing activity.
type TypingNotice struct {
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}
