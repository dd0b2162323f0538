package session

import "encoding/json"

// Envelope is the wire frame for both directions: an event name plus a
// JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound event names.
const (
	EventJoin        = "join"
	EventSendMessage = "send_message"
	EventTyping      = "typing"
)

// Outbound event names.
const (
	EventUserJoined     = "user_joined"
	EventOnlineUsers    = "online_users"
	EventUsersUpdate    = "users_update"
	EventReceiveMessage = "receive_message"
	EventUserTyping     = "user_typing"
	EventUserLeft       = "user_left"
)

// JoinPayload carries the display name announced by a connecting client.
type JoinPayload struct {
	Username string `json:"username"`
}

// SendMessagePayload carries a chat line from a joined client. The username
// field is accepted for wire compatibility but the relay always attributes
// messages to the name the connection joined with.
type SendMessagePayload struct {
	Username string `json:"username"`
	Text     string `json:"text"`
}

// TypingPayload carries a typing activity signal.
type TypingPayload struct {
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

// encodeEvent wraps a payload in an envelope and marshals it for the wire.
func encodeEvent(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
