package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/chat-relay/modules/broadcast"
	"github.com/example/chat-relay/modules/session"
	"github.com/example/chat-relay/modules/stats"
)

const (
	// writeWait bounds a single frame write to a client.
	writeWait = 10 * time.Second
	// pingPeriod must be shorter than the client read timeout.
	pingPeriod = 54 * time.Second
)

// Handlers contains HTTP and WebSocket handlers.
type Handlers struct {
	hub       *broadcast.Hub
	svc       *session.Service
	statsPort stats.Port
	logger    types.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(hub *broadcast.Hub, svc *session.Service, statsPort stats.Port, logger types.Logger) *Handlers {
	return &Handlers{
		hub:       hub,
		svc:       svc,
		statsPort: statsPort,
		logger:    logger,
	}
}

// Status handles GET / requests.
func (h *Handlers) Status(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{
		Message:        "Chat server is running",
		ConnectedUsers: h.svc.OnlineCount(),
	})
}

// HealthCheck handles GET /health requests.
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:           "healthy",
		ConnectedClients: h.hub.ClientCount(),
	})
}

// Stats handles GET /stats requests.
func (h *Handlers) Stats(c *fiber.Ctx) error {
	summary, err := h.statsPort.Summary(c.Context())
	if err != nil {
		h.logger.Error("Failed to fetch stats summary", "error", err)
		return fiber.NewError(fiber.StatusServiceUnavailable, "stats unavailable")
	}
	return c.JSON(StatsResponse{Stats: summary})
}

// HandleWebSocket runs one connection's lifecycle: register with the hub,
// start the write pump, then drive the protocol state machine from the read
// loop until the client goes away.
func (h *Handlers) HandleWebSocket(c *websocket.Conn) {
	connID := uuid.New().String()
	client := h.hub.Register(connID)
	coord := session.NewCoordinator(connID, h.svc)

	defer func() {
		coord.Disconnect()
		h.hub.Unregister(connID)
		c.Close()
	}()

	go h.writePump(c, client)

	h.logger.Debug("WebSocket connected", "connID", connID)

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Warn("WebSocket read error", "connID", connID, "error", err)
			}
			break
		}
		h.dispatch(coord, raw)
	}

	h.logger.Debug("WebSocket disconnected", "connID", connID, "user", coord.Username())
}

// dispatch decodes one inbound envelope and applies it to the state machine.
// Malformed frames and protocol violations are dropped; the connection stays
// open and no error is echoed back.
func (h *Handlers) dispatch(coord *session.Coordinator, raw []byte) {
	var env session.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.logger.Debug("Dropping malformed frame", "connID", coord.ConnID(), "error", err)
		return
	}

	switch env.Event {
	case session.EventJoin:
		var p session.JoinPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			h.logger.Debug("Dropping malformed join payload", "connID", coord.ConnID(), "error", err)
			return
		}
		if err := coord.Join(p.Username); err != nil {
			h.logVerdict(coord, env.Event, err)
		}
	case session.EventSendMessage:
		var p session.SendMessagePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			h.logger.Debug("Dropping malformed message payload", "connID", coord.ConnID(), "error", err)
			return
		}
		if err := coord.Send(p.Text); err != nil {
			h.logVerdict(coord, env.Event, err)
		}
	case session.EventTyping:
		var p session.TypingPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			h.logger.Debug("Dropping malformed typing payload", "connID", coord.ConnID(), "error", err)
			return
		}
		if err := coord.Typing(p.IsTyping); err != nil {
			h.logVerdict(coord, env.Event, err)
		}
	default:
		h.logger.Debug("Dropping unknown event", "connID", coord.ConnID(), "event", env.Event)
	}
}

// logVerdict records a dropped inbound event. Duplicate connection IDs are
// the only case worth more than a debug line.
func (h *Handlers) logVerdict(coord *session.Coordinator, event string, err error) {
	if errors.Is(err, session.ErrDuplicateConnection) {
		h.logger.Warn("Duplicate connection ID on join", "connID", coord.ConnID())
		return
	}
	h.logger.Debug("Dropping inbound event", "connID", coord.ConnID(), "event", event, "error", err)
}

// writePump drains the client's outbound queue onto the wire and keeps the
// connection alive with pings. It exits when the queue is closed, which also
// drops the transport and unblocks the read loop.
func (h *Handlers) writePump(c *websocket.Conn, client *broadcast.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case payload, ok := <-client.Outbound():
			if err := c.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				c.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
