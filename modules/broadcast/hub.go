package broadcast

import (
	"sync"

	"github.com/go-monolith/mono/pkg/types"
)

// Policy selects which connections receive a broadcast.
type Policy struct {
	exceptID string
}

// All delivers to every connection in the iteration order.
func All() Policy {
	return Policy{}
}

// AllExcept delivers to every connection except the one identified.
func AllExcept(connID string) Policy {
	return Policy{exceptID: connID}
}

func (p Policy) includes(connID string) bool {
	return p.exceptID == "" || connID != p.exceptID
}

// Hub owns the set of live connections and their bounded outbound queues.
// Enqueueing never blocks: a connection whose queue is saturated is evicted,
// which closes its queue and lets the transport run its normal disconnect
// path. Eviction of one connection never affects delivery to the others.
type Hub struct {
	mu        sync.RWMutex
	clients   map[string]*Client
	queueSize int
	logger    types.Logger
}

// NewHub creates a hub whose clients carry outbound queues of queueSize.
func NewHub(queueSize int, logger types.Logger) *Hub {
	return &Hub{
		clients:   make(map[string]*Client),
		queueSize: queueSize,
		logger:    logger,
	}
}

// Register adds a connection and returns its outbound client.
func (h *Hub) Register(connID string) *Client {
	client := newClient(connID, h.queueSize)
	h.mu.Lock()
	h.clients[connID] = client
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("client registered", "connID", connID, "total", total)
	return client
}

// Unregister removes a connection and closes its outbound queue. It is a
// no-op for unknown ids, so late or duplicate disconnect signals are safe.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	client, ok := h.clients[connID]
	if ok {
		delete(h.clients, connID)
		client.closed = true
	}
	total := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	// Closing after the lock is released is safe: the closed flag was set
	// under the write lock, so no enqueue holding the read lock can still
	// reach the channel.
	close(client.send)
	h.logger.Debug("client unregistered", "connID", connID, "total", total)
}

// trySend enqueues without blocking. Callers must hold h.mu.
func (h *Hub) trySend(client *Client, payload []byte) bool {
	if client.closed {
		return false
	}
	select {
	case client.send <- payload:
		return true
	default:
		return false
	}
}

// SendTo enqueues a payload for a single connection. Returns false if the
// connection is gone; a saturated queue evicts the connection.
func (h *Hub) SendTo(connID string, payload []byte) bool {
	h.mu.RLock()
	client, ok := h.clients[connID]
	sent := ok && h.trySend(client, payload)
	h.mu.RUnlock()

	if ok && !sent {
		h.evict(connID)
	}
	return sent
}

// Broadcast enqueues a payload for every connection in order that the policy
// selects. Connections that closed mid-iteration are skipped; connections
// with saturated queues are evicted afterwards.
func (h *Hub) Broadcast(order []string, policy Policy, payload []byte) {
	var saturated []string

	h.mu.RLock()
	for _, connID := range order {
		if !policy.includes(connID) {
			continue
		}
		client, ok := h.clients[connID]
		if !ok {
			continue
		}
		if !h.trySend(client, payload) {
			saturated = append(saturated, connID)
		}
	}
	h.mu.RUnlock()

	for _, connID := range saturated {
		h.evict(connID)
	}
}

func (h *Hub) evict(connID string) {
	h.logger.Warn("outbound queue saturated, dropping client", "connID", connID)
	h.Unregister(connID)
}

// ClientCount returns the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll unregisters every connection. Used during shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		client.closed = true
		clients = append(clients, client)
	}
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	for _, client := range clients {
		close(client.send)
	}
}
