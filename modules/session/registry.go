package session

import (
	"errors"
	"sync"
)

// ErrDuplicateConnection reports a second join attempt on a connection that
// already holds a registry entry.
var ErrDuplicateConnection = errors.New("connection already registered")

// Registry maps connection ids to display names and is the single source of
// truth for who is online. Iteration order is insertion order, so roster
// snapshots and broadcast fan-out always present users in join order.
type Registry struct {
	mu    sync.RWMutex
	names map[string]string
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		names: make(map[string]string),
	}
}

// Insert adds an entry at the end of the iteration order. A connection may
// join at most once; a second insert for the same id fails with
// ErrDuplicateConnection.
func (r *Registry) Insert(connID, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.names[connID]; exists {
		return ErrDuplicateConnection
	}
	r.names[connID] = username
	r.order = append(r.order, connID)
	return nil
}

// Remove deletes an entry and returns the display name it held. Removing an
// absent id is a no-op, which tolerates duplicate or late disconnect signals.
func (r *Registry) Remove(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	username, exists := r.names[connID]
	if !exists {
		return "", false
	}
	delete(r.names, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return username, true
}

// Names returns all display names in join order as a point-in-time snapshot.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	for i, id := range r.order {
		names[i] = r.names[id]
	}
	return names
}

// ConnIDs returns all connection ids in join order.
func (r *Registry) ConnIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Size returns the number of registered connections.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}
