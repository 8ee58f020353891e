package core

import "sync"

// Registry maps live connection ids to announced display names. The hub is
// the only writer, so mutations land in the order it issues them; the lock
// exists for readers on other goroutines and is never held across a send.
type Registry struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]string)}
}

// Register inserts or overwrites the entry for the connection. Idempotent.
func (r *Registry) Register(connID, name string) {
	r.mu.Lock()
	r.names[connID] = name
	r.mu.Unlock()
}

// Lookup resolves the display name the connection announced. Absent means
// the connection never announced or has disconnected.
func (r *Registry) Lookup(connID string) (string, bool) {
	r.mu.RLock()
	name, ok := r.names[connID]
	r.mu.RUnlock()
	return name, ok
}

// Remove deletes the entry for the connection; removing an unknown
// connection is a no-op.
func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	delete(r.names, connID)
	r.mu.Unlock()
}

// NameInUse reports whether any live connection currently holds the name.
// This is the join-versus-rejoin discriminator.
func (r *Registry) NameInUse(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.names {
		if n == name {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the connection-to-name table.
func (r *Registry) Snapshot() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.names))
	for id, name := range r.names {
		out[id] = name
	}
	return out
}

// Len reports the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}
