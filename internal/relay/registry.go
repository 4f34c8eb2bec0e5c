package relay

import "sync"

// Registry tracks the zero-or-one host connection and the caller set. It is
// an explicit value owned by the server and shared with the router; all
// access goes through the mutex because every connection runs its own read
// loop goroutine.
type Registry struct {
	mu      sync.Mutex
	host    *Conn
	callers map[string]*Conn
}

func NewRegistry() *Registry {
	return &Registry{callers: make(map[string]*Conn)}
}

// SetHost installs conn as the host and returns the displaced previous host,
// if any. The new host always wins.
func (r *Registry) SetHost(conn *Conn) *Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.host
	r.host = conn
	return prev
}

// AddCaller registers conn in the caller set, keyed by connection identity.
func (r *Registry) AddCaller(conn *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callers[conn.ID()] = conn
}

// Host returns the current host connection, or nil when the slot is empty.
func (r *Registry) Host() *Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.host
}

// Callers returns a snapshot of the caller set.
func (r *Registry) Callers() []*Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Conn, 0, len(r.callers))
	for _, conn := range r.callers {
		out = append(out, conn)
	}
	return out
}

// Remove deregisters conn. Removal is idempotent, and a displaced host that
// disconnects later never clears the slot of its replacement.
func (r *Registry) Remove(conn *Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.host == conn {
		r.host = nil
		return true
	}
	if _, ok := r.callers[conn.ID()]; ok {
		delete(r.callers, conn.ID())
		return true
	}
	return false
}

// Counts reports the registered host (0 or 1) and caller totals.
func (r *Registry) Counts() (hosts, callers int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.host != nil {
		hosts = 1
	}
	return hosts, len(r.callers)
}

// CloseAll closes every registered connection and empties the registry.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	host := r.host
	callers := make([]*Conn, 0, len(r.callers))
	for _, conn := range r.callers {
		callers = append(callers, conn)
	}
	r.host = nil
	r.callers = make(map[string]*Conn)
	r.mu.Unlock()

	if host != nil {
		_ = host.Close()
	}
	for _, conn := range callers {
		_ = conn.Close()
	}
}
