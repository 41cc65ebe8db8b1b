package session

import "sync"

// Registry holds one View per user. Views are created lazily on first use and
// live for the process lifetime; they are caches, losing one costs a refetch.
type Registry struct {
	mu    sync.Mutex
	views map[uint64]*View
}

func NewRegistry() *Registry {
	return &Registry{views: make(map[uint64]*View)}
}

// View returns the user's projection, creating it when absent.
func (r *Registry) View(userID uint64) *View {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[userID]
	if !ok {
		v = NewView()
		r.views[userID] = v
	}
	return v
}
