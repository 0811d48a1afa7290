package showcase

import "sync"

// Hub tracks the mounted sessions of every showcase.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*Session]struct{}
}

func NewHub() *Hub { return &Hub{sessions: make(map[string]map[*Session]struct{})} }

func (h *Hub) Add(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.sessions[s.Showcase]
	if !ok {
		set = make(map[*Session]struct{})
		h.sessions[s.Showcase] = set
	}
	set[s] = struct{}{}
}

func (h *Hub) Remove(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.sessions[s.Showcase]
	delete(set, s)
	if len(set) == 0 {
		delete(h.sessions, s.Showcase)
	}
}

// Sessions returns a copy of the sessions mounted on showcase.
func (h *Hub) Sessions(showcase string) []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Session, 0, len(h.sessions[showcase]))
	for s := range h.sessions[showcase] {
		out = append(out, s)
	}
	return out
}

// All returns every mounted session.
func (h *Hub) All() []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []*Session
	for _, set := range h.sessions {
		for s := range set {
			out = append(out, s)
		}
	}
	return out
}

func (h *Hub) Count(showcase string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[showcase])
}
