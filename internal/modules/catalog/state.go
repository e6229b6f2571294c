package catalog

import (
	"sync"

	types "github.com/yungbote/course-portal-backend/internal/domain"
)

// State holds the last confirmed catalog and, while a reorder is in flight, the tentative one.
type State struct {
	mu        sync.RWMutex
	confirmed []*types.Material
	tentative []*types.Material
	pending   bool
}

// Current returns the tentative list while one is pending, else the confirmed list.
func (s *State) Current() []*types.Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pending {
		return cloneAll(s.tentative)
	}
	return cloneAll(s.confirmed)
}

func (s *State) Confirmed() []*types.Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.confirmed)
}

func (s *State) Pending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

func (s *State) propose(items []*types.Material) {
	s.mu.Lock()
	s.tentative = cloneAll(items)
	s.pending = true
	s.mu.Unlock()
}

func (s *State) commit() {
	s.mu.Lock()
	if s.pending {
		s.confirmed = s.tentative
	}
	s.tentative = nil
	s.pending = false
	s.mu.Unlock()
}

func (s *State) discard() {
	s.mu.Lock()
	s.tentative = nil
	s.pending = false
	s.mu.Unlock()
}

// replace installs a freshly loaded list as confirmed and drops anything tentative.
func (s *State) replace(items []*types.Material) {
	s.mu.Lock()
	s.confirmed = cloneAll(items)
	s.tentative = nil
	s.pending = false
	s.mu.Unlock()
}

func cloneAll(items []*types.Material) []*types.Material {
	out := make([]*types.Material, 0, len(items))
	for _, m := range items {
		out = append(out, m.Clone())
	}
	return out
}
