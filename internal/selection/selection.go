// Package selection tracks which items are marked for a batch operation.
package selection

import (
	"container/list"
	"sync"
)

// Set is a set of origin identities that remembers insertion order, so a
// batch issues its requests in the order the user picked the items. Toggle
// is O(1) in both directions.
type Set struct {
	mu    sync.RWMutex
	index map[string]*list.Element
	order *list.List
}

// New creates an empty set.
func New() *Set {
	return &Set{index: make(map[string]*list.Element), order: list.New()}
}

// Toggle inserts id if absent and removes it if present. It returns whether
// id is selected afterwards.
func (s *Set) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.index[id]; ok {
		s.order.Remove(e)
		delete(s.index, id)
		return false
	}
	s.index[id] = s.order.PushBack(id)
	return true
}

// Contains reports whether id is selected.
func (s *Set) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// Len returns the number of selected identities.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order.Len()
}

// Clear empties the set.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = make(map[string]*list.Element)
	s.order.Init()
}

// Entries returns a snapshot of the selection in insertion order. Changing
// the returned slice does not affect the set.
func (s *Set) Entries() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, s.order.Len())
	for e := s.order.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(string))
	}
	return out
}
