package session

import (
	"context"
	"sync"
	"time"

	"raglobal-chat/internal/model"
)

type memoryEntry struct {
	state     *model.SessionState
	expiresAt time.Time
}

// MemoryStore is the default in-process store. Entries expire after the
// configured TTL, refreshed on every Put.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	ttl     time.Duration
}

// NewMemoryStore creates an in-memory session store with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*model.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, id)
		return nil, nil
	}
	return entry.state, nil
}

func (s *MemoryStore) Put(_ context.Context, state *model.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[state.ID] = &memoryEntry{
		state:     state,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.sweepLocked()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// sweepLocked drops expired entries so the map stays bounded by live traffic.
func (s *MemoryStore) sweepLocked() {
	now := time.Now()
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}
