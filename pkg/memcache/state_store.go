package mem

import (
	"context"
	"sync"
	"time"
)

// StateStore keeps short-lived single-use values, such as OAuth state
// parameters, between the redirect to a provider and its callback.
type StateStore interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Consume returns the value for key if not expired and removes it.
	// Returns ok=false if missing/expired.
	Consume(ctx context.Context, key string) (value string, ok bool, err error)
}

type entry struct {
	value     string
	expiresAt time.Time
}

type MemoryStore struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *MemoryStore) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.data[key] = entry{value: value, expiresAt: now.Add(ttl)}

	// sweep on write so abandoned logins don't pile up
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, k)
		}
	}
	return nil
}

func (s *MemoryStore) Consume(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return "", false, nil
	}
	delete(s.data, key) // single-use
	if s.now().After(e.expiresAt) {
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
