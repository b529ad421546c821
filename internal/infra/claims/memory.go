// Package claims records short lived "already done" markers so the same
// bonus is not sent twice.
package claims

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps claims in process memory. Useful for tests and local dev.
type MemoryStore struct {
	mu     sync.Mutex
	claims map[string]time.Time
	now    func() time.Time
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{claims: make(map[string]time.Time), now: time.Now}
}

// Claim marks key for ttl and reports whether the caller owns it.
func (s *MemoryStore) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if exp, ok := s.claims[key]; ok && (exp.IsZero() || now.Before(exp)) {
		return false, nil
	}
	exp := time.Time{}
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	s.claims[key] = exp
	return true, nil
}

// Release drops a claim so the work can be retried.
func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claims, key)
	return nil
}
