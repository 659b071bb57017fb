package otp

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"
)

type memoryEntry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore keeps challenges in-process. It is the default backend when no
// Redis endpoint is configured; codes do not survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, phone, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpiredLocked()
	s.entries[phone] = memoryEntry{
		code:      code,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Verify(_ context.Context, phone, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[phone]
	if !ok {
		return false, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, phone)
		return false, nil
	}
	if subtle.ConstantTimeCompare([]byte(entry.code), []byte(code)) != 1 {
		return false, nil
	}
	delete(s.entries, phone)
	return true, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]memoryEntry)
	return nil
}

func (s *MemoryStore) evictExpiredLocked() {
	now := s.now()
	for phone, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, phone)
		}
	}
}
