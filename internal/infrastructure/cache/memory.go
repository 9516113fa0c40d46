package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryLock is an in-process SubmitLocker with expiration, used when the
// service runs against the mock engine without Redis.
type MemoryLock struct {
	mu    sync.Mutex
	items map[string]time.Time
}

// NewMemoryLock creates a new in-memory lock store
func NewMemoryLock() *MemoryLock {
	lock := &MemoryLock{
		items: make(map[string]time.Time),
	}

	// Start cleanup goroutine to remove expired entries
	go lock.cleanupExpired()

	return lock
}

// Acquire takes the lock for the draft. Returns false while a live entry
// exists.
func (m *MemoryLock) Acquire(ctx context.Context, draftID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Minute
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	expiry, exists := m.items[draftID]
	if exists && time.Now().Before(expiry) {
		return false, nil
	}
	m.items[draftID] = time.Now().Add(ttl)
	return true, nil
}

// Release frees the lock for the draft.
func (m *MemoryLock) Release(ctx context.Context, draftID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, draftID)
	return nil
}

// cleanupExpired periodically removes expired entries
func (m *MemoryLock) cleanupExpired() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		m.mu.Lock()
		for key, expiry := range m.items {
			if now.After(expiry) {
				delete(m.items, key)
			}
		}
		m.mu.Unlock()
	}
}
