package cache

import (
	"context"
	"sync"
	"time"

	"github.com/raysh454/urlanalyzer/internal/analyzer"
)

type memEntry struct {
	verdict analyzer.Verdict
	expires time.Time
}

// MemoryCache is a process-local Cache. Expired entries are dropped lazily on
// read and swept on write.
type MemoryCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]memEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now, entries: make(map[string]memEntry)}
}

func (m *MemoryCache) Get(_ context.Context, url string) (*analyzer.Verdict, error) {
	key := Key(url)
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	if !m.now().Before(e.expires) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, ErrMiss
	}
	v := e.verdict
	return &v, nil
}

func (m *MemoryCache) Set(_ context.Context, url string, v *analyzer.Verdict) error {
	if v == nil || m.ttl <= 0 {
		return nil
	}
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, k)
		}
	}
	m.entries[Key(url)] = memEntry{verdict: *v, expires: now.Add(m.ttl)}
	return nil
}

// Len reports the number of stored entries, expired or not.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryCache) Close() error { return nil }
