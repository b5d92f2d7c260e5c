// Package cache provides a TTL cache for values that are expensive to
// obtain from a provider, such as capability descriptors.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/greese/dasein-cloud-core-sub001/internal/config"
)

// Manager is a TTL cache with hit/miss statistics.
type Manager struct {
	mu         sync.RWMutex
	items      map[string]entry
	defaultTTL time.Duration
	stats      Stats
	now        func() time.Time
}

type entry struct {
	value      interface{}
	expiration time.Time
	createdAt  time.Time
}

// Stats holds cache statistics
type Stats struct {
	Hits      int64     `json:"hits"`
	Misses    int64     `json:"misses"`
	Items     int       `json:"items"`
	LastClear time.Time `json:"last_clear"`
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// Global returns the process-wide cache manager, sized from config.
func Global() *Manager {
	managerOnce.Do(func() {
		globalManager = New(config.Get().Capabilities.CacheTTL)
		go globalManager.cleanup(10 * time.Minute)
	})
	return globalManager
}

// New creates a cache manager with the given default TTL.
func New(defaultTTL time.Duration) *Manager {
	return &Manager{
		items:      make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get retrieves a value from the cache
func (m *Manager) Get(key string) (interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok || m.now().After(e.expiration) {
		m.stats.Misses++
		lookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	m.stats.Hits++
	lookupsTotal.WithLabelValues("hit").Inc()
	return e.value, true
}

// Set stores a value with the given TTL. A non-positive TTL stores nothing.
func (m *Manager) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.items[key] = entry{
		value:      value,
		expiration: now.Add(ttl),
		createdAt:  now,
	}
}

// SetWithDefaultTTL stores a value with the default TTL
func (m *Manager) SetWithDefaultTTL(key string, value interface{}) {
	m.Set(key, value, m.defaultTTL)
}

// GetOrLoad returns the cached value for key or calls load and caches its
// result with the default TTL. Errors are not cached.
func (m *Manager) GetOrLoad(key string, load func() (interface{}, error)) (interface{}, error) {
	if v, ok := m.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		loadErrorsTotal.Inc()
		return nil, err
	}
	m.SetWithDefaultTTL(key, v)
	return v, nil
}

// Delete removes a specific key from the cache
func (m *Manager) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[key]; ok {
		delete(m.items, key)
		evictionsTotal.Inc()
	}
}

// DeletePrefix removes all keys with a given prefix
func (m *Manager) DeletePrefix(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for key := range m.items {
		if strings.HasPrefix(key, prefix) {
			delete(m.items, key)
			count++
		}
	}
	evictionsTotal.Add(float64(count))
	return count
}

// Clear removes all items from the cache
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	evictionsTotal.Add(float64(len(m.items)))
	m.items = make(map[string]entry)
	m.stats.LastClear = m.now()
}

// Stats returns cache statistics
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.stats
	s.Items = len(m.items)
	return s
}

// TTL returns the default TTL
func (m *Manager) TTL() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultTTL
}

// SetDefaultTTL sets the default TTL for new entries
func (m *Manager) SetDefaultTTL(ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultTTL = ttl
}

func (m *Manager) evictExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, e := range m.items {
		if now.After(e.expiration) {
			delete(m.items, key)
			evictionsTotal.Inc()
		}
	}
}

// cleanup periodically removes expired items
func (m *Manager) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		m.evictExpired()
	}
}
