package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryBackend implements Backend using in-memory storage. This is the
// default backend; all entries are lost when the process exits, which is
// acceptable because every entry can be recomputed from a reasoner call.
//
// MemoryBackend is thread-safe and supports concurrent access using
// sync.RWMutex.
type MemoryBackend struct {
	// entries maps composite key (document_type:fingerprint) to entry.
	entries map[string]*Entry

	// mu protects access to entries.
	mu sync.RWMutex

	// maxEntries is the maximum number of entries before eviction.
	maxEntries int

	// done signals the cleanup goroutine to stop.
	done      chan struct{}
	closeOnce sync.Once
}

// MemoryBackendConfig configures the memory backend.
type MemoryBackendConfig struct {
	// MaxEntries is the maximum number of entries to store. The entry
	// closest to expiry is evicted when the limit is reached.
	// Default: 10,000
	MaxEntries int

	// CleanupInterval is how often the background loop purges expired
	// entries. Default: 1 minute
	CleanupInterval time.Duration
}

// NewMemoryBackend creates a new in-memory cache backend with default
// settings.
func NewMemoryBackend() *MemoryBackend {
	return NewMemoryBackendWithConfig(MemoryBackendConfig{})
}

// NewMemoryBackendWithConfig creates a new in-memory backend with custom
// configuration.
func NewMemoryBackendWithConfig(cfg MemoryBackendConfig) *MemoryBackend {
	if cfg.MaxEntries == 0 {
		cfg.MaxEntries = 10000
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = time.Minute
	}

	backend := &MemoryBackend{
		entries:    make(map[string]*Entry),
		maxEntries: cfg.MaxEntries,
		done:       make(chan struct{}),
	}

	go backend.cleanupLoop(cfg.CleanupInterval)

	return backend
}

// Get retrieves the live entry for a document type and fingerprint.
func (m *MemoryBackend) Get(ctx context.Context, documentType, fingerprint string) (*Entry, error) {
	key := Key(documentType, fingerprint)

	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.entries[key]
	if !exists || entry.Expired(time.Now()) {
		return nil, nil
	}
	return entry, nil
}

// Put stores an entry, replacing any previous entry for the same key.
func (m *MemoryBackend) Put(ctx context.Context, entry *Entry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[entry.Key()]; !exists && len(m.entries) >= m.maxEntries {
		m.evictSoonestLocked()
	}
	m.entries[entry.Key()] = entry

	return nil
}

// Delete removes the entry for a key.
func (m *MemoryBackend) Delete(ctx context.Context, documentType, fingerprint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, Key(documentType, fingerprint))
	return nil
}

// Purge removes entries that expired at or before the given instant.
func (m *MemoryBackend) Purge(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for key, entry := range m.entries {
		if entry.Expired(now) {
			delete(m.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

// Len returns the number of stored entries.
func (m *MemoryBackend) Len(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries), nil
}

// Close stops the cleanup goroutine.
func (m *MemoryBackend) Close() error {
	m.closeOnce.Do(func() {
		close(m.done)
	})
	return nil
}

// evictSoonestLocked removes the entry closest to expiry.
// Caller must hold m.mu.
func (m *MemoryBackend) evictSoonestLocked() {
	var victim string
	var soonest time.Time
	for key, entry := range m.entries {
		if victim == "" || entry.ExpiresAt.Before(soonest) {
			victim = key
			soonest = entry.ExpiresAt
		}
	}
	if victim != "" {
		delete(m.entries, victim)
	}
}

func (m *MemoryBackend) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Purge(context.Background(), time.Now())
		case <-m.done:
			return
		}
	}
}
