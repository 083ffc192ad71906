// Package cache provides the two-tier result cache fronting the suggestion
// pipeline: a process-local TTL map always present, and an optional
// BadgerDB-backed key-value tier shared across restarts. The layered facade
// treats the KV tier as best-effort; any failure there degrades silently to
// the local tier and the pipeline.
package cache

import (
	"sync"
	"time"

	"SongScout/pkg/suggest"
)

// DefaultTTL is the validity window of a cache entry.
const DefaultTTL = time.Hour

// Memory is the process-local tier: a mutex-guarded map from fingerprint to
// a timestamped result list. Entries past their TTL are treated as absent
// and evicted lazily on the next lookup. Safe for concurrent use by
// in-flight requests.
type Memory struct {
	TTL time.Duration

	// now is swappable in tests.
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	at      time.Time
	results []suggest.Scored
}

// NewMemory returns an empty local cache. A non-positive ttl selects
// DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{TTL: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

// Get returns the cached results for key when present and fresh.
func (m *Memory) Get(key string) ([]suggest.Scored, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().Sub(e.at) >= m.TTL {
		delete(m.entries, key)
		return nil, false
	}
	return e.results, true
}

// Set stores results under key, replacing any previous entry. Entries are
// immutable once written; replacement is the only form of update.
func (m *Memory) Set(key string, results []suggest.Scored) {
	m.mu.Lock()
	m.entries[key] = memoryEntry{at: m.now(), results: results}
	m.mu.Unlock()
}
