package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Entry is one cached analysis payload for a wallet address.
type Entry struct {
	Address  string          `json:"address"`
	Payload  json.RawMessage `json:"payload"`
	CachedAt time.Time       `json:"cachedAt"`
}

// Expired reports whether the entry is older than ttl at the given time.
func (e *Entry) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CachedAt) > ttl
}

// Store is a best-effort expiring cache keyed by lower-cased wallet address.
// There is no cross-request locking: concurrent writers race and the last
// write wins, which is acceptable for a 24h-TTL cache.
type Store interface {
	// Get returns the entry for the address if present and fresh.
	Get(ctx context.Context, address string) (*Entry, bool, error)
	// Put stores or replaces the entry for its address.
	Put(ctx context.Context, entry *Entry) error
	// Sweep removes expired entries and reports how many were dropped.
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// Key normalizes an address into the cache key.
func Key(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
