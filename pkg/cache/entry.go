package cache

import (
	"encoding/json"
	"time"
)

// Entry is the envelope persisted for every cached value.
type Entry struct {
	// Data is the JSON-encoded payload
	Data json.RawMessage `json:"data"`

	// CachedAt is when the value was written
	CachedAt time.Time `json:"cached_at"`

	// Expires is CachedAt + TTL of the operation
	Expires time.Time `json:"expires"`
}

// NewEntry wraps data for storage with the given lifetime.
func NewEntry(data []byte, ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		Data:     data,
		CachedAt: now,
		Expires:  now.Add(ttl),
	}
}

// IsExpired returns true if the cache entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}
