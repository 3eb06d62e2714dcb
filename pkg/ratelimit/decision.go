// Package ratelimit implements request throttling for the public API.
// Counters live in Redis so every instance enforces one shared budget per
// client: a fixed window of Limit requests per Window.
package ratelimit

import (
	"time"
)

// KeyPrefix namespaces throttle counters in Redis.
const KeyPrefix = "stock:throttle"

// Defaults match the public API budget of 20 requests per minute.
const (
	DefaultLimit  = 20
	DefaultWindow = time.Minute
)

// Decision is the outcome of one throttle check.
type Decision struct {
	// Allowed is false when the client exhausted its window budget.
	Allowed bool `json:"allowed"`

	// Count is the number of requests seen in the current window, this one included.
	Count int64 `json:"count"`

	// Limit is the window budget.
	Limit int64 `json:"limit"`

	// ResetAt is when the current window ends.
	ResetAt time.Time `json:"reset_at"`
}

// Remaining returns the requests left in the current window.
func (d Decision) Remaining() int64 {
	if r := d.Limit - d.Count; r > 0 {
		return r
	}
	return 0
}

// RetryAfter returns the time until the window resets, rounded up to whole
// seconds. Returns 0 if the reset time has already passed.
func (d Decision) RetryAfter() time.Duration {
	wait := time.Until(d.ResetAt)
	if wait <= 0 {
		return 0
	}
	return wait.Truncate(time.Second) + time.Second
}
