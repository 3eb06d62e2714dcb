package cache

import "fmt"

// KindStore is the error kind reported for store failures.
const KindStore = "cache_store"

// StoreError is an infrastructure failure of the cache store.
type StoreError struct {
	Op  string // "get", "set" or "delete"
	Key string
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("cache %s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *StoreError) Unwrap() error {
	return e.Err
}
