// Package cache provides the stock-data cache: a Redis-backed key-value
// store, deterministic cache keys and the per-operation TTL table.
//
// The store supports get, set-with-ttl and delete by exact key. There is
// no pattern or prefix deletion, so callers can only invalidate keys they
// are able to reconstruct.
//
// # Basic Usage
//
//	// Create Redis client
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	// Create cache manager
//	manager := cache.NewManager(redisClient)
//
//	// Derive the key for a history request
//	key := cache.HistoryKey([]string{"VNM", "FPT"}, "2023-01-01", "2023-01-31")
//	// key.String() == "stock:history:VNM_FPT:2023-01-01:2023-01-31"
//
//	// Get from cache
//	data, err := manager.Get(ctx, key.String())
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// Cache miss - fetch upstream, then
//		_ = manager.Set(ctx, key.String(), payload, cache.TTL(key.Operation))
//	}
//
// # Keys
//
// Every key starts with the "stock" namespace followed by the operation
// name, so keys of different operations never collide. Symbol lists are
// joined with "_" in the order the caller supplied them; they are not
// sorted, which means ["A","B"] and ["B","A"] map to different entries.
//
// # TTLs
//
//   - history: 1 hour
//   - symbols: 24 hours
//   - industries: 24 hours
//   - prices: 5 minutes
//   - partial_industries: 10 minutes
//   - industry_codes: 24 hours
//
// # Metrics
//
// The manager exports Prometheus metrics:
//
//   - vnstock_cache_errors_total{operation} - Store operation errors (get, set, delete)
//   - vnstock_cache_written_bytes_total - Bytes written to the store
//   - vnstock_cache_expired_total - Entries found past their expiry on read
package cache
