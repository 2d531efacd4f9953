// Package repositories implements the byte-level backends behind the key-value store.
//
// Key Implementations:
//   - [KVRepository] : SQLite table keyed by name, upserted on save (default driver)
//   - [RedisRepository] : Redis strings under a configurable key prefix
//   - [MemoryRepository] : process-local map used by tests and the "memory" driver
//   - [MovieCacheRepository] : SQLite cache of upstream metadata responses with expiry
//
// Every key-value backend satisfies storage.Backend. [RedisRepository] and [MovieCacheRepository]
// also satisfy the proxy's response cache contract.
//
// Deleting a missing key is never an error, and Load distinguishes "missing" from "failed" through
// its boolean result.
package repositories
