// Package cmap provides a concurrent map implementation for RosterTrace.
//
// This package implements a sharded concurrent map used by the in-process
// cache tier and the upstream response cache:
//
//   - Sharding: Configurable shard count for parallelism
//   - Hashing: murmur3 over the key's string form, seeded per map
//   - Fine-grained Locking: Per-shard RWMutex for minimal contention
//   - Iteration: Safe iteration and conditional deletion shard by shard
//
// Usage:
//
//	m := cmap.New[string, entry]()
//	m.Set("key", e)
//	val, ok := m.Get("key")
//
// Thread Safety:
//
// All operations are thread-safe. Read operations (Get, Has) use RLock,
// write operations (Set, Delete, Update) use Lock.
package cmap
