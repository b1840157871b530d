// Package memory provides in-memory storage for RosterTrace.
//
// It implements a TTL key/value store on top of pkg/cmap, used as the
// in-process cache tier and as the durable tier when no disk or Redis
// backend is configured.
//
// Features:
//
//   - Sharded Storage: Entries distributed across shards for parallelism
//   - Per-entry TTL: Expired entries are hidden on read and swept periodically
//   - Value Isolation: Values are copied on write and on read
//
// Thread Safety:
//
// All operations are thread-safe through fine-grained locking.
package memory
