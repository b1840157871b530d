// Package storage provides the acquisition cache for RosterTrace.
//
// The cache combines an in-process tier with a durable tier so repeated
// resolutions survive both hot reloads and process restarts.
//
// Architecture:
//
//   - In-process tier: memory.Store (sharded TTL map)
//   - Durable tier: BadgerStore (embedded LSM with entry TTL),
//     RedisStore (shared across instances) or a second memory.Store
//   - TieredCache: read-through across tiers, write-through to both
//
// Values are JSON encoded acquisition maps stored under versioned keys
// (rostertrace:acq:v1:{league}:{owner}), so an encoding change only needs
// a key version bump.
package storage
