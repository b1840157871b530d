// Package service provides the acquisition provenance resolver for RosterTrace.
//
// Domain services contain pure business logic and orchestrate operations
// on domain models. They define interfaces for their upstream and cache
// dependencies, allowing for dependency injection and testability.
//
// The resolver runs as a strictly downstream pipeline:
//
//   - LineageWalker: follows previous-season pointers, oldest season first
//   - SeasonAggregator: fetches roster, drafts with picks, and transactions per season
//   - StartupClassifier: designates the startup draft, if any
//   - Fuser: merges draft and transaction events into one record per player
//   - Fallback: reclassifies still-unresolved players as PreviousOwner
//
// ProvenanceService wires the stages together behind a read-through,
// write-through AcquisitionCache.
package service
