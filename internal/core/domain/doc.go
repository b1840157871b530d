// Package domain defines the core domain models for RosterTrace.
//
// Domain models are pure value objects without any IO dependencies or
// framework coupling. This package contains:
//
//   - League / SeasonNode: one season's league instance and its lineage link
//   - RosterSnapshot: a participant's roster within one season
//   - DraftRecord / DraftPick: drafts held in a season and their picks
//   - Transaction: trades, waiver claims and free-agent moves
//   - AcquisitionRecord: how a rostered player was acquired
//   - Errors: Domain-specific error definitions
//
// All entities are built fresh per resolution call and discarded afterwards.
package domain
