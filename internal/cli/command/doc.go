// Package command provides CLI command definitions for rostertrace-cli.
//
// Commands are built with urfave/cli/v2:
//
//   - acquisitions: how each player on an owner's roster was acquired
//   - lineage: the season chain of a league
//   - invalidate: drop a cached resolution on the server
//   - system: server health, readiness and version
//
// acquisitions and lineage talk to a rostertrace-server by default. With
// --direct they resolve in-process against the upstream API instead.
package command
