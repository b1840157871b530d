// Package main provides the entry point for rostertrace-server.
//
// The server resolves how each player on a fantasy roster was acquired and
// serves the result over HTTP:
//
//   - GET /v1/leagues/{league_id}/owners/{owner_id}/acquisitions
//   - DELETE /v1/leagues/{league_id}/owners/{owner_id}/acquisitions
//   - GET /v1/leagues/{league_id}/lineage
//   - GET /health, /ready, /version, /metrics
//
// Usage:
//
//	rostertrace-server [flags]
//	rostertrace-server --config /etc/rostertrace/config.yaml
//
// Configuration is read from defaults, the config file and ROSTERTRACE_*
// environment variables, in increasing priority. Edits to the config file
// and SIGHUP reload the log level without a restart.
package main
