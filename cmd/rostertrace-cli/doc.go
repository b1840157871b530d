// Package main provides the entry point for rostertrace-cli.
//
// rostertrace-cli queries a rostertrace-server, or with --direct resolves
// in-process against the upstream league API.
//
// Usage:
//
//	rostertrace-cli acquisitions LEAGUE_ID OWNER_ID
//	rostertrace-cli -o json lineage LEAGUE_ID
//	rostertrace-cli acquisitions --direct LEAGUE_ID OWNER_ID
package main
