// Package httpserver provides the HTTP server for RosterTrace.
//
// It uses the Go standard library net/http, serving the acquisition and
// lineage endpoints plus health, readiness, version and Prometheus metrics.
package httpserver
