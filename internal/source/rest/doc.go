// Package rest implements the league history data source over the
// upstream fantasy platform's versioned REST API.
//
// Endpoints (relative to the configured base URL, e.g. https://api.example.com/v1):
//
//	GET /league/{league_id}
//	GET /league/{league_id}/rosters
//	GET /league/{league_id}/drafts
//	GET /draft/{draft_id}/picks
//	GET /league/{league_id}/transactions/{week}
//
// Every request carries the caller's context, waits on a token-bucket
// limiter and runs through a circuit breaker. Requests are never retried;
// the resolver degrades failed units instead.
package rest
