// Package service provides the acquisition provenance resolver for RosterTrace.
package service

import (
	"context"
	"log/slog"

	"github.com/yndnr/rostertrace/internal/core/domain"
)

// Lineage is the walked season chain of a league.
type Lineage struct {
	// Nodes are ordered oldest season first; the last node is the target league.
	Nodes []domain.SeasonNode

	// Current is the target league's metadata, nil when it could not be fetched.
	Current *domain.League

	// Truncated is set when a league fetch failed, ending the walk early.
	Truncated bool
}

// LineageWalker follows previous-season pointers from a target league.
type LineageWalker struct {
	source  HistorySource
	maxHops int
	logger  *slog.Logger
	metrics Metrics
}

// NewLineageWalker creates a new LineageWalker. maxHops <= 0 uses domain.MaxLineageHops.
func NewLineageWalker(source HistorySource, maxHops int, logger *slog.Logger, metrics Metrics) *LineageWalker {
	if maxHops <= 0 {
		maxHops = domain.MaxLineageHops
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &LineageWalker{
		source:  source,
		maxHops: maxHops,
		logger:  logger,
		metrics: metrics,
	}
}

// Walk collects the lineage of leagueID.
//
// The walk stops when the pointer is absent, the next league was already
// visited, or maxHops nodes were collected. When the very first fetch fails
// the walk degrades to a single node for leagueID with an empty season.
// Only cancellation is returned as an error.
func (w *LineageWalker) Walk(ctx context.Context, leagueID string) (*Lineage, error) {
	lineage := &Lineage{}
	visited := make(map[string]struct{}, w.maxHops)

	id := leagueID
	for len(lineage.Nodes) < w.maxHops {
		if _, seen := visited[id]; seen {
			w.logger.Warn("league lineage cycle detected", "league_id", id)
			break
		}
		visited[id] = struct{}{}

		league, err := w.source.League(ctx, id)
		if err != nil {
			if ctx.Err() != nil || domain.IsCanceled(err) {
				return nil, canceled(err)
			}
			lineage.Truncated = true
			w.metrics.ObserveUpstreamFailure("league")
			w.logger.Warn("league fetch failed",
				"league_id", id,
				"hop", len(lineage.Nodes),
				"error", err)
			break
		}

		if len(lineage.Nodes) == 0 {
			lineage.Current = league
		}
		node := league.Node()
		if node.LeagueID == "" {
			node.LeagueID = id
		}
		lineage.Nodes = append(lineage.Nodes, node)

		if node.PreviousLeagueID == "" {
			break
		}
		id = node.PreviousLeagueID
	}

	if len(lineage.Nodes) == 0 {
		lineage.Nodes = []domain.SeasonNode{{LeagueID: leagueID}}
		return lineage, nil
	}

	// Oldest season first.
	for i, j := 0, len(lineage.Nodes)-1; i < j; i, j = i+1, j-1 {
		lineage.Nodes[i], lineage.Nodes[j] = lineage.Nodes[j], lineage.Nodes[i]
	}

	return lineage, nil
}
