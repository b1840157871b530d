package command

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rostertrace/internal/cli/connection"
	"github.com/yndnr/rostertrace/internal/core/domain"
	"github.com/yndnr/rostertrace/internal/core/service"
	"github.com/yndnr/rostertrace/internal/source/cached"
	"github.com/yndnr/rostertrace/internal/source/rest"
	"github.com/yndnr/rostertrace/internal/telemetry/logger"
)

// AcquisitionsView is the acquisitions result as printed by the CLI.
type AcquisitionsView struct {
	LeagueID     string                `json:"league_id"`
	OwnerID      string                `json:"owner_id"`
	Cached       bool                  `json:"cached"`
	Acquisitions domain.AcquisitionMap `json:"acquisitions"`
	Diagnostics  *DiagnosticsView      `json:"diagnostics,omitempty"`
}

// DiagnosticsView explains a fresh resolution.
type DiagnosticsView struct {
	Lineage        []domain.SeasonNode `json:"lineage"`
	EarliestSeason string              `json:"earliest_season,omitempty"`
	StartupDraftID string              `json:"startup_draft_id,omitempty"`
	FallbackReason string              `json:"fallback_reason,omitempty"`
	FallbackCount  int                 `json:"fallback_count"`
	Degraded       bool                `json:"degraded"`
}

// LineageView is the lineage result as printed by the CLI.
type LineageView struct {
	LeagueID string              `json:"league_id"`
	Seasons  []domain.SeasonNode `json:"seasons"`
}

// InvalidateView is the invalidate result as printed by the CLI.
type InvalidateView struct {
	LeagueID    string `json:"league_id"`
	OwnerID     string `json:"owner_id"`
	Invalidated bool   `json:"invalidated"`
}

// backend answers the resolver commands either through a server or in-process.
type backend interface {
	Acquisitions(ctx context.Context, leagueID, ownerID string, refresh, diagnostics bool) (*AcquisitionsView, error)
	Lineage(ctx context.Context, leagueID string) (*LineageView, error)
}

// backendFlags select in-process resolution.
func backendFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "direct",
			Usage: "Resolve in-process against the upstream API instead of a server",
		},
		&cli.StringFlag{
			Name:    "api-url",
			Usage:   "Upstream API base URL for --direct",
			EnvVars: []string{"ROSTERTRACE_SOURCE_BASEURL"},
			Value:   DefaultAPIURL,
		},
	}
}

// DefaultAPIURL is the upstream league history API.
const DefaultAPIURL = "https://api.sleeper.app/v1"

func newBackend(c *cli.Context) (backend, error) {
	if !c.Bool("direct") {
		return &remoteBackend{client: EnsureConnected(c)}, nil
	}

	log := logger.Discard()
	if ParseGlobalFlags(c).Verbose {
		log = slog.New(slog.NewTextHandler(stderr(c), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	client, err := rest.NewClient(rest.Config{BaseURL: c.String("api-url")}, log)
	if err != nil {
		return nil, err
	}

	cfg := service.DefaultProvenanceConfig()
	cfg.Logger = log
	src := cached.New(client, nil, 0, log)
	return &directBackend{svc: service.NewProvenanceService(src, nil, cfg)}, nil
}

// remoteBackend talks to a rostertrace-server.
type remoteBackend struct {
	client *connection.HTTPClient
}

func acquisitionsPath(leagueID, ownerID string) string {
	return fmt.Sprintf("/v1/leagues/%s/owners/%s/acquisitions", url.PathEscape(leagueID), url.PathEscape(ownerID))
}

func (b *remoteBackend) Acquisitions(ctx context.Context, leagueID, ownerID string, refresh, diagnostics bool) (*AcquisitionsView, error) {
	q := url.Values{}
	if refresh {
		q.Set("refresh", "true")
	}
	if diagnostics {
		q.Set("diagnostics", "true")
	}
	path := acquisitionsPath(leagueID, ownerID)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := b.client.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	var view AcquisitionsView
	if err := connection.ParseResponse(resp, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (b *remoteBackend) Lineage(ctx context.Context, leagueID string) (*LineageView, error) {
	resp, err := b.client.Get(ctx, "/v1/leagues/"+url.PathEscape(leagueID)+"/lineage")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	var view LineageView
	if err := connection.ParseResponse(resp, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (b *remoteBackend) Invalidate(ctx context.Context, leagueID, ownerID string) (*InvalidateView, error) {
	resp, err := b.client.Delete(ctx, acquisitionsPath(leagueID, ownerID))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	var view InvalidateView
	if err := connection.ParseResponse(resp, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// directBackend resolves in-process. It has no acquisition cache, so every
// call is a fresh resolution.
type directBackend struct {
	svc *service.ProvenanceService
}

func (b *directBackend) Acquisitions(ctx context.Context, leagueID, ownerID string, _, diagnostics bool) (*AcquisitionsView, error) {
	res, err := b.svc.Resolve(ctx, &service.ResolveRequest{LeagueID: leagueID, ParticipantID: ownerID, Refresh: true})
	if err != nil {
		return nil, err
	}
	view := &AcquisitionsView{
		LeagueID:     res.LeagueID,
		OwnerID:      res.ParticipantID,
		Acquisitions: res.Acquisitions,
	}
	if diagnostics {
		view.Diagnostics = &DiagnosticsView{
			Lineage:        res.Lineage,
			EarliestSeason: res.EarliestSeason,
			StartupDraftID: res.StartupDraftID,
			FallbackReason: string(res.FallbackReason),
			FallbackCount:  res.FallbackCount,
			Degraded:       res.Degraded,
		}
	}
	return view, nil
}

func (b *directBackend) Lineage(ctx context.Context, leagueID string) (*LineageView, error) {
	nodes, err := b.svc.Lineage(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return &LineageView{LeagueID: leagueID, Seasons: nodes}, nil
}
