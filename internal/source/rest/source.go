package rest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/yndnr/rostertrace/internal/core/domain"
	"github.com/yndnr/rostertrace/internal/core/service"
)

var _ service.HistorySource = (*Client)(nil)

// League returns league metadata.
func (c *Client) League(ctx context.Context, leagueID string) (*domain.League, error) {
	if leagueID == "" {
		return nil, domain.ErrMissingArgument.WithDetails("league id")
	}
	var dto leagueDTO
	if err := c.getJSON(ctx, "/league/"+url.PathEscape(leagueID), &dto); err != nil {
		return nil, err
	}
	return dto.toDomain(leagueID), nil
}

// Rosters returns every team's roster in the league.
func (c *Client) Rosters(ctx context.Context, leagueID string) ([]domain.RosterSnapshot, error) {
	var dtos []rosterDTO
	if err := c.getJSON(ctx, "/league/"+url.PathEscape(leagueID)+"/rosters", &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.RosterSnapshot, 0, len(dtos))
	for i := range dtos {
		out = append(out, dtos[i].toDomain())
	}
	return out, nil
}

// Drafts returns the league's draft headers.
func (c *Client) Drafts(ctx context.Context, leagueID string) ([]domain.DraftRecord, error) {
	var dtos []draftDTO
	if err := c.getJSON(ctx, "/league/"+url.PathEscape(leagueID)+"/drafts", &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.DraftRecord, 0, len(dtos))
	for i := range dtos {
		if dtos[i].DraftID == "" {
			continue
		}
		out = append(out, dtos[i].toDomain())
	}
	return out, nil
}

// DraftPicks returns all picks of a draft.
func (c *Client) DraftPicks(ctx context.Context, draftID string) ([]domain.DraftPick, error) {
	var dtos []pickDTO
	if err := c.getJSON(ctx, "/draft/"+url.PathEscape(draftID)+"/picks", &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.DraftPick, 0, len(dtos))
	for i := range dtos {
		out = append(out, dtos[i].toDomain())
	}
	return out, nil
}

// Transactions returns the league's transactions for one week.
func (c *Client) Transactions(ctx context.Context, leagueID string, week int) ([]domain.Transaction, error) {
	var dtos []transactionDTO
	path := fmt.Sprintf("/league/%s/transactions/%d", url.PathEscape(leagueID), week)
	if err := c.getJSON(ctx, path, &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.Transaction, 0, len(dtos))
	for i := range dtos {
		out = append(out, dtos[i].toDomain())
	}
	return out, nil
}
