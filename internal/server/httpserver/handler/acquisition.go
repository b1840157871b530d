package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/yndnr/rostertrace/internal/core/domain"
	"github.com/yndnr/rostertrace/internal/core/service"
)

// handleGetAcquisitions handles GET /v1/leagues/{league_id}/owners/{owner_id}/acquisitions.
func (h *Handler) handleGetAcquisitions(w http.ResponseWriter, r *http.Request) {
	leagueID, ownerID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	refresh, err := boolQuery(r, "refresh")
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code, "refresh must be a boolean", nil)
		return
	}
	diagnostics, err := boolQuery(r, "diagnostics")
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code, "diagnostics must be a boolean", nil)
		return
	}

	res, err := h.resolver.Resolve(r.Context(), &service.ResolveRequest{
		LeagueID:      leagueID,
		ParticipantID: ownerID,
		Refresh:       refresh,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, newAcquisitionsResponse(res, diagnostics))
}

// handleInvalidateAcquisitions handles DELETE /v1/leagues/{league_id}/owners/{owner_id}/acquisitions.
func (h *Handler) handleInvalidateAcquisitions(w http.ResponseWriter, r *http.Request) {
	leagueID, ownerID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	if err := h.resolver.Invalidate(r.Context(), leagueID, ownerID); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, InvalidateResponse{
		LeagueID:    leagueID,
		OwnerID:     ownerID,
		Invalidated: true,
	})
}

// handleGetLineage handles GET /v1/leagues/{league_id}/lineage.
func (h *Handler) handleGetLineage(w http.ResponseWriter, r *http.Request) {
	leagueID := strings.TrimSpace(r.PathValue("league_id"))
	if leagueID == "" {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrMissingArgument.Code, "league_id is required", nil)
		return
	}

	nodes, err := h.resolver.Lineage(r.Context(), leagueID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if nodes == nil {
		nodes = []domain.SeasonNode{}
	}

	h.writeJSON(w, r, http.StatusOK, LineageResponse{LeagueID: leagueID, Seasons: nodes})
}

func (h *Handler) pathIDs(w http.ResponseWriter, r *http.Request) (leagueID, ownerID string, ok bool) {
	leagueID = strings.TrimSpace(r.PathValue("league_id"))
	ownerID = strings.TrimSpace(r.PathValue("owner_id"))
	switch {
	case leagueID == "":
		h.writeError(w, r, http.StatusBadRequest, domain.ErrMissingArgument.Code, "league_id is required", nil)
		return "", "", false
	case ownerID == "":
		h.writeError(w, r, http.StatusBadRequest, domain.ErrMissingArgument.Code, "owner_id is required", nil)
		return "", "", false
	}
	return leagueID, ownerID, true
}

func boolQuery(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}
