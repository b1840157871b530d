package handler

import (
	"time"

	"github.com/yndnr/rostertrace/internal/core/domain"
	"github.com/yndnr/rostertrace/internal/core/service"
)

// CodeOK is the envelope code of successful responses.
const CodeOK = "OK"

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses Prometheus format).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      CodeOK,
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// AcquisitionsResponse is the data of GET .../acquisitions.
type AcquisitionsResponse struct {
	LeagueID     string                `json:"league_id"`
	OwnerID      string                `json:"owner_id"`
	Cached       bool                  `json:"cached"`
	Acquisitions domain.AcquisitionMap `json:"acquisitions"`

	// Diagnostics is present with ?diagnostics=true on a fresh resolution.
	Diagnostics *Diagnostics `json:"diagnostics,omitempty"`
}

// Diagnostics explains how a fresh resolution classified the roster.
type Diagnostics struct {
	Lineage        []domain.SeasonNode `json:"lineage"`
	EarliestSeason string              `json:"earliest_season,omitempty"`
	StartupDraftID string              `json:"startup_draft_id,omitempty"`
	FallbackReason string              `json:"fallback_reason,omitempty"`
	FallbackCount  int                 `json:"fallback_count"`
	Degraded       bool                `json:"degraded"`
}

func newAcquisitionsResponse(res *service.Resolution, withDiagnostics bool) AcquisitionsResponse {
	out := AcquisitionsResponse{
		LeagueID:     res.LeagueID,
		OwnerID:      res.ParticipantID,
		Cached:       res.Cached,
		Acquisitions: res.Acquisitions,
	}
	if out.Acquisitions == nil {
		out.Acquisitions = domain.AcquisitionMap{}
	}
	if withDiagnostics && !res.Cached {
		out.Diagnostics = &Diagnostics{
			Lineage:        res.Lineage,
			EarliestSeason: res.EarliestSeason,
			StartupDraftID: res.StartupDraftID,
			FallbackReason: string(res.FallbackReason),
			FallbackCount:  res.FallbackCount,
			Degraded:       res.Degraded,
		}
	}
	return out
}

// LineageResponse is the data of GET .../lineage.
type LineageResponse struct {
	LeagueID string              `json:"league_id"`
	Seasons  []domain.SeasonNode `json:"seasons"`
}

// InvalidateResponse is the data of DELETE .../acquisitions.
type InvalidateResponse struct {
	LeagueID    string `json:"league_id"`
	OwnerID     string `json:"owner_id"`
	Invalidated bool   `json:"invalidated"`
}

// HealthResponse is the data of GET /health and GET /ready.
type HealthResponse struct {
	Status string            `json:"status"`
	Time   string            `json:"time"`
	Checks map[string]string `json:"checks,omitempty"`
}
