// Package service provides the acquisition provenance resolver for RosterTrace.
package service

import (
	"sort"

	"github.com/yndnr/rostertrace/internal/core/domain"
)

// FallbackReason names the lineage condition that justified a PreviousOwner record.
type FallbackReason string

const (
	FallbackNone                FallbackReason = ""
	FallbackParticipantNotFound FallbackReason = "participant_not_found"
	FallbackPriorDraftActivity  FallbackReason = "prior_draft_activity"
	FallbackNoStartupDraft      FallbackReason = "no_startup_draft"
	FallbackNoStartupPicks      FallbackReason = "no_startup_picks"
	FallbackUnresolved          FallbackReason = "unresolved"
)

// FallbackReasonFor picks the lineage condition that explains unresolved players.
func FallbackReasonFor(cls *Classification, startupPicks int) FallbackReason {
	switch {
	case !cls.ParticipantFound():
		return FallbackParticipantNotFound
	case cls.PriorDraftActivity:
		return FallbackPriorDraftActivity
	case !cls.StartupDesignated():
		return FallbackNoStartupDraft
	case startupPicks == 0:
		return FallbackNoStartupPicks
	default:
		return FallbackUnresolved
	}
}

// ApplyFallback reclassifies every Unknown record as PreviousOwner and
// returns the reason together with the reclassified player ids.
//
// The rule is exhaustive: no Unknown record survives it, including one
// written by a residual transaction.
func ApplyFallback(records domain.AcquisitionMap, cls *Classification, startupPicks int) (FallbackReason, []string) {
	var players []string
	for id, rec := range records {
		if rec.IsUnknown() {
			players = append(players, id)
		}
	}
	if len(players) == 0 {
		return FallbackNone, nil
	}
	sort.Strings(players)

	for _, id := range players {
		records[id] = domain.AcquisitionRecord{
			Kind:   domain.AcquisitionPreviousOwner,
			Detail: domain.PreviousOwnerDetail,
		}
	}

	return FallbackReasonFor(cls, startupPicks), players
}
