// Package service provides the acquisition provenance resolver for RosterTrace.
package service

import (
	"fmt"

	"github.com/yndnr/rostertrace/internal/core/domain"
)

// FusionResult is the output of one fusion pass.
type FusionResult struct {
	Records domain.AcquisitionMap

	// StartupPicks counts applied startup-classified draft events.
	StartupPicks int
}

// Fuser merges draft-pick and transaction events into acquisition records.
type Fuser struct {
	defaultTeams int
}

// NewFuser creates a new Fuser. defaultTeams <= 0 uses domain.DefaultTeamCount.
func NewFuser(defaultTeams int) *Fuser {
	if defaultTeams <= 0 {
		defaultTeams = domain.DefaultTeamCount
	}
	return &Fuser{defaultTeams: defaultTeams}
}

// Fuse builds one record per player on the current roster.
//
// Seasons are processed oldest first. Within a season, draft picks are
// applied first (drafts by ascending id), then transactions in arrival
// order. Seasons without a participant roster contribute no events.
func (f *Fuser) Fuse(participantID string, current *domain.RosterSnapshot, seasons []SeasonData, cls *Classification, currentTeams int) *FusionResult {
	res := &FusionResult{Records: domain.AcquisitionMap{}}
	if current == nil {
		return res
	}
	res.Records = domain.NewAcquisitionMap(current.PlayerIDs)

	for i := range seasons {
		season := &seasons[i]
		if season.Roster == nil {
			continue
		}
		teams := f.teamCount(season.Node.TotalTeams, currentTeams)

		for d := range season.Drafts {
			draft := &season.Drafts[d]
			kind := cls.PickKind(i, draft.DraftID)
			for _, pick := range draft.Picks {
				if !pick.MadeBy(participantID, season.Roster.RosterID) {
					continue
				}
				if f.applyPick(res.Records, season.Node.Season, pick, kind, teams) && kind == domain.AcquisitionStartupDraft {
					res.StartupPicks++
				}
			}
		}

		for t := range season.Transactions {
			f.applyTransaction(res.Records, &season.Transactions[t], season.Roster.RosterID)
		}
	}

	return res
}

// applyPick records a draft event unless the player already has a timed record.
func (f *Fuser) applyPick(records domain.AcquisitionMap, season string, pick domain.DraftPick, kind domain.AcquisitionKind, teams int) bool {
	current, ok := records[pick.PlayerID]
	if !ok {
		return false
	}
	if !current.IsUnknown() && current.AcquiredAt != nil {
		return false
	}

	slot := domain.FormatPickSlot(pick.Round, pick.PickNumber, teams)
	rec := domain.AcquisitionRecord{Kind: kind, Detail: slot}
	if kind == domain.AcquisitionRookieDraft && season != "" {
		rec.Detail = season + " " + slot
	}
	if at, ok := domain.NominalDraftTime(season); ok {
		rec.AcquiredAt = domain.Int64Ptr(at)
	}

	records[pick.PlayerID] = rec
	return true
}

// applyTransaction records the move for every rostered player it added to
// the participant's roster. Later moves win over earlier records.
func (f *Fuser) applyTransaction(records domain.AcquisitionMap, tx *domain.Transaction, rosterID int) {
	if !tx.Completed() || !tx.Involves(rosterID) {
		return
	}

	for playerID := range tx.Adds {
		if !tx.AddsTo(playerID, rosterID) {
			continue
		}
		current, ok := records[playerID]
		if !ok {
			continue
		}

		rec := transactionRecord(tx)
		switch {
		case current.IsUnknown():
		case rec.IsUnknown():
			// A residual move never downgrades a known acquisition.
			continue
		case current.AcquiredAt == nil || tx.CreatedAt > *current.AcquiredAt:
		default:
			continue
		}
		records[playerID] = rec
	}
}

// transactionRecord classifies a transaction.
func transactionRecord(tx *domain.Transaction) domain.AcquisitionRecord {
	date := domain.FormatEventDate(tx.CreatedAt)
	rec := domain.AcquisitionRecord{AcquiredAt: domain.Int64Ptr(tx.CreatedAt)}

	switch tx.Kind {
	case domain.TransactionTrade:
		rec.Kind = domain.AcquisitionTrade
		rec.Detail = fmt.Sprintf("Trade (%s)", date)
	case domain.TransactionWaiver:
		rec.Kind = domain.AcquisitionWaiver
		if tx.WaiverBid != nil {
			rec.Detail = fmt.Sprintf("Waiver $%d (%s)", *tx.WaiverBid, date)
		} else {
			rec.Detail = fmt.Sprintf("Waiver (%s)", date)
		}
	case domain.TransactionFreeAgent:
		rec.Kind = domain.AcquisitionFreeAgency
		rec.Detail = fmt.Sprintf("Free Agent (%s)", date)
	default:
		rec.Kind = domain.AcquisitionUnknown
		rec.Detail = fmt.Sprintf("%s (%s)", domain.UnknownTransactionDetail, date)
	}

	return rec
}

func (f *Fuser) teamCount(seasonTeams, currentTeams int) int {
	if seasonTeams > 0 {
		return seasonTeams
	}
	if currentTeams > 0 {
		return currentTeams
	}
	return f.defaultTeams
}
