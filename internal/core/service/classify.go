// Package service provides the acquisition provenance resolver for RosterTrace.
package service

import (
	"github.com/yndnr/rostertrace/internal/core/domain"
)

// Classification is the startup-draft decision for one lineage.
type Classification struct {
	// Redraft is set when the current league is a redraft league;
	// every draft pick is then a startup acquisition.
	Redraft bool

	// EarliestSeason is the index of the first season in which the
	// participant held a non-empty roster, -1 when never found.
	EarliestSeason int

	// StartupDraftID is the designated draft within EarliestSeason,
	// empty when none could be designated.
	StartupDraftID string

	// PriorDraftActivity is set when a season before EarliestSeason
	// held any draft pick.
	PriorDraftActivity bool
}

// ParticipantFound reports whether the participant appears in the lineage.
func (c *Classification) ParticipantFound() bool {
	return c.EarliestSeason >= 0
}

// StartupDesignated reports whether a startup draft was named.
func (c *Classification) StartupDesignated() bool {
	return c.StartupDraftID != ""
}

// StartupApplies reports whether the designated draft's picks count as
// startup picks: the participant joined with the lineage's first drafts.
func (c *Classification) StartupApplies() bool {
	return c.ParticipantFound() && c.StartupDesignated() && !c.PriorDraftActivity
}

// PickKind classifies a pick made in the given season and draft.
func (c *Classification) PickKind(seasonIdx int, draftID string) domain.AcquisitionKind {
	if c.Redraft {
		return domain.AcquisitionStartupDraft
	}
	if c.StartupApplies() && seasonIdx == c.EarliestSeason && draftID == c.StartupDraftID {
		return domain.AcquisitionStartupDraft
	}
	return domain.AcquisitionRookieDraft
}

// StartupClassifier designates the startup draft of a lineage.
type StartupClassifier struct{}

// Classify inspects the earliest season the participant appears in.
//
// Within that season's drafts (ascending id), the participant's drafts are
// candidates. A draft declared startup, or whose id contains "startup" or
// "initial", is preferred; otherwise the earliest candidate is designated.
func (StartupClassifier) Classify(participantID string, seasons []SeasonData, current *domain.League) *Classification {
	c := &Classification{
		Redraft:        current.IsRedraft(),
		EarliestSeason: -1,
	}

	for i := range seasons {
		if seasons[i].HasParticipant() {
			c.EarliestSeason = i
			break
		}
	}
	if c.EarliestSeason < 0 {
		return c
	}

	// A season whose roster is unknown is not evidence either way.
	for i := 0; i < c.EarliestSeason; i++ {
		if seasons[i].RosterUnavailable {
			continue
		}
		if seasons[i].HasDraftActivity() {
			c.PriorDraftActivity = true
			break
		}
	}

	earliest := &seasons[c.EarliestSeason]
	rosterID := earliest.Roster.RosterID

	drafts := make([]domain.DraftRecord, len(earliest.Drafts))
	copy(drafts, earliest.Drafts)
	domain.SortDrafts(drafts)

	var fallback string
	for i := range drafts {
		d := &drafts[i]
		if !d.PickedBy(participantID, rosterID) {
			continue
		}
		if d.LooksLikeStartup() {
			c.StartupDraftID = d.DraftID
			return c
		}
		if fallback == "" {
			fallback = d.DraftID
		}
	}
	c.StartupDraftID = fallback

	return c
}
