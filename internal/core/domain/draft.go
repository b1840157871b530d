// Package domain defines the core domain models for RosterTrace.
package domain

import (
	"fmt"
	"sort"
	"strings"
)

// DraftType is the draft type declared by the league, if any.
// The zero value means the league declared nothing.
type DraftType string

const (
	DraftTypeStartup DraftType = "startup"
	DraftTypeRookie  DraftType = "rookie"
	DraftTypeOther   DraftType = "other"
)

// DraftRecord is one draft held within a season, with its picks attached.
type DraftRecord struct {
	DraftID      string      `json:"draft_id"`
	Season       string      `json:"season,omitempty"`
	Name         string      `json:"name,omitempty"`
	DeclaredType DraftType   `json:"declared_type,omitempty"`
	Picks        []DraftPick `json:"picks,omitempty"`
}

// DraftPick is one selection within a draft.
type DraftPick struct {
	PlayerID string `json:"player_id"`
	PickedBy string `json:"picked_by"`
	RosterID int    `json:"roster_id,omitempty"`
	Round    int    `json:"round"`

	// PickNumber is the overall 1-based sequence number within the draft.
	PickNumber int `json:"pick_no"`
}

// LooksLikeStartup reports whether the draft is named as the startup draft:
// declared startup, or an identifier containing "startup" or "initial".
// Identifiers are opaque, so this heuristic can misclassify.
func (d *DraftRecord) LooksLikeStartup() bool {
	if d.DeclaredType == DraftTypeStartup {
		return true
	}
	id := strings.ToLower(d.DraftID)
	return strings.Contains(id, "startup") || strings.Contains(id, "initial")
}

// HasActivity reports whether the draft produced any pick.
func (d *DraftRecord) HasActivity() bool {
	return len(d.Picks) > 0
}

// PickedBy reports whether the participant made a pick in the draft.
// rosterID is the participant's roster in that season (0 when unknown).
func (d *DraftRecord) PickedBy(participantID string, rosterID int) bool {
	for _, p := range d.Picks {
		if p.MadeBy(participantID, rosterID) {
			return true
		}
	}
	return false
}

// MadeBy reports whether the pick belongs to the participant's roster.
func (p DraftPick) MadeBy(participantID string, rosterID int) bool {
	if rosterID > 0 && p.RosterID == rosterID {
		return true
	}
	return participantID != "" && p.PickedBy == participantID
}

// Slot returns the 1-based slot within the round for the given team count.
func (p DraftPick) Slot(teams int) int {
	if teams <= 0 {
		teams = DefaultTeamCount
	}
	if p.PickNumber <= 0 {
		return 0
	}
	return ((p.PickNumber - 1) % teams) + 1
}

// FormatPickSlot formats a pick as "{round}.{slot}" with a two-digit slot.
// In a 12-team league, pick 24 of round 2 is "2.12" and pick 25 of round 3 is "3.01".
func FormatPickSlot(round, pickNumber, teams int) string {
	p := DraftPick{Round: round, PickNumber: pickNumber}
	return fmt.Sprintf("%d.%02d", round, p.Slot(teams))
}

// CompareIDs orders opaque identifiers. Purely numeric identifiers compare
// by numeric value; anything else compares lexically.
func CompareIDs(a, b string) int {
	if isDigits(a) && isDigits(b) {
		a = strings.TrimLeft(a, "0")
		b = strings.TrimLeft(b, "0")
		if len(a) != len(b) {
			if len(a) < len(b) {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(a, b)
}

// SortDrafts sorts drafts by ascending identifier, a proxy for chronological order.
func SortDrafts(drafts []DraftRecord) {
	sort.SliceStable(drafts, func(i, j int) bool {
		return CompareIDs(drafts[i].DraftID, drafts[j].DraftID) < 0
	})
}

// SortPicks sorts picks by ascending overall pick number.
func SortPicks(picks []DraftPick) {
	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].PickNumber < picks[j].PickNumber
	})
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
