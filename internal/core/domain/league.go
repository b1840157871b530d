// Package domain defines the core domain models for RosterTrace.
package domain

import (
	"strconv"
	"strings"
	"time"
)

// League constants.
const (
	// DefaultTeamCount is used when the league does not report a team count.
	DefaultTeamCount = 12

	// MaxLineageHops bounds the previous-season chain walk.
	MaxLineageHops = 10
)

// SettingsType is the league format reported by the league settings.
type SettingsType int

const (
	SettingsRedraft SettingsType = 0
	SettingsKeeper  SettingsType = 1
	SettingsDynasty SettingsType = 2
)

// String returns the format name.
func (t SettingsType) String() string {
	switch t {
	case SettingsRedraft:
		return "redraft"
	case SettingsKeeper:
		return "keeper"
	case SettingsDynasty:
		return "dynasty"
	default:
		return "unknown"
	}
}

// League is the league metadata returned by the history data source.
type League struct {
	LeagueID         string `json:"league_id"`
	Season           string `json:"season"`
	PreviousLeagueID string `json:"previous_league_id,omitempty"`
	TotalTeams       int    `json:"total_teams"`

	// SettingsType is nil when the league did not report a format.
	SettingsType *SettingsType `json:"settings_type,omitempty"`
}

// IsRedraft reports whether the league is explicitly marked as redraft.
// A league without a reported format is treated as dynasty.
func (l *League) IsRedraft() bool {
	return l != nil && l.SettingsType != nil && *l.SettingsType == SettingsRedraft
}

// TeamCount returns the league's team count, or DefaultTeamCount when unknown.
func (l *League) TeamCount() int {
	if l == nil || l.TotalTeams <= 0 {
		return DefaultTeamCount
	}
	return l.TotalTeams
}

// HasPrevious reports whether the league links to a previous season.
func (l *League) HasPrevious() bool {
	return l != nil && IsLeagueRef(l.PreviousLeagueID)
}

// Node converts the league metadata into its lineage node.
func (l *League) Node() SeasonNode {
	node := SeasonNode{
		LeagueID:   l.LeagueID,
		Season:     l.Season,
		TotalTeams: l.TotalTeams,
	}
	if l.HasPrevious() {
		node.PreviousLeagueID = l.PreviousLeagueID
	}
	return node
}

// IsLeagueRef reports whether id refers to an actual league.
// The upstream API uses "" and "0" for "no previous league".
func IsLeagueRef(id string) bool {
	id = strings.TrimSpace(id)
	return id != "" && id != "0"
}

// SeasonNode represents one season's league instance within a lineage.
// Immutable once built by the lineage walker.
type SeasonNode struct {
	LeagueID         string `json:"league_id"`
	Season           string `json:"season"`
	PreviousLeagueID string `json:"previous_league_id,omitempty"`

	// TotalTeams is 0 when unknown.
	TotalTeams int `json:"total_teams,omitempty"`
}

// NominalDraftTime returns June 1 (UTC) of the season in epoch milliseconds.
// Drafts carry no transaction timestamps; this placeholder orders them
// against the season's transactions. ok is false for an unparseable season.
func NominalDraftTime(season string) (ms int64, ok bool) {
	year, err := strconv.Atoi(strings.TrimSpace(season))
	if err != nil || year <= 0 {
		return 0, false
	}
	return time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), true
}
