package rest

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/yndnr/rostertrace/internal/core/domain"
)

// flexID accepts an identifier encoded as a JSON string, number or null.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type leagueSettingsDTO struct {
	NumTeams int  `json:"num_teams"`
	Type     *int `json:"type"`
}

type leagueDTO struct {
	LeagueID         flexID            `json:"league_id"`
	Season           flexID            `json:"season"`
	PreviousLeagueID flexID            `json:"previous_league_id"`
	TotalRosters     int               `json:"total_rosters"`
	Status           string            `json:"status"`
	Settings         leagueSettingsDTO `json:"settings"`
}

func (d *leagueDTO) toDomain(requestedID string) *domain.League {
	l := &domain.League{
		LeagueID:   string(d.LeagueID),
		Season:     string(d.Season),
		TotalTeams: d.TotalRosters,
	}
	if l.LeagueID == "" {
		l.LeagueID = requestedID
	}
	if l.TotalTeams <= 0 {
		l.TotalTeams = d.Settings.NumTeams
	}
	if id := string(d.PreviousLeagueID); domain.IsLeagueRef(id) {
		l.PreviousLeagueID = id
	}
	if d.Settings.Type != nil {
		t := domain.SettingsType(*d.Settings.Type)
		l.SettingsType = &t
	}
	return l
}

type rosterDTO struct {
	RosterID int      `json:"roster_id"`
	OwnerID  flexID   `json:"owner_id"`
	CoOwners []flexID `json:"co_owners"`
	Players  []flexID `json:"players"`
}

func (d *rosterDTO) toDomain() domain.RosterSnapshot {
	r := domain.RosterSnapshot{
		RosterID:  d.RosterID,
		OwnerID:   string(d.OwnerID),
		PlayerIDs: make([]string, 0, len(d.Players)),
	}
	for _, id := range d.CoOwners {
		if id != "" {
			r.CoOwners = append(r.CoOwners, string(id))
		}
	}
	for _, id := range d.Players {
		if id != "" {
			r.PlayerIDs = append(r.PlayerIDs, string(id))
		}
	}
	return r
}

type draftMetadataDTO struct {
	Name string `json:"name"`
}

type draftDTO struct {
	DraftID  flexID           `json:"draft_id"`
	Season   flexID           `json:"season"`
	Type     string           `json:"type"`
	Status   string           `json:"status"`
	Metadata draftMetadataDTO `json:"metadata"`
}

func (d *draftDTO) toDomain() domain.DraftRecord {
	return domain.DraftRecord{
		DraftID:      string(d.DraftID),
		Season:       string(d.Season),
		Name:         d.Metadata.Name,
		DeclaredType: declaredDraftType(d.Metadata.Name),
	}
}

// declaredDraftType derives the declared type from the draft's display name.
func declaredDraftType(name string) domain.DraftType {
	name = strings.ToLower(strings.TrimSpace(name))
	switch {
	case name == "":
		return ""
	case strings.Contains(name, "startup"), strings.Contains(name, "initial"):
		return domain.DraftTypeStartup
	case strings.Contains(name, "rookie"):
		return domain.DraftTypeRookie
	default:
		return domain.DraftTypeOther
	}
}

type pickDTO struct {
	PlayerID flexID `json:"player_id"`
	PickedBy flexID `json:"picked_by"`
	RosterID int    `json:"roster_id"`
	Round    int    `json:"round"`
	PickNo   int    `json:"pick_no"`
}

func (d *pickDTO) toDomain() domain.DraftPick {
	return domain.DraftPick{
		PlayerID:   string(d.PlayerID),
		PickedBy:   string(d.PickedBy),
		RosterID:   d.RosterID,
		Round:      d.Round,
		PickNumber: d.PickNo,
	}
}

type transactionSettingsDTO struct {
	WaiverBid *int `json:"waiver_bid"`
}

type transactionDTO struct {
	TransactionID flexID                  `json:"transaction_id"`
	Type          string                  `json:"type"`
	Status        string                  `json:"status"`
	RosterIDs     []int                   `json:"roster_ids"`
	Adds          map[string]json.Number  `json:"adds"`
	Created       int64                   `json:"created"`
	Settings      *transactionSettingsDTO `json:"settings"`
}

func (d *transactionDTO) toDomain() domain.Transaction {
	tx := domain.Transaction{
		ID:        string(d.TransactionID),
		Kind:      transactionKind(d.Type),
		Status:    d.Status,
		RosterIDs: d.RosterIDs,
		CreatedAt: d.Created,
	}
	if len(d.Adds) > 0 {
		tx.Adds = make(map[string]int, len(d.Adds))
		for player, to := range d.Adds {
			if n, err := strconv.Atoi(to.String()); err == nil {
				tx.Adds[player] = n
			}
		}
	}
	if d.Settings != nil && d.Settings.WaiverBid != nil {
		bid := *d.Settings.WaiverBid
		tx.WaiverBid = &bid
	}
	return tx
}

func transactionKind(t string) domain.TransactionKind {
	switch domain.TransactionKind(strings.ToLower(strings.TrimSpace(t))) {
	case domain.TransactionTrade:
		return domain.TransactionTrade
	case domain.TransactionWaiver:
		return domain.TransactionWaiver
	case domain.TransactionFreeAgent:
		return domain.TransactionFreeAgent
	default:
		return domain.TransactionOther
	}
}
