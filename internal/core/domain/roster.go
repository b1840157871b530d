// Package domain defines the core domain models for RosterTrace.
package domain

// RosterSnapshot is one team's roster within one season's league.
type RosterSnapshot struct {
	RosterID  int      `json:"roster_id"`
	OwnerID   string   `json:"owner_id"`
	CoOwners  []string `json:"co_owners,omitempty"`
	PlayerIDs []string `json:"players"`
}

// OwnedBy reports whether the participant owns or co-owns the roster.
func (r *RosterSnapshot) OwnedBy(participantID string) bool {
	if r == nil || participantID == "" {
		return false
	}
	if r.OwnerID == participantID {
		return true
	}
	for _, id := range r.CoOwners {
		if id == participantID {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the snapshot holds no players.
func (r *RosterSnapshot) IsEmpty() bool {
	return r == nil || len(r.PlayerIDs) == 0
}

// Contains reports whether the player is on the roster.
func (r *RosterSnapshot) Contains(playerID string) bool {
	if r == nil {
		return false
	}
	for _, id := range r.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// FindRoster returns the participant's roster among the league's rosters,
// or nil when the participant has no team in that league.
func FindRoster(rosters []RosterSnapshot, participantID string) *RosterSnapshot {
	for i := range rosters {
		if rosters[i].OwnerID == participantID {
			r := rosters[i]
			return &r
		}
	}
	for i := range rosters {
		if rosters[i].OwnedBy(participantID) {
			r := rosters[i]
			return &r
		}
	}
	return nil
}
