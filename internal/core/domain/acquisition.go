// Package domain defines the core domain models for RosterTrace.
package domain

import "time"

// AcquisitionKind classifies how a player joined the participant's roster.
type AcquisitionKind string

const (
	AcquisitionStartupDraft  AcquisitionKind = "StartupDraft"
	AcquisitionRookieDraft   AcquisitionKind = "RookieDraft"
	AcquisitionTrade         AcquisitionKind = "Trade"
	AcquisitionWaiver        AcquisitionKind = "Waiver"
	AcquisitionFreeAgency    AcquisitionKind = "FreeAgency"
	AcquisitionPreviousOwner AcquisitionKind = "PreviousOwner"
	AcquisitionUnknown       AcquisitionKind = "Unknown"
)

// Acquisition detail strings.
const (
	PreviousOwnerDetail      = "on roster when participant took over team"
	UnknownTransactionDetail = "Unknown Transaction"
	eventDateLayout          = "Jan 2, 2006"
)

// AcquisitionRecord describes how one rostered player was acquired.
type AcquisitionRecord struct {
	Kind   AcquisitionKind `json:"kind"`
	Detail string          `json:"detail"`

	// AcquiredAt is epoch milliseconds, nil when no event supplied a time.
	AcquiredAt *int64 `json:"acquired_at,omitempty"`
}

// UnknownRecord returns the record every player starts from.
func UnknownRecord() AcquisitionRecord {
	return AcquisitionRecord{Kind: AcquisitionUnknown}
}

// IsUnknown reports whether the record is still unclassified.
func (r AcquisitionRecord) IsUnknown() bool {
	return r.Kind == AcquisitionUnknown || r.Kind == ""
}

// IsUnresolved reports whether no event has ever been applied to the record.
func (r AcquisitionRecord) IsUnresolved() bool {
	return r.IsUnknown() && r.AcquiredAt == nil
}

// Equal reports whether two records are identical.
func (r AcquisitionRecord) Equal(o AcquisitionRecord) bool {
	if r.Kind != o.Kind || r.Detail != o.Detail {
		return false
	}
	if r.AcquiredAt == nil || o.AcquiredAt == nil {
		return r.AcquiredAt == nil && o.AcquiredAt == nil
	}
	return *r.AcquiredAt == *o.AcquiredAt
}

// AcquisitionMap maps player id to its acquisition record.
type AcquisitionMap map[string]AcquisitionRecord

// NewAcquisitionMap seeds an Unknown record for every player.
func NewAcquisitionMap(playerIDs []string) AcquisitionMap {
	m := make(AcquisitionMap, len(playerIDs))
	for _, id := range playerIDs {
		m[id] = UnknownRecord()
	}
	return m
}

// Clone returns a deep copy of the map.
func (m AcquisitionMap) Clone() AcquisitionMap {
	if m == nil {
		return nil
	}
	out := make(AcquisitionMap, len(m))
	for id, rec := range m {
		if rec.AcquiredAt != nil {
			at := *rec.AcquiredAt
			rec.AcquiredAt = &at
		}
		out[id] = rec
	}
	return out
}

// Equal reports whether both maps hold identical records.
func (m AcquisitionMap) Equal(o AcquisitionMap) bool {
	if len(m) != len(o) {
		return false
	}
	for id, rec := range m {
		other, ok := o[id]
		if !ok || !rec.Equal(other) {
			return false
		}
	}
	return true
}

// CountKind returns the number of records with the given kind.
func (m AcquisitionMap) CountKind(kind AcquisitionKind) int {
	n := 0
	for _, rec := range m {
		if rec.Kind == kind {
			n++
		}
	}
	return n
}

// FormatEventDate renders an epoch-millisecond timestamp as a UTC calendar date.
func FormatEventDate(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(eventDateLayout)
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 {
	return &v
}
