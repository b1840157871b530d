// Package domain defines the core domain models for RosterTrace.
package domain

// TransactionKind is the transaction type reported by the data source.
type TransactionKind string

const (
	TransactionTrade     TransactionKind = "trade"
	TransactionWaiver    TransactionKind = "waiver"
	TransactionFreeAgent TransactionKind = "free_agent"
	TransactionOther     TransactionKind = "other"
)

// TransactionStatusComplete is the status of an executed transaction.
const TransactionStatusComplete = "complete"

// Transaction is one roster move within a season.
type Transaction struct {
	ID     string          `json:"transaction_id"`
	Kind   TransactionKind `json:"type"`
	Status string          `json:"status,omitempty"`

	// RosterIDs are the rosters involved in the move.
	RosterIDs []int `json:"roster_ids"`

	// Adds maps player id to the receiving roster id.
	Adds map[string]int `json:"adds,omitempty"`

	// CreatedAt is epoch milliseconds.
	CreatedAt int64 `json:"created"`

	// WaiverBid is the FAAB bid, nil when none was placed.
	WaiverBid *int `json:"waiver_bid,omitempty"`
}

// Completed reports whether the move was executed.
// Transactions without a reported status are treated as executed.
func (t *Transaction) Completed() bool {
	return t.Status == "" || t.Status == TransactionStatusComplete
}

// Involves reports whether the roster took part in the move.
func (t *Transaction) Involves(rosterID int) bool {
	for _, id := range t.RosterIDs {
		if id == rosterID {
			return true
		}
	}
	return false
}

// AddsTo reports whether the move added the player to the roster.
func (t *Transaction) AddsTo(playerID string, rosterID int) bool {
	if t.Adds == nil {
		return false
	}
	to, ok := t.Adds[playerID]
	return ok && to == rosterID
}
