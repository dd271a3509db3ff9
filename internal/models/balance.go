package models

// ConfirmationState classifies a balance for the netting rules.
// A balance is either open to merging and netting, or locked the moment
// either party has confirmed it. Settled balances are history and are
// never returned by unsettled-balance lookups, so the netting code only
// ever branches on these two states.
type ConfirmationState int

const (
	// StateOpen means neither side has confirmed. The balance may be
	// merged with new shares or netted against the reverse direction.
	StateOpen ConfirmationState = iota

	// StateLocked means at least one side has confirmed. The balance
	// must settle or stay exactly as confirmed; new activity between the
	// same pair is recorded as a separate balance.
	StateLocked
)

// Balance represents a single-direction net obligation between two users
// within one group.
type Balance struct {
	// ID is the unique identifier for the balance (UUID format).
	ID string

	// FromUserID is the debtor (the user who owes).
	FromUserID string

	// ToUserID is the creditor (the user who is owed).
	ToUserID string

	// GroupID is the group the obligation belongs to.
	GroupID string

	// Amount is the net amount owed. Always positive; a balance that
	// nets to zero is deleted, never stored.
	Amount float64

	// DueDate is the due date in YYYY-MM-DD format, or empty if the
	// obligation has no due date. Merges overwrite it with the incoming
	// value (last writer wins).
	DueDate string

	// Description is free text carried over from the originating
	// expense. Last writer wins on merge.
	Description string

	// ConfirmedByDebtor is set when the debtor has confirmed payment.
	ConfirmedByDebtor bool

	// ConfirmedByCreditor is set when the creditor has confirmed receipt.
	ConfirmedByCreditor bool

	// Settled is set once both parties have confirmed. A settled balance
	// is immutable history.
	Settled bool

	// CreatedAt is the Unix timestamp when the balance was created.
	CreatedAt int64
}

// Confirmation returns the netting classification of the balance.
func (b *Balance) Confirmation() ConfirmationState {
	if b.ConfirmedByDebtor || b.ConfirmedByCreditor {
		return StateLocked
	}
	return StateOpen
}

// IsParticipant reports whether userID is the debtor or the creditor.
func (b *Balance) IsParticipant(userID string) bool {
	return userID == b.FromUserID || userID == b.ToUserID
}

// BalanceView is one row of a user's debt or credit listing: a balance
// joined with the counterparty's username and the group's name.
type BalanceView struct {
	BalanceID    string
	Counterparty string // username of the other party
	GroupName    string
	Amount       float64
	DueDate      string
	Description  string
}

// SettlementOutcome is the result of a confirmation attempt on a balance.
type SettlementOutcome int

const (
	// SettlementPending means the actor's confirmation was recorded and
	// the other party has yet to confirm.
	SettlementPending SettlementOutcome = iota

	// SettlementCompleted means both parties have confirmed and the
	// balance is now settled.
	SettlementCompleted
)

// String returns a human-readable outcome for logs and UIs.
func (o SettlementOutcome) String() string {
	switch o {
	case SettlementPending:
		return "confirmed, waiting for the other party"
	case SettlementCompleted:
		return "debt fully settled"
	default:
		return "unknown"
	}
}
