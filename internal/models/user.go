package models

// LoyalPayerThreshold is the on-time settlement count at which a user is
// marked a loyal payer.
const LoyalPayerThreshold = 20

// User represents a group member.
//
// Registration and credentials live outside this service; the ledger
// only reads the identity fields and owns the loyalty fields.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the display name of the user.
	Username string

	// Email is the user's email address (unique).
	Email string

	// OnTimePayments counts settlements the user completed on or before
	// the due date. Incremented only by the settlement path.
	OnTimePayments int

	// LoyalPayer is set once OnTimePayments reaches LoyalPayerThreshold
	// and cleared again by any late settlement.
	LoyalPayer bool

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64
}
