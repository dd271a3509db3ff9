package models

// Expense is the originating record of a purchase. It exists as the
// trigger for share computation and as history; once its shares are
// netted into balances the engine never consults it again.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group the expense was recorded in.
	GroupID string

	// PayerID is the user who paid the full amount up front.
	PayerID string

	// Description is what was purchased.
	Description string

	// Amount is the total paid by the payer.
	Amount float64

	// DueDate is when the other members should have paid the payer back,
	// in YYYY-MM-DD format, or empty.
	DueDate string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}
