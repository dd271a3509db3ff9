package models

// Group represents a set of users who share expenses.
//
// Group management is a thin collaborator: the ledger engine only needs
// the member list to split an expense.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates").
	Name string

	// OwnerID is the user who created the group.
	OwnerID string

	// Members is the list of member user IDs, including the owner.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
