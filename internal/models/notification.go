package models

// Notification is a durable overdue-debt reminder for one user.
//
// Lifecycle: created by the overdue sweep, delivered once (marked
// Shown), and deleted on the next refresh after being shown.
type Notification struct {
	// ID is the unique identifier for the notification (UUID format).
	ID string

	// UserID is the recipient (the debtor of the overdue balance).
	UserID string

	// Message is the rendered reminder text.
	Message string

	// Shown is set once the notification has been delivered.
	Shown bool

	// CreatedAt is the Unix timestamp when the notification was created.
	CreatedAt int64
}
