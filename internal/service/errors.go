package service

import (
	"errors"
	"fmt"
)

// The ledger's failure modes form a closed set. Validation errors are
// detected before any mutation; storage failures abort the in-flight
// transaction and surface as a *StorageError.
var (
	// ErrInvalidAmount is returned when an expense amount is zero or
	// negative.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInvalidDate is returned when a non-empty due date is not in
	// YYYY-MM-DD format.
	ErrInvalidDate = errors.New("due date must be in YYYY-MM-DD format")

	// ErrNotAParticipant is returned when the acting user is neither the
	// debtor nor the creditor of the balance, or when an expense payer
	// is not a member of the group.
	ErrNotAParticipant = errors.New("user is not a participant")

	// ErrAlreadySettled is returned when confirming a balance that has
	// already settled. Settled balances are immutable history, so a
	// stale confirmation is an error rather than a no-op.
	ErrAlreadySettled = errors.New("balance is already settled")

	// ErrNoNotifications is returned when a refresh finds nothing to
	// deliver.
	ErrNoNotifications = errors.New("no new notifications")

	// ErrNoObligations is returned when a user has no unsettled balances
	// on the requested side.
	ErrNoObligations = errors.New("no outstanding balances")
)

// StorageError wraps a failure of the storage collaborator. The ledger
// never retries; the wrapped error is reported upward and the caller may
// retry after the aborted transaction.
type StorageError struct {
	Op  string // the ledger operation that was in flight
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// wrapStorage wraps err as a StorageError unless it is already one of
// the ledger's own errors, which pass through untouched.
func wrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	for _, known := range []error{
		ErrInvalidAmount, ErrInvalidDate, ErrNotAParticipant,
		ErrAlreadySettled, ErrNoNotifications, ErrNoObligations,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return &StorageError{Op: op, Err: err}
}
