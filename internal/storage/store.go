// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/splitledger/splitledger/internal/models"
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer, and lets tests substitute
// their own store.
type Store interface {
	// InTx runs fn inside a single transaction. Reads inside fn see the
	// same snapshot its writes apply to. If fn returns an error the
	// transaction is rolled back and the error is returned; otherwise
	// the transaction commits.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// CreateUser inserts a new user. The user.ID field is populated if
	// empty.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID. Returns nil, nil when not found.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// CreateGroup inserts a new group together with its member rows.
	// The group.ID field is populated if empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// CountOverdueBalances returns the number of unsettled balances
	// whose due date is set and earlier than today (YYYY-MM-DD).
	CountOverdueBalances(ctx context.Context, today string) (int, error)

	// Close releases any resources held by the store.
	Close() error
}

// Tx is the set of ledger operations available inside a transaction.
// All multi-step engine operations (netting merge, settlement
// transition, notification sweep) run entirely through one Tx so a
// failure mid-sequence leaves either the pre- or the post-state.
type Tx interface {
	// FindUnsettledBalance returns the single unsettled balance for the
	// ordered (from, to, group) triple, or nil when none exists. When a
	// locked balance coexists with a fresh one for the same triple, the
	// most recently created is returned.
	FindUnsettledBalance(ctx context.Context, fromUserID, toUserID, groupID string) (*models.Balance, error)

	// GetBalance retrieves a balance by ID. Returns nil, nil when not
	// found.
	GetBalance(ctx context.Context, balanceID string) (*models.Balance, error)

	// InsertBalance persists a new balance and populates its ID and
	// CreatedAt fields if unset.
	InsertBalance(ctx context.Context, balance *models.Balance) error

	// UpdateBalanceAmount replaces the amount, due date and description
	// of an existing balance.
	UpdateBalanceAmount(ctx context.Context, balanceID string, amount float64, dueDate, description string) error

	// SetConfirmation persists the confirmation flags and settled state
	// of a balance.
	SetConfirmation(ctx context.Context, balanceID string, byDebtor, byCreditor, settled bool) error

	// DeleteBalance removes a balance row.
	DeleteBalance(ctx context.Context, balanceID string) error

	// ListObligations returns the user's unsettled balances joined with
	// the counterparty username and group name, ordered by due date
	// ascending. asDebtor selects the debtor side, otherwise the
	// creditor side.
	ListObligations(ctx context.Context, userID string, asDebtor bool) ([]models.BalanceView, error)

	// ListOverdueBalances returns the user's unsettled debtor balances
	// whose due date is set and earlier than today.
	ListOverdueBalances(ctx context.Context, userID, today string) ([]models.Balance, error)

	// IncrementOnTimePayments adds one to the user's on-time counter and
	// returns the new count.
	IncrementOnTimePayments(ctx context.Context, userID string) (int, error)

	// SetLoyalPayer sets the user's loyal-payer flag.
	SetLoyalPayer(ctx context.Context, userID string, loyal bool) error

	// InsertExpense persists the originating expense record and
	// populates its ID and CreatedAt fields if unset.
	InsertExpense(ctx context.Context, expense *models.Expense) error

	// InsertNotification creates an unshown notification for the user.
	InsertNotification(ctx context.Context, userID, message string) error

	// DeleteShownNotifications removes the user's notifications already
	// marked shown.
	DeleteShownNotifications(ctx context.Context, userID string) error

	// ListUnshownNotifications returns the user's unshown notifications
	// ordered by creation time ascending.
	ListUnshownNotifications(ctx context.Context, userID string) ([]models.Notification, error)

	// MarkNotificationShown marks one notification as delivered.
	MarkNotificationShown(ctx context.Context, notificationID string) error

	// GroupMembers returns the member user IDs of a group.
	GroupMembers(ctx context.Context, groupID string) ([]string, error)
}
