// Package service implements the debt-ledger reconciliation and
// settlement engine: expense splitting, pairwise netting, the two-party
// settlement protocol, loyalty tracking and overdue notifications.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/splitledger/splitledger/internal/calculator"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

const dateLayout = "2006-01-02"

// Ledger is the engine's caller-facing surface. Each operation runs in
// one storage transaction: it either completes or leaves the ledger as
// it was.
type Ledger struct {
	store storage.Store
	now   func() time.Time
}

// NewLedger creates a Ledger backed by the given store.
func NewLedger(store storage.Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// today returns the current date in YYYY-MM-DD form.
func (l *Ledger) today() string {
	return l.now().Format(dateLayout)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// RecordExpense splits an expense equally across the group's members
// and folds each non-payer share into the netted balance ledger.
// Validation happens before any mutation; the expense record and every
// resulting merge commit atomically.
func (l *Ledger) RecordExpense(ctx context.Context, groupID, payerID string, amount float64, description, dueDate string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if dueDate != "" {
		if _, err := time.Parse(dateLayout, dueDate); err != nil {
			return ErrInvalidDate
		}
	}

	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		members, err := tx.GroupMembers(ctx, groupID)
		if err != nil {
			return err
		}
		if !contains(members, payerID) {
			// Covers the empty group too: no shares are applied.
			return ErrNotAParticipant
		}
		shares, err := calculator.SplitEqually(amount, members, payerID)
		if err != nil {
			return err
		}

		expense := &models.Expense{
			GroupID:     groupID,
			PayerID:     payerID,
			Description: description,
			Amount:      amount,
			DueDate:     dueDate,
		}
		if err := tx.InsertExpense(ctx, expense); err != nil {
			return err
		}

		for _, share := range shares {
			if err := l.merge(ctx, tx, share.MemberID, payerID, groupID, share.Amount, dueDate, description); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wrapStorage("record expense", err)
	}

	slog.Info("expense recorded",
		"group_id", groupID,
		"payer_id", payerID,
		"amount", amount,
		"due_date", dueDate,
	)
	return nil
}

// ListObligations returns the user's unsettled balances as debtor
// (asDebtor true) or creditor, joined with the counterparty username and
// group name, ordered by due date ascending.
func (l *Ledger) ListObligations(ctx context.Context, userID string, asDebtor bool) ([]models.BalanceView, error) {
	var views []models.BalanceView
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		views, err = tx.ListObligations(ctx, userID, asDebtor)
		return err
	})
	if err != nil {
		return nil, wrapStorage("list obligations", err)
	}
	if len(views) == 0 {
		return nil, ErrNoObligations
	}
	return views, nil
}
