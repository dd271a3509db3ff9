package service

import (
	"context"
	"log/slog"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// merge folds one share into the ledger while keeping the invariant of
// at most one unsettled balance per ordered (debtor, creditor, group)
// pair, mutually exclusive with the reverse pair.
//
// Confirmation is a commitment: once a party has attested to a balance,
// that balance must settle or stay exactly as confirmed. New activity
// against a locked balance opens a fresh one instead of silently
// altering it, which is the only case where two unsettled balances for
// the same ordered pair coexist.
func (l *Ledger) merge(ctx context.Context, tx storage.Tx, fromUserID, toUserID, groupID string, amount float64, dueDate, description string) error {
	same, err := tx.FindUnsettledBalance(ctx, fromUserID, toUserID, groupID)
	if err != nil {
		return err
	}

	if same != nil {
		switch same.Confirmation() {
		case models.StateOpen:
			// Accumulate; due date and description are last writer wins.
			return tx.UpdateBalanceAmount(ctx, same.ID, same.Amount+amount, dueDate, description)
		case models.StateLocked:
			return l.insertBalance(ctx, tx, fromUserID, toUserID, groupID, amount, dueDate, description)
		}
	}

	reverse, err := tx.FindUnsettledBalance(ctx, toUserID, fromUserID, groupID)
	if err != nil {
		return err
	}

	if reverse == nil {
		return l.insertBalance(ctx, tx, fromUserID, toUserID, groupID, amount, dueDate, description)
	}

	if reverse.Confirmation() == models.StateLocked {
		// The reverse balance is half-confirmed and must not be netted
		// against.
		return l.insertBalance(ctx, tx, fromUserID, toUserID, groupID, amount, dueDate, description)
	}

	switch {
	case amount > reverse.Amount:
		// The incoming share swallows the reverse balance and flips the
		// direction.
		if err := tx.DeleteBalance(ctx, reverse.ID); err != nil {
			return err
		}
		return l.insertBalance(ctx, tx, fromUserID, toUserID, groupID, amount-reverse.Amount, dueDate, description)
	case amount < reverse.Amount:
		// The reverse direction survives with the difference.
		return tx.UpdateBalanceAmount(ctx, reverse.ID, reverse.Amount-amount, dueDate, description)
	default:
		// Full cancellation; a zero balance is deleted, never stored.
		slog.Debug("balances cancelled out",
			"from", fromUserID, "to", toUserID, "group_id", groupID, "amount", amount)
		return tx.DeleteBalance(ctx, reverse.ID)
	}
}

// insertBalance creates a fresh unconfirmed balance.
func (l *Ledger) insertBalance(ctx context.Context, tx storage.Tx, fromUserID, toUserID, groupID string, amount float64, dueDate, description string) error {
	return tx.InsertBalance(ctx, &models.Balance{
		FromUserID:  fromUserID,
		ToUserID:    toUserID,
		GroupID:     groupID,
		Amount:      amount,
		DueDate:     dueDate,
		Description: description,
	})
}
