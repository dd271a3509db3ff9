package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// ConfirmSettlement records one party's confirmation on a balance.
// Confirming twice in the same role is idempotent. When both parties
// have confirmed, the balance settles terminally and the debtor's
// loyalty is updated, all within the same transaction.
func (l *Ledger) ConfirmSettlement(ctx context.Context, balanceID, actorUserID string) (models.SettlementOutcome, error) {
	var outcome models.SettlementOutcome

	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		balance, err := tx.GetBalance(ctx, balanceID)
		if err != nil {
			return err
		}
		if balance == nil {
			return fmt.Errorf("balance not found: %s", balanceID)
		}
		if !balance.IsParticipant(actorUserID) {
			return ErrNotAParticipant
		}
		if balance.Settled {
			return ErrAlreadySettled
		}

		byDebtor := balance.ConfirmedByDebtor || actorUserID == balance.FromUserID
		byCreditor := balance.ConfirmedByCreditor || actorUserID == balance.ToUserID

		if byDebtor && byCreditor {
			if err := tx.SetConfirmation(ctx, balance.ID, true, true, true); err != nil {
				return err
			}
			if err := l.applyLoyalty(ctx, tx, balance.FromUserID, balance.DueDate); err != nil {
				return err
			}
			outcome = models.SettlementCompleted
			return nil
		}

		if err := tx.SetConfirmation(ctx, balance.ID, byDebtor, byCreditor, false); err != nil {
			return err
		}
		outcome = models.SettlementPending
		return nil
	})
	if err != nil {
		return 0, wrapStorage("confirm settlement", err)
	}

	slog.Info("settlement confirmation",
		"balance_id", balanceID,
		"actor_id", actorUserID,
		"outcome", outcome.String(),
	)
	return outcome, nil
}

// applyLoyalty runs exactly once, at the moment a balance settles.
// An on-time settlement (no due date, or settled on or before the due
// date) extends the debtor's streak; reaching the threshold marks them a
// loyal payer. A late settlement breaks the streak by clearing the flag
// while leaving the counter intact.
func (l *Ledger) applyLoyalty(ctx context.Context, tx storage.Tx, debtorID, dueDate string) error {
	onTime := dueDate == "" || dueDate >= l.today()

	if !onTime {
		slog.Debug("late settlement, loyal-payer flag cleared", "user_id", debtorID, "due_date", dueDate)
		return tx.SetLoyalPayer(ctx, debtorID, false)
	}

	count, err := tx.IncrementOnTimePayments(ctx, debtorID)
	if err != nil {
		return err
	}
	if count >= models.LoyalPayerThreshold {
		return tx.SetLoyalPayer(ctx, debtorID, true)
	}
	return nil
}
