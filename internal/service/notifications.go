package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// overdueMessage renders the reminder for one overdue balance. Amounts
// always carry two decimal digits.
func overdueMessage(amount float64, dueDate string) string {
	return fmt.Sprintf("Overdue debt of %.2f due %s", amount, dueDate)
}

// RefreshNotifications sweeps the user's overdue balances into durable
// notifications and delivers the unshown ones, marking each shown
// exactly once. The sweep re-creates a notification for a still-unpaid
// debt on every call; duplicates are bounded by the shown lifecycle,
// which garbage-collects delivered notifications on the next refresh.
func (l *Ledger) RefreshNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	var delivered []models.Notification

	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		overdue, err := tx.ListOverdueBalances(ctx, userID, l.today())
		if err != nil {
			return err
		}
		for _, balance := range overdue {
			if err := tx.InsertNotification(ctx, userID, overdueMessage(balance.Amount, balance.DueDate)); err != nil {
				return err
			}
		}

		if err := tx.DeleteShownNotifications(ctx, userID); err != nil {
			return err
		}

		delivered, err = tx.ListUnshownNotifications(ctx, userID)
		if err != nil {
			return err
		}
		for _, n := range delivered {
			if err := tx.MarkNotificationShown(ctx, n.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapStorage("refresh notifications", err)
	}
	if len(delivered) == 0 {
		return nil, ErrNoNotifications
	}

	slog.Info("notifications delivered", "user_id", userID, "count", len(delivered))
	return delivered, nil
}
