package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// Ensure tx implements storage.Tx
var _ storage.Tx = (*tx)(nil)

// tx wraps one sql.Tx and carries the ledger operations.
type tx struct {
	tx *sql.Tx
}

// GroupMembers returns the member user IDs of a group.
func (t *tx) GroupMembers(ctx context.Context, groupID string) ([]string, error) {
	rows, err := t.tx.QueryContext(ctx,
		"SELECT user_id FROM group_members WHERE group_id = ? ORDER BY user_id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}
	return members, nil
}

// IncrementOnTimePayments adds one to the user's on-time counter and
// returns the new count.
func (t *tx) IncrementOnTimePayments(ctx context.Context, userID string) (int, error) {
	_, err := t.tx.ExecContext(ctx,
		"UPDATE users SET on_time_payments = on_time_payments + 1 WHERE id = ?",
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to increment on-time payments: %w", err)
	}

	var count int
	err = t.tx.QueryRowContext(ctx,
		"SELECT on_time_payments FROM users WHERE id = ?",
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to read on-time payments: %w", err)
	}
	return count, nil
}

// SetLoyalPayer sets the user's loyal-payer flag.
func (t *tx) SetLoyalPayer(ctx context.Context, userID string, loyal bool) error {
	_, err := t.tx.ExecContext(ctx,
		"UPDATE users SET loyal_payer = ? WHERE id = ?",
		loyal, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set loyal payer: %w", err)
	}
	return nil
}

// InsertExpense persists the originating expense record.
func (t *tx) InsertExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, payer_id, description, amount, due_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.PayerID, expense.Description,
		expense.Amount, expense.DueDate, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}
