package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitledger/splitledger/internal/models"
)

const balanceColumns = `id, from_user_id, to_user_id, group_id, amount, due_date, description,
	confirmed_by_debtor, confirmed_by_creditor, settled, created_at`

func scanBalance(row interface{ Scan(...any) error }) (*models.Balance, error) {
	b := &models.Balance{}
	err := row.Scan(
		&b.ID, &b.FromUserID, &b.ToUserID, &b.GroupID, &b.Amount, &b.DueDate, &b.Description,
		&b.ConfirmedByDebtor, &b.ConfirmedByCreditor, &b.Settled, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// FindUnsettledBalance returns the unsettled balance for the ordered
// (from, to, group) triple, or nil when none exists. When a locked
// balance coexists with a freshly opened one for the same triple, the
// most recent row wins so new shares keep accumulating on the open one.
func (t *tx) FindUnsettledBalance(ctx context.Context, fromUserID, toUserID, groupID string) (*models.Balance, error) {
	row := t.tx.QueryRowContext(ctx,
		`SELECT `+balanceColumns+` FROM balances
		 WHERE from_user_id = ? AND to_user_id = ? AND group_id = ? AND settled = 0
		 ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		fromUserID, toUserID, groupID,
	)
	b, err := scanBalance(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find unsettled balance: %w", err)
	}
	return b, nil
}

// GetBalance retrieves a balance by ID. Returns nil, nil when not found.
func (t *tx) GetBalance(ctx context.Context, balanceID string) (*models.Balance, error) {
	row := t.tx.QueryRowContext(ctx,
		`SELECT `+balanceColumns+` FROM balances WHERE id = ?`,
		balanceID,
	)
	b, err := scanBalance(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return b, nil
}

// InsertBalance persists a new balance.
func (t *tx) InsertBalance(ctx context.Context, balance *models.Balance) error {
	if balance.ID == "" {
		balance.ID = uuid.New().String()
	}
	if balance.CreatedAt == 0 {
		balance.CreatedAt = time.Now().Unix()
	}

	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO balances (`+balanceColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		balance.ID, balance.FromUserID, balance.ToUserID, balance.GroupID,
		balance.Amount, balance.DueDate, balance.Description,
		balance.ConfirmedByDebtor, balance.ConfirmedByCreditor, balance.Settled, balance.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert balance: %w", err)
	}
	return nil
}

// UpdateBalanceAmount replaces the amount, due date and description of
// an existing balance.
func (t *tx) UpdateBalanceAmount(ctx context.Context, balanceID string, amount float64, dueDate, description string) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE balances SET amount = ?, due_date = ?, description = ? WHERE id = ?",
		amount, dueDate, description, balanceID,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("balance not found: %s", balanceID)
	}
	return nil
}

// SetConfirmation persists the confirmation flags and settled state of a
// balance.
func (t *tx) SetConfirmation(ctx context.Context, balanceID string, byDebtor, byCreditor, settled bool) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE balances SET confirmed_by_debtor = ?, confirmed_by_creditor = ?, settled = ? WHERE id = ?",
		byDebtor, byCreditor, settled, balanceID,
	)
	if err != nil {
		return fmt.Errorf("failed to update confirmation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("balance not found: %s", balanceID)
	}
	return nil
}

// DeleteBalance removes a balance row.
func (t *tx) DeleteBalance(ctx context.Context, balanceID string) error {
	_, err := t.tx.ExecContext(ctx, "DELETE FROM balances WHERE id = ?", balanceID)
	if err != nil {
		return fmt.Errorf("failed to delete balance: %w", err)
	}
	return nil
}

// ListObligations returns the user's unsettled balances joined with the
// counterparty username and group name, ordered by due date ascending.
func (t *tx) ListObligations(ctx context.Context, userID string, asDebtor bool) ([]models.BalanceView, error) {
	ownColumn, counterpartyColumn := "from_user_id", "to_user_id"
	if !asDebtor {
		ownColumn, counterpartyColumn = "to_user_id", "from_user_id"
	}

	query := fmt.Sprintf(
		`SELECT b.id, u.username, g.name, b.amount, b.due_date, b.description
		 FROM balances b
		 JOIN users u ON u.id = b.%s
		 JOIN groups g ON g.id = b.group_id
		 WHERE b.%s = ? AND b.settled = 0
		 ORDER BY b.due_date ASC, b.created_at ASC`,
		counterpartyColumn, ownColumn,
	)

	rows, err := t.tx.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	defer rows.Close()

	var views []models.BalanceView
	for rows.Next() {
		var v models.BalanceView
		if err := rows.Scan(&v.BalanceID, &v.Counterparty, &v.GroupName, &v.Amount, &v.DueDate, &v.Description); err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate obligations: %w", err)
	}
	return views, nil
}

// ListOverdueBalances returns the user's unsettled debtor balances whose
// due date is set and earlier than today. ISO dates compare correctly as
// text.
func (t *tx) ListOverdueBalances(ctx context.Context, userID, today string) ([]models.Balance, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT `+balanceColumns+` FROM balances
		 WHERE from_user_id = ? AND settled = 0 AND due_date != '' AND due_date < ?
		 ORDER BY due_date ASC`,
		userID, today,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue balances: %w", err)
	}
	defer rows.Close()

	var balances []models.Balance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overdue balance: %w", err)
		}
		balances = append(balances, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overdue balances: %w", err)
	}
	return balances, nil
}
