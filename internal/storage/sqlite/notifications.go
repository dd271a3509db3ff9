package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitledger/splitledger/internal/models"
)

// InsertNotification creates an unshown notification for the user.
func (t *tx) InsertNotification(ctx context.Context, userID, message string) error {
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO notifications (id, user_id, message, shown, created_at) VALUES (?, ?, ?, 0, ?)",
		uuid.New().String(), userID, message, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// DeleteShownNotifications removes the user's notifications already
// marked shown.
func (t *tx) DeleteShownNotifications(ctx context.Context, userID string) error {
	_, err := t.tx.ExecContext(ctx,
		"DELETE FROM notifications WHERE user_id = ? AND shown = 1",
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete shown notifications: %w", err)
	}
	return nil
}

// ListUnshownNotifications returns the user's unshown notifications
// ordered by creation time ascending. rowid breaks same-second ties so
// delivery order matches insertion order.
func (t *tx) ListUnshownNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT id, user_id, message, shown, created_at FROM notifications
		 WHERE user_id = ? AND shown = 0
		 ORDER BY created_at ASC, rowid ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Shown, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationShown marks one notification as delivered.
func (t *tx) MarkNotificationShown(ctx context.Context, notificationID string) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE notifications SET shown = 1 WHERE id = ?",
		notificationID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification shown: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("notification not found: %s", notificationID)
	}
	return nil
}
