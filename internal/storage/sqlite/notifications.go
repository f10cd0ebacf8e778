package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/timeflowhq/timeflow/internal/models"
)

// maxNotifications caps the feed; the oldest entries beyond it are
// silently dropped on insert. The feed is non-authoritative by design.
const maxNotifications = 50

// visibleNotifications selects entries the user triggered or entries
// scoped to a group the user belongs to.
const visibleNotifications = `(user_id = ?
	OR (group_id != '' AND group_id IN
	    (SELECT group_id FROM group_members WHERE user_id = ?)))`

// CreateNotification appends to the feed and trims it to the cap.
func (s *SQLiteStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt == 0 {
		n.CreatedAt = time.Now().Unix()
	}
	metadata, err := marshalJSON(n.Metadata)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO notifications (id, type, title, message, group_id, activity_id, user_id, read, created_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, string(n.Type), n.Title, n.Message, n.GroupID, n.ActivityID,
		n.UserID, boolToInt(n.Read), n.CreatedAt, metadata,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	// Unconditional truncation, not LRU: insertion order decides.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM notifications WHERE rowid NOT IN
		(SELECT rowid FROM notifications ORDER BY rowid DESC LIMIT ?)`,
		maxNotifications,
	)
	if err != nil {
		return fmt.Errorf("failed to trim notifications: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListNotificationsForUser retrieves feed entries visible to the user,
// newest first.
func (s *SQLiteStore) ListNotificationsForUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, title, message, group_id, activity_id, user_id, read, created_at, metadata
		FROM notifications
		WHERE `+visibleNotifications+`
		ORDER BY created_at DESC, rowid DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		var read int
		var metadata string
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &n.GroupID,
			&n.ActivityID, &n.UserID, &read, &n.CreatedAt, &metadata); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Read = read != 0
		if err := unmarshalJSON(metadata, &n.Metadata); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationRead sets the read flag on one notification.
func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return requireRow(res, "notification", id)
}

// MarkAllNotificationsRead sets the read flag on every notification
// visible to the user.
func (s *SQLiteStore) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE `+visibleNotifications,
		userID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// CountUnread counts unread notifications visible to the user.
func (s *SQLiteStore) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE read = 0 AND `+visibleNotifications,
		userID, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return n, nil
}
