package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/timeflowhq/timeflow/internal/models"
)

// maxGroupLogs caps the audit trail; older entries are dropped on insert.
const maxGroupLogs = 100

// AppendGroupLog appends an audit entry and trims the log to the cap.
func (s *SQLiteStore) AppendGroupLog(ctx context.Context, entry *models.GroupActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().Unix()
	}
	metadata, err := marshalJSON(entry.Metadata)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO activity_logs (id, group_id, user_id, user_name, action, description, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.GroupID, entry.UserID, entry.UserName,
		string(entry.Action), entry.Description, metadata, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert log entry: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM activity_logs WHERE rowid NOT IN
		(SELECT rowid FROM activity_logs ORDER BY rowid DESC LIMIT ?)`,
		maxGroupLogs,
	)
	if err != nil {
		return fmt.Errorf("failed to trim log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListGroupLogs retrieves a group's audit entries, newest first.
func (s *SQLiteStore) ListGroupLogs(ctx context.Context, groupID string) ([]*models.GroupActivityLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, user_id, user_name, action, description, metadata, created_at
		FROM activity_logs WHERE group_id = ?
		ORDER BY created_at DESC, rowid DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.GroupActivityLog
	for rows.Next() {
		e := &models.GroupActivityLog{}
		var metadata string
		if err := rows.Scan(&e.ID, &e.GroupID, &e.UserID, &e.UserName,
			&e.Action, &e.Description, &metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		if err := unmarshalJSON(metadata, &e.Metadata); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate log entries: %w", err)
	}
	return entries, nil
}
