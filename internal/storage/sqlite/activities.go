package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/timeflowhq/timeflow/internal/models"
	"github.com/timeflowhq/timeflow/internal/storage"
)

const activityColumns = `id, title, description, date, time, priority, category,
	duration, status, created_at, completed_at, group_id, created_by, is_shared,
	tags, attachments, comments`

// CreateActivity persists a new activity with its assignees.
func (s *SQLiteStore) CreateActivity(ctx context.Context, a *models.Activity) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().Unix()
	}

	tags, err := marshalJSON(a.Tags)
	if err != nil {
		return err
	}
	attachments, err := marshalJSON(a.Attachments)
	if err != nil {
		return err
	}
	comments, err := marshalJSON(a.Comments)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO activities (`+activityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Description, a.Date, a.Time, string(a.Priority),
		string(a.Category), a.Duration, string(a.Status), a.CreatedAt,
		a.CompletedAt, a.GroupID, a.CreatedBy, boolToInt(a.IsShared),
		tags, attachments, comments,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	if err := replaceAssignees(ctx, tx, a.ID, a.Assignees, false); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func replaceAssignees(ctx context.Context, tx *sql.Tx, activityID string, assignees []string, clear bool) error {
	if clear {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM activity_assignees WHERE activity_id = ?`, activityID); err != nil {
			return fmt.Errorf("failed to clear assignees: %w", err)
		}
	}
	for _, userID := range assignees {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO activity_assignees (activity_id, user_id) VALUES (?, ?)`,
			activityID, userID); err != nil {
			return fmt.Errorf("failed to insert assignee: %w", err)
		}
	}
	return nil
}

// GetActivity retrieves an activity by ID.
func (s *SQLiteStore) GetActivity(ctx context.Context, id string) (*models.Activity, error) {
	a, err := scanActivity(s.db.QueryRowContext(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("activity %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	if err := s.loadAssignees(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func scanActivity(row rowScanner) (*models.Activity, error) {
	a := &models.Activity{}
	var isShared int
	var tags, attachments, comments string
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Date, &a.Time,
		&a.Priority, &a.Category, &a.Duration, &a.Status, &a.CreatedAt,
		&a.CompletedAt, &a.GroupID, &a.CreatedBy, &isShared,
		&tags, &attachments, &comments)
	if err != nil {
		return nil, err
	}
	a.IsShared = isShared != 0
	if err := unmarshalJSON(tags, &a.Tags); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(attachments, &a.Attachments); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(comments, &a.Comments); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *SQLiteStore) loadAssignees(ctx context.Context, a *models.Activity) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id FROM activity_assignees WHERE activity_id = ? ORDER BY user_id`, a.ID)
	if err != nil {
		return fmt.Errorf("failed to get assignees: %w", err)
	}
	defer rows.Close()

	a.Assignees = []string{}
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return fmt.Errorf("failed to scan assignee: %w", err)
		}
		a.Assignees = append(a.Assignees, userID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate assignees: %w", err)
	}
	return nil
}

// UpdateActivity replaces the stored activity, assignees included.
func (s *SQLiteStore) UpdateActivity(ctx context.Context, a *models.Activity) error {
	tags, err := marshalJSON(a.Tags)
	if err != nil {
		return err
	}
	attachments, err := marshalJSON(a.Attachments)
	if err != nil {
		return err
	}
	comments, err := marshalJSON(a.Comments)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE activities SET title = ?, description = ?, date = ?, time = ?,
			priority = ?, category = ?, duration = ?, status = ?,
			completed_at = ?, group_id = ?, is_shared = ?,
			tags = ?, attachments = ?, comments = ?
		WHERE id = ?`,
		a.Title, a.Description, a.Date, a.Time, string(a.Priority),
		string(a.Category), a.Duration, string(a.Status), a.CompletedAt,
		a.GroupID, boolToInt(a.IsShared), tags, attachments, comments, a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	if err := requireRow(res, "activity", a.ID); err != nil {
		return err
	}

	if err := replaceAssignees(ctx, tx, a.ID, a.Assignees, true); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteActivity removes an activity; assignees go with it via FK cascade.
func (s *SQLiteStore) DeleteActivity(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return requireRow(res, "activity", id)
}

// ListActivitiesForUser retrieves activities the user created plus
// activities of groups they belong to.
func (s *SQLiteStore) ListActivitiesForUser(ctx context.Context, userID string) ([]*models.Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+activityColumns+` FROM activities
		WHERE created_by = ?
		   OR (group_id != '' AND group_id IN
		       (SELECT group_id FROM group_members WHERE user_id = ?))
		ORDER BY date, time, created_at`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}

	for _, a := range activities {
		if err := s.loadAssignees(ctx, a); err != nil {
			return nil, err
		}
	}
	return activities, nil
}
