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

// CreateGroup persists a group together with its initial members.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if group.CreatedAt == 0 {
		group.CreatedAt = now
	}
	if group.UpdatedAt == 0 {
		group.UpdatedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO groups (id, name, description, type, owner_id, invite_code,
			allow_members_to_invite, allow_members_to_create_tasks,
			require_approval_for_tasks, max_members, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.Description, string(group.Type),
		group.OwnerID, group.InviteCode,
		boolToInt(group.Settings.AllowMembersToInvite),
		boolToInt(group.Settings.AllowMembersToCreateTasks),
		boolToInt(group.Settings.RequireApprovalForTasks),
		group.Settings.MaxMembers, group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for _, m := range group.Members {
		if err := insertMember(ctx, tx, group.ID, m); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertMember(ctx context.Context, tx *sql.Tx, groupID string, m models.GroupMember) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO group_members (group_id, user_id, user_name, user_email, role, joined_at, invited_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		groupID, m.UserID, m.UserName, m.UserEmail, string(m.Role), m.JoinedAt, m.InvitedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group member: %w", err)
	}
	return nil
}

// GetGroup retrieves a group with its full membership list.
func (s *SQLiteStore) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	return s.getGroup(ctx, "id", id)
}

// GetGroupByInviteCode retrieves the group whose primary invite code matches.
func (s *SQLiteStore) GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	return s.getGroup(ctx, "invite_code", code)
}

func (s *SQLiteStore) getGroup(ctx context.Context, column, value string) (*models.Group, error) {
	group, err := scanGroup(s.db.QueryRowContext(ctx, `
		SELECT id, name, description, type, owner_id, invite_code,
			allow_members_to_invite, allow_members_to_create_tasks,
			require_approval_for_tasks, max_members, created_at, updated_at
		FROM groups WHERE `+column+` = ?`, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s=%s: %w", column, value, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if err := s.loadMembers(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*models.Group, error) {
	group := &models.Group{}
	var allowInvite, allowCreate, requireApproval int
	err := row.Scan(&group.ID, &group.Name, &group.Description, &group.Type,
		&group.OwnerID, &group.InviteCode,
		&allowInvite, &allowCreate, &requireApproval,
		&group.Settings.MaxMembers, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		return nil, err
	}
	group.Settings.AllowMembersToInvite = allowInvite != 0
	group.Settings.AllowMembersToCreateTasks = allowCreate != 0
	group.Settings.RequireApprovalForTasks = requireApproval != 0
	return group, nil
}

func (s *SQLiteStore) loadMembers(ctx context.Context, group *models.Group) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, user_name, user_email, role, joined_at, invited_by
		FROM group_members WHERE group_id = ? ORDER BY joined_at, user_id`,
		group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(&m.UserID, &m.UserName, &m.UserEmail, &m.Role, &m.JoinedAt, &m.InvitedBy); err != nil {
			return fmt.Errorf("failed to scan group member: %w", err)
		}
		group.Members = append(group.Members, m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate group members: %w", err)
	}
	return nil
}

// ListGroupsByUser retrieves all groups the user is a member of.
func (s *SQLiteStore) ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.description, g.type, g.owner_id, g.invite_code,
			g.allow_members_to_invite, g.allow_members_to_create_tasks,
			g.require_approval_for_tasks, g.max_members, g.created_at, g.updated_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = ?
		ORDER BY g.created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, g := range groups {
		if err := s.loadMembers(ctx, g); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// UpdateGroup updates the group row. Membership rows are untouched.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	group.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx, `
		UPDATE groups SET name = ?, description = ?, type = ?,
			allow_members_to_invite = ?, allow_members_to_create_tasks = ?,
			require_approval_for_tasks = ?, max_members = ?, updated_at = ?
		WHERE id = ?`,
		group.Name, group.Description, string(group.Type),
		boolToInt(group.Settings.AllowMembersToInvite),
		boolToInt(group.Settings.AllowMembersToCreateTasks),
		boolToInt(group.Settings.RequireApprovalForTasks),
		group.Settings.MaxMembers, group.UpdatedAt, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return requireRow(res, "group", group.ID)
}

// DeleteGroup removes the group and cascades to its members, activities
// and invites. Activity logs are retained: they are the audit trail.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM activity_assignees WHERE activity_id IN (SELECT id FROM activities WHERE group_id = ?)`, id); err != nil {
		return fmt.Errorf("failed to delete group activity assignees: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM activities WHERE group_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete group activities: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM invites WHERE group_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete group invites: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if err := requireRow(res, "group", id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AddGroupMember appends a member to a group.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, groupID string, m models.GroupMember) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertMember(ctx, tx, groupID, m); err != nil {
		return err
	}
	if err := touchGroup(ctx, tx, groupID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RemoveGroupMember removes a member from a group.
func (s *SQLiteStore) RemoveGroupMember(ctx context.Context, groupID, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = ? AND user_id = ?`, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}
	if err := requireRow(res, "group member", userID); err != nil {
		return err
	}
	if err := touchGroup(ctx, tx, groupID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateGroupMemberRole changes a member's role.
func (s *SQLiteStore) UpdateGroupMemberRole(ctx context.Context, groupID, userID string, role models.Role) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE group_members SET role = ? WHERE group_id = ? AND user_id = ?`,
		string(role), groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}
	if err := requireRow(res, "group member", userID); err != nil {
		return err
	}
	if err := touchGroup(ctx, tx, groupID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func touchGroup(ctx context.Context, tx *sql.Tx, groupID string) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE groups SET updated_at = ? WHERE id = ?`, time.Now().Unix(), groupID); err != nil {
		return fmt.Errorf("failed to touch group: %w", err)
	}
	return nil
}

// InviteCodeExists reports whether code is already taken by a group's
// primary code or an invite record.
func (s *SQLiteStore) InviteCodeExists(ctx context.Context, code string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM groups WHERE invite_code = ?)
		     + (SELECT COUNT(*) FROM invites WHERE code = ?)`,
		code, code,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check invite code: %w", err)
	}
	return n > 0, nil
}
