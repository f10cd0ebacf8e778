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

// CreateInvite persists an invite record.
func (s *SQLiteStore) CreateInvite(ctx context.Context, invite *models.Invite) error {
	if invite.ID == "" {
		invite.ID = uuid.New().String()
	}
	if invite.CreatedAt == 0 {
		invite.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invites (id, code, group_id, group_name, created_by, created_by_name,
			expires_at, max_uses, current_uses, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invite.ID, invite.Code, invite.GroupID, invite.GroupName,
		invite.CreatedBy, invite.CreatedByName, invite.ExpiresAt,
		invite.MaxUses, invite.CurrentUses, boolToInt(invite.IsActive),
		invite.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invite: %w", err)
	}
	return nil
}

// GetInviteByCode retrieves an invite by code.
func (s *SQLiteStore) GetInviteByCode(ctx context.Context, code string) (*models.Invite, error) {
	invite := &models.Invite{}
	var isActive int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, code, group_id, group_name, created_by, created_by_name,
			expires_at, max_uses, current_uses, is_active, created_at
		FROM invites WHERE code = ?`, code,
	).Scan(&invite.ID, &invite.Code, &invite.GroupID, &invite.GroupName,
		&invite.CreatedBy, &invite.CreatedByName, &invite.ExpiresAt,
		&invite.MaxUses, &invite.CurrentUses, &isActive, &invite.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("invite %s: %w", code, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	invite.IsActive = isActive != 0
	return invite, nil
}

// IncrementInviteUses bumps an invite's use counter.
func (s *SQLiteStore) IncrementInviteUses(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE invites SET current_uses = current_uses + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to increment invite uses: %w", err)
	}
	return requireRow(res, "invite", id)
}
