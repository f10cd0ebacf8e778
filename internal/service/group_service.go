package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/timeflowhq/timeflow/internal/models"
	"github.com/timeflowhq/timeflow/internal/permissions"
	"github.com/timeflowhq/timeflow/internal/storage"
)

// GroupService owns the group lifecycle: creation, membership, roles,
// invites, settings and deletion. Every mutating operation checks the
// acting user's permissions itself; there is no caller-side gating.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// GroupUpdate carries a partial group update. Nil fields are left as-is.
type GroupUpdate struct {
	Name        *string               `json:"name,omitempty"`
	Description *string               `json:"description,omitempty"`
	Type        *models.GroupType     `json:"type,omitempty"`
	Settings    *models.GroupSettings `json:"settings,omitempty"`
}

// CreateGroup creates a group owned by actor, with default settings and a
// fresh unique invite code mirrored into a long-lived invite record.
func (s *GroupService) CreateGroup(ctx context.Context, actor *models.User, name, description string, groupType models.GroupType) (*models.Group, error) {
	slog.Info("CreateGroup", "user_id", actor.ID, "name", name, "type", groupType)

	code, err := newUniqueInviteCode(ctx, s.store.InviteCodeExists)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	group := &models.Group{
		Name:        name,
		Description: description,
		Type:        groupType,
		OwnerID:     actor.ID,
		InviteCode:  code,
		Members: []models.GroupMember{{
			UserID:    actor.ID,
			UserName:  actor.Name,
			UserEmail: actor.Email,
			Role:      models.RoleOwner,
			JoinedAt:  now,
		}},
		Settings: models.DefaultGroupSettings(),
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	// The primary code doubles as a non-expiring invite record.
	invite := &models.Invite{
		Code:          code,
		GroupID:       group.ID,
		GroupName:     group.Name,
		CreatedBy:     actor.ID,
		CreatedByName: actor.Name,
		IsActive:      true,
	}
	if err := s.store.CreateInvite(ctx, invite); err != nil {
		return nil, err
	}

	slog.Info("group created", "group_id", group.ID, "invite_code", code)
	return group, nil
}

// GetGroup retrieves a group; only members may see it.
func (s *GroupService) GetGroup(ctx context.Context, actor *models.User, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.Member(actor.ID) == nil {
		return nil, fmt.Errorf("group %s: %w", groupID, ErrForbidden)
	}
	return group, nil
}

// ListGroups retrieves the groups actor belongs to.
func (s *GroupService) ListGroups(ctx context.Context, actor *models.User) ([]*models.Group, error) {
	return s.store.ListGroupsByUser(ctx, actor.ID)
}

// Permissions computes actor's capability set within a group. A missing
// group or a non-member yields the zero set, never an error: fail closed.
func (s *GroupService) Permissions(ctx context.Context, actor *models.User, groupID string) (permissions.Permissions, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		return permissions.Permissions{}, nil
	}
	if err != nil {
		return permissions.Permissions{}, err
	}
	return permissions.For(group, actor.ID), nil
}

// JoinGroup adds actor to the group matching the invite code. Codes are
// matched case-insensitively. Joining a group the actor already belongs
// to is an idempotent no-op. A full group refuses the join.
func (s *GroupService) JoinGroup(ctx context.Context, actor *models.User, code string) (*models.Group, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	slog.Info("JoinGroup", "user_id", actor.ID, "code", code)

	group, invite, err := s.resolveInvite(ctx, code)
	if err != nil {
		return nil, err
	}

	if group.Member(actor.ID) != nil {
		return group, nil
	}
	if len(group.Members) >= group.Settings.MaxMembers {
		return nil, fmt.Errorf("group %s: %w", group.ID, ErrGroupFull)
	}

	member := models.GroupMember{
		UserID:    actor.ID,
		UserName:  actor.Name,
		UserEmail: actor.Email,
		Role:      models.RoleMember,
		JoinedAt:  time.Now().Unix(),
	}
	if invite != nil {
		member.InvitedBy = invite.CreatedBy
	}
	if err := s.store.AddGroupMember(ctx, group.ID, member); err != nil {
		return nil, err
	}
	if invite != nil {
		if err := s.store.IncrementInviteUses(ctx, invite.ID); err != nil {
			slog.Warn("failed to count invite use", "invite_id", invite.ID, "error", err)
		}
	}

	notify(ctx, s.store, &models.Notification{
		Type:    models.NotifyMemberJoined,
		Title:   "Novo membro",
		Message: fmt.Sprintf("%s entrou no grupo %s", actor.Name, group.Name),
		GroupID: group.ID,
		UserID:  actor.ID,
	})
	logEvent(ctx, s.store, &models.GroupActivityLog{
		GroupID:     group.ID,
		UserID:      actor.ID,
		UserName:    actor.Name,
		Action:      models.LogMemberJoined,
		Description: fmt.Sprintf("%s entrou no grupo", actor.Name),
	})

	return s.store.GetGroup(ctx, group.ID)
}

// resolveInvite maps a code to its group: the primary group code first,
// then limited-use invite records (checking expiry and use limits).
func (s *GroupService) resolveInvite(ctx context.Context, code string) (*models.Group, *models.Invite, error) {
	group, err := s.store.GetGroupByInviteCode(ctx, code)
	if err == nil {
		return group, nil, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, err
	}

	invite, err := s.store.GetInviteByCode(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, fmt.Errorf("code %s: %w", code, ErrInviteInvalid)
	}
	if err != nil {
		return nil, nil, err
	}
	if !invite.Usable(time.Now().Unix()) {
		return nil, nil, fmt.Errorf("code %s: %w", code, ErrInviteInvalid)
	}

	group, err = s.store.GetGroup(ctx, invite.GroupID)
	if err != nil {
		return nil, nil, err
	}
	return group, invite, nil
}

// LeaveGroup removes actor from the group. The owner cannot leave: the
// group must be deleted instead (there is no ownership transfer).
func (s *GroupService) LeaveGroup(ctx context.Context, actor *models.User, groupID string) error {
	slog.Info("LeaveGroup", "user_id", actor.ID, "group_id", groupID)

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.Member(actor.ID) == nil {
		return fmt.Errorf("group %s: %w", groupID, ErrForbidden)
	}
	if group.OwnerID == actor.ID {
		return fmt.Errorf("group %s: %w", groupID, ErrOwnerCannotLeave)
	}

	if err := s.store.RemoveGroupMember(ctx, groupID, actor.ID); err != nil {
		return err
	}
	logEvent(ctx, s.store, &models.GroupActivityLog{
		GroupID:     groupID,
		UserID:      actor.ID,
		UserName:    actor.Name,
		Action:      models.LogMemberLeft,
		Description: fmt.Sprintf("%s saiu do grupo", actor.Name),
	})
	return nil
}

// RemoveMember removes userID from the group. Requires CanRemoveMembers;
// the owner can never be removed.
func (s *GroupService) RemoveMember(ctx context.Context, actor *models.User, groupID, userID string) error {
	slog.Info("RemoveMember", "user_id", actor.ID, "group_id", groupID, "target", userID)

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !permissions.For(group, actor.ID).CanRemoveMembers {
		return fmt.Errorf("group %s: %w", groupID, ErrForbidden)
	}
	target := group.Member(userID)
	if target == nil {
		return fmt.Errorf("member %s: %w", userID, storage.ErrNotFound)
	}
	if target.Role == models.RoleOwner {
		return fmt.Errorf("group %s: %w", groupID, ErrOwnerImmutable)
	}

	if err := s.store.RemoveGroupMember(ctx, groupID, userID); err != nil {
		return err
	}
	notify(ctx, s.store, &models.Notification{
		Type:    models.NotifyMemberRemoved,
		Title:   "Membro removido",
		Message: fmt.Sprintf("%s removeu %s do grupo %s", actor.Name, target.UserName, group.Name),
		GroupID: groupID,
		UserID:  actor.ID,
	})
	logEvent(ctx, s.store, &models.GroupActivityLog{
		GroupID:     groupID,
		UserID:      actor.ID,
		UserName:    actor.Name,
		Action:      models.LogMemberRemoved,
		Description: fmt.Sprintf("%s removeu %s", actor.Name, target.UserName),
		Metadata:    map[string]string{"removed_user_id": userID},
	})
	return nil
}

// UpdateMemberRole changes a member's role between admin and member.
// Owner-only. The owner's own role is immutable, and no one can be
// promoted to owner: exactly one owner exists per group.
func (s *GroupService) UpdateMemberRole(ctx context.Context, actor *models.User, groupID, userID string, role models.Role) error {
	slog.Info("UpdateMemberRole", "user_id", actor.ID, "group_id", groupID, "target", userID, "role", role)

	if !role.Valid() {
		return fmt.Errorf("role %q: %w", role, ErrInvalidRole)
	}
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !permissions.For(group, actor.ID).CanChangeRoles {
		return fmt.Errorf("group %s: %w", groupID, ErrForbidden)
	}
	target := group.Member(userID)
	if target == nil {
		return fmt.Errorf("member %s: %w", userID, storage.ErrNotFound)
	}
	if target.Role == models.RoleOwner || role == models.RoleOwner {
		return fmt.Errorf("group %s: %w", groupID, ErrOwnerImmutable)
	}

	oldRole := target.Role
	if err := s.store.UpdateGroupMemberRole(ctx, groupID, userID, role); err != nil {
		return err
	}
	notify(ctx, s.store, &models.Notification{
		Type:    models.NotifyRoleChanged,
		Title:   "Papel alterado",
		Message: fmt.Sprintf("%s agora é %s no grupo %s", target.UserName, role, group.Name),
		GroupID: groupID,
		UserID:  actor.ID,
	})
	logEvent(ctx, s.store, &models.GroupActivityLog{
		GroupID:     groupID,
		UserID:      actor.ID,
		UserName:    actor.Name,
		Action:      models.LogRoleChanged,
		Description: fmt.Sprintf("%s alterou o papel de %s", actor.Name, target.UserName),
		Metadata:    map[string]string{"old_role": string(oldRole), "new_role": string(role)},
	})
	return nil
}

// UpdateGroup merges a partial update into the group. Requires
// CanManageSettings; a settings change is recorded in the audit log.
func (s *GroupService) UpdateGroup(ctx context.Context, actor *models.User, groupID string, update GroupUpdate) (*models.Group, error) {
	slog.Info("UpdateGroup", "user_id", actor.ID, "group_id", groupID)

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !permissions.For(group, actor.ID).CanManageSettings {
		return nil, fmt.Errorf("group %s: %w", groupID, ErrForbidden)
	}

	if update.Name != nil {
		group.Name = *update.Name
	}
	if update.Description != nil {
		group.Description = *update.Description
	}
	if update.Type != nil {
		group.Type = *update.Type
	}
	settingsChanged := update.Settings != nil && *update.Settings != group.Settings
	if update.Settings != nil {
		group.Settings = *update.Settings
	}

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}
	if settingsChanged {
		logEvent(ctx, s.store, &models.GroupActivityLog{
			GroupID:     groupID,
			UserID:      actor.ID,
			UserName:    actor.Name,
			Action:      models.LogSettingsChanged,
			Description: fmt.Sprintf("%s alterou as configurações do grupo", actor.Name),
		})
	}
	return s.store.GetGroup(ctx, groupID)
}

// DeleteGroup deletes the group and cascades to its activities and
// invites. Owner-only. Audit log entries survive as historical record.
func (s *GroupService) DeleteGroup(ctx context.Context, actor *models.User, groupID string) error {
	slog.Info("DeleteGroup", "user_id", actor.ID, "group_id", groupID)

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !permissions.For(group, actor.ID).CanDeleteGroup {
		return fmt.Errorf("group %s: %w", groupID, ErrForbidden)
	}
	return s.store.DeleteGroup(ctx, groupID)
}

// CreateInvite issues an additional limited-use invite for the group.
// Requires CanInviteMembers. A zero ttl defaults to seven days; maxUses
// zero means unlimited.
func (s *GroupService) CreateInvite(ctx context.Context, actor *models.User, groupID string, ttl time.Duration, maxUses int) (*models.Invite, error) {
	slog.Info("CreateInvite", "user_id", actor.ID, "group_id", groupID, "max_uses", maxUses)

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !permissions.For(group, actor.ID).CanInviteMembers {
		return nil, fmt.Errorf("group %s: %w", groupID, ErrForbidden)
	}

	code, err := newUniqueInviteCode(ctx, s.store.InviteCodeExists)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	invite := &models.Invite{
		Code:          code,
		GroupID:       group.ID,
		GroupName:     group.Name,
		CreatedBy:     actor.ID,
		CreatedByName: actor.Name,
		ExpiresAt:     time.Now().Add(ttl).Unix(),
		MaxUses:       maxUses,
		IsActive:      true,
	}
	if err := s.store.CreateInvite(ctx, invite); err != nil {
		return nil, err
	}

	notify(ctx, s.store, &models.Notification{
		Type:    models.NotifyInviteCreated,
		Title:   "Convite criado",
		Message: fmt.Sprintf("%s criou um convite para o grupo %s", actor.Name, group.Name),
		GroupID: groupID,
		UserID:  actor.ID,
	})
	return invite, nil
}

// GroupLog retrieves the group's audit trail; members only.
func (s *GroupService) GroupLog(ctx context.Context, actor *models.User, groupID string) ([]*models.GroupActivityLog, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.Member(actor.ID) == nil {
		return nil, fmt.Errorf("group %s: %w", groupID, ErrForbidden)
	}
	return s.store.ListGroupLogs(ctx, groupID)
}
