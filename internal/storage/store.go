// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/timeflowhq/timeflow/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
// Implementations wrap it with context; check with errors.Is.
var ErrNotFound = errors.New("record not found")

// Store defines the persistence operations used by the service layer.
// The abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the services.
//
// Writes are last-write-wins at row granularity; there is no optimistic
// locking. The single-writer HTTP process makes that acceptable.
type Store interface {
	// CreateUser persists a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateUser updates name/email/updated_at of an existing user.
	UpdateUser(ctx context.Context, user *models.User) error

	// CreateGroup persists a group together with its initial members.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its full membership list.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// GetGroupByInviteCode retrieves the group whose primary invite code
	// matches (exact match; callers canonicalize case).
	GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error)

	// ListGroupsByUser retrieves all groups the user is a member of.
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)

	// UpdateGroup updates the group row (name, description, type,
	// settings, updated_at). Membership changes go through the member
	// operations below.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes the group, its members, its activities and its
	// invites in one transaction. Group activity logs are retained as a
	// historical record.
	DeleteGroup(ctx context.Context, id string) error

	// AddGroupMember appends a member to a group.
	AddGroupMember(ctx context.Context, groupID string, member models.GroupMember) error

	// RemoveGroupMember removes a member from a group.
	RemoveGroupMember(ctx context.Context, groupID, userID string) error

	// UpdateGroupMemberRole changes a member's role.
	UpdateGroupMemberRole(ctx context.Context, groupID, userID string, role models.Role) error

	// InviteCodeExists reports whether code is already taken by a group
	// or an invite record.
	InviteCodeExists(ctx context.Context, code string) (bool, error)

	// CreateActivity persists a new activity.
	CreateActivity(ctx context.Context, activity *models.Activity) error

	// GetActivity retrieves an activity by ID.
	GetActivity(ctx context.Context, id string) (*models.Activity, error)

	// UpdateActivity replaces the stored activity.
	UpdateActivity(ctx context.Context, activity *models.Activity) error

	// DeleteActivity removes an activity by ID.
	DeleteActivity(ctx context.Context, id string) error

	// ListActivitiesForUser retrieves every activity visible to the user:
	// activities they created plus activities of groups they belong to.
	ListActivitiesForUser(ctx context.Context, userID string) ([]*models.Activity, error)

	// CreateNotification appends to the notification feed, trimming it to
	// the 50 most recent entries.
	CreateNotification(ctx context.Context, n *models.Notification) error

	// ListNotificationsForUser retrieves feed entries visible to the
	// user, newest first.
	ListNotificationsForUser(ctx context.Context, userID string) ([]*models.Notification, error)

	// MarkNotificationRead sets the read flag on one notification.
	MarkNotificationRead(ctx context.Context, id string) error

	// MarkAllNotificationsRead sets the read flag on every notification
	// visible to the user.
	MarkAllNotificationsRead(ctx context.Context, userID string) error

	// CountUnread counts unread notifications visible to the user.
	CountUnread(ctx context.Context, userID string) (int, error)

	// CreateInvite persists an invite record.
	CreateInvite(ctx context.Context, invite *models.Invite) error

	// GetInviteByCode retrieves an invite by code (exact match).
	GetInviteByCode(ctx context.Context, code string) (*models.Invite, error)

	// IncrementInviteUses bumps an invite's use counter.
	IncrementInviteUses(ctx context.Context, id string) error

	// AppendGroupLog appends an audit entry, trimming the log to the 100
	// most recent entries.
	AppendGroupLog(ctx context.Context, entry *models.GroupActivityLog) error

	// ListGroupLogs retrieves a group's audit entries, newest first.
	ListGroupLogs(ctx context.Context, groupID string) ([]*models.GroupActivityLog, error)

	// Close releases any resources held by the store.
	Close() error
}
