package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/timeflowhq/timeflow/internal/models"
	"github.com/timeflowhq/timeflow/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser generates ID and timestamps", func(t *testing.T) {
		user := models.NewUser("olivia@example.com", "Olivia", "hash")
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		got, err := store.GetUserByEmail(ctx, "olivia@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != user.ID || got.Name != "Olivia" || got.CreatedAt == 0 {
			t.Errorf("unexpected user: %+v", got)
		}
	})

	t.Run("GetUserByID not found", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CreateGroup round-trips members and settings", func(t *testing.T) {
		group := &models.Group{
			Name:       "Projeto X",
			Type:       models.GroupProjetos,
			OwnerID:    "u1",
			InviteCode: "AB12CD34",
			Members: []models.GroupMember{
				{UserID: "u1", UserName: "Olivia", Role: models.RoleOwner, JoinedAt: 1},
			},
			Settings: models.DefaultGroupSettings(),
		}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(got.Members) != 1 || got.Members[0].Role != models.RoleOwner {
			t.Errorf("members not persisted: %+v", got.Members)
		}
		if got.Settings.MaxMembers != 50 || !got.Settings.AllowMembersToInvite {
			t.Errorf("settings not persisted: %+v", got.Settings)
		}

		byCode, err := store.GetGroupByInviteCode(ctx, "AB12CD34")
		if err != nil {
			t.Fatalf("GetGroupByInviteCode failed: %v", err)
		}
		if byCode.ID != group.ID {
			t.Errorf("expected group %s, got %s", group.ID, byCode.ID)
		}
	})

	t.Run("InviteCodeExists sees group codes and invite codes", func(t *testing.T) {
		exists, err := store.InviteCodeExists(ctx, "AB12CD34")
		if err != nil {
			t.Fatalf("InviteCodeExists failed: %v", err)
		}
		if !exists {
			t.Error("expected primary group code to exist")
		}
		exists, err = store.InviteCodeExists(ctx, "ZZZZ9999")
		if err != nil {
			t.Fatalf("InviteCodeExists failed: %v", err)
		}
		if exists {
			t.Error("unexpected collision for fresh code")
		}
	})

	t.Run("member mutations", func(t *testing.T) {
		groups, err := store.ListGroupsByUser(ctx, "u1")
		if err != nil || len(groups) != 1 {
			t.Fatalf("ListGroupsByUser = %v, %v", groups, err)
		}
		groupID := groups[0].ID

		member := models.GroupMember{UserID: "u2", UserName: "Marcos", Role: models.RoleMember, JoinedAt: 2}
		if err := store.AddGroupMember(ctx, groupID, member); err != nil {
			t.Fatalf("AddGroupMember failed: %v", err)
		}
		if err := store.UpdateGroupMemberRole(ctx, groupID, "u2", models.RoleAdmin); err != nil {
			t.Fatalf("UpdateGroupMemberRole failed: %v", err)
		}

		got, _ := store.GetGroup(ctx, groupID)
		if m := got.Member("u2"); m == nil || m.Role != models.RoleAdmin {
			t.Errorf("role not updated: %+v", got.Members)
		}

		if err := store.RemoveGroupMember(ctx, groupID, "u2"); err != nil {
			t.Fatalf("RemoveGroupMember failed: %v", err)
		}
		if err := store.RemoveGroupMember(ctx, groupID, "u2"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound removing twice, got %v", err)
		}
	})
}

func TestSQLiteStore_Activities(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name:       "Time",
		Type:       models.GroupEmpresarial,
		OwnerID:    "u1",
		InviteCode: "CODE0001",
		Members: []models.GroupMember{
			{UserID: "u1", UserName: "Olivia", Role: models.RoleOwner, JoinedAt: 1},
			{UserID: "u2", UserName: "Marcos", Role: models.RoleMember, JoinedAt: 2},
		},
		Settings: models.DefaultGroupSettings(),
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	personal := &models.Activity{
		Title: "Estudar Go", Date: "2026-08-30", Time: "09:00",
		Priority: models.PriorityMedia, Category: models.CategoryEstudos,
		Status: models.StatusPendente, CreatedBy: "u3", Assignees: []string{},
	}
	shared := &models.Activity{
		Title: "Reunião semanal", Date: "2026-08-30", Time: "10:00",
		Priority: models.PriorityAlta, Category: models.CategoryTrabalho,
		Status: models.StatusPendente, GroupID: group.ID, CreatedBy: "u2",
		IsShared: true, Assignees: []string{"u1", "u2"},
		Tags: []string{"reuniao"},
	}
	for _, a := range []*models.Activity{personal, shared} {
		if err := store.CreateActivity(ctx, a); err != nil {
			t.Fatalf("CreateActivity failed: %v", err)
		}
	}

	t.Run("visibility follows creator and membership", func(t *testing.T) {
		forOwner, err := store.ListActivitiesForUser(ctx, "u1")
		if err != nil {
			t.Fatalf("ListActivitiesForUser failed: %v", err)
		}
		if len(forOwner) != 1 || forOwner[0].ID != shared.ID {
			t.Errorf("owner should see only the group activity, got %d", len(forOwner))
		}

		forOutsider, err := store.ListActivitiesForUser(ctx, "u3")
		if err != nil {
			t.Fatalf("ListActivitiesForUser failed: %v", err)
		}
		if len(forOutsider) != 1 || forOutsider[0].ID != personal.ID {
			t.Errorf("outsider should see only their personal activity, got %d", len(forOutsider))
		}
	})

	t.Run("round-trips assignees and tags", func(t *testing.T) {
		got, err := store.GetActivity(ctx, shared.ID)
		if err != nil {
			t.Fatalf("GetActivity failed: %v", err)
		}
		if len(got.Assignees) != 2 {
			t.Errorf("assignees: expected 2, got %v", got.Assignees)
		}
		if len(got.Tags) != 1 || got.Tags[0] != "reuniao" {
			t.Errorf("tags: got %v", got.Tags)
		}
	})

	t.Run("UpdateActivity replaces assignees", func(t *testing.T) {
		shared.Assignees = []string{"u1"}
		shared.Status = models.StatusConcluida
		shared.CompletedAt = 123
		if err := store.UpdateActivity(ctx, shared); err != nil {
			t.Fatalf("UpdateActivity failed: %v", err)
		}
		got, _ := store.GetActivity(ctx, shared.ID)
		if len(got.Assignees) != 1 || got.Assignees[0] != "u1" {
			t.Errorf("assignees not replaced: %v", got.Assignees)
		}
		if got.Status != models.StatusConcluida || got.CompletedAt != 123 {
			t.Errorf("status not updated: %+v", got)
		}
	})

	t.Run("DeleteGroup cascades activities and invites, keeps logs", func(t *testing.T) {
		invite := &models.Invite{
			Code: "EXTRA001", GroupID: group.ID, GroupName: group.Name,
			CreatedBy: "u1", CreatedByName: "Olivia", IsActive: true,
		}
		if err := store.CreateInvite(ctx, invite); err != nil {
			t.Fatalf("CreateInvite failed: %v", err)
		}
		entry := &models.GroupActivityLog{
			GroupID: group.ID, UserID: "u1", UserName: "Olivia",
			Action: models.LogTaskCreated, Description: "criou uma tarefa",
		}
		if err := store.AppendGroupLog(ctx, entry); err != nil {
			t.Fatalf("AppendGroupLog failed: %v", err)
		}

		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}

		if _, err := store.GetActivity(ctx, shared.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("group activity should be gone, got %v", err)
		}
		if _, err := store.GetActivity(ctx, personal.ID); err != nil {
			t.Errorf("personal activity should survive: %v", err)
		}
		if _, err := store.GetInviteByCode(ctx, "EXTRA001"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("invite should be gone, got %v", err)
		}
		logs, err := store.ListGroupLogs(ctx, group.ID)
		if err != nil || len(logs) != 1 {
			t.Errorf("logs should survive group deletion: %v, %v", logs, err)
		}
	})
}

func TestSQLiteStore_NotificationCap(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < maxNotifications+10; i++ {
		n := &models.Notification{
			Type:    models.NotifyTaskCreated,
			Title:   "Nova tarefa",
			Message: fmt.Sprintf("tarefa %d", i),
			UserID:  "u1",
		}
		if err := store.CreateNotification(ctx, n); err != nil {
			t.Fatalf("CreateNotification failed: %v", err)
		}
	}

	feed, err := store.ListNotificationsForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListNotificationsForUser failed: %v", err)
	}
	if len(feed) != maxNotifications {
		t.Errorf("feed length: expected %d, got %d", maxNotifications, len(feed))
	}
	// Newest entry survives the trim.
	if feed[0].Message != fmt.Sprintf("tarefa %d", maxNotifications+9) {
		t.Errorf("unexpected newest entry: %s", feed[0].Message)
	}

	t.Run("read flags", func(t *testing.T) {
		unread, err := store.CountUnread(ctx, "u1")
		if err != nil || unread != maxNotifications {
			t.Fatalf("CountUnread = %d, %v", unread, err)
		}
		if err := store.MarkNotificationRead(ctx, feed[0].ID); err != nil {
			t.Fatalf("MarkNotificationRead failed: %v", err)
		}
		unread, _ = store.CountUnread(ctx, "u1")
		if unread != maxNotifications-1 {
			t.Errorf("unread after one read: %d", unread)
		}
		if err := store.MarkAllNotificationsRead(ctx, "u1"); err != nil {
			t.Fatalf("MarkAllNotificationsRead failed: %v", err)
		}
		unread, _ = store.CountUnread(ctx, "u1")
		if unread != 0 {
			t.Errorf("unread after read-all: %d", unread)
		}
	})
}

func TestSQLiteStore_LogCap(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < maxGroupLogs+5; i++ {
		entry := &models.GroupActivityLog{
			GroupID: "g1", UserID: "u1", UserName: "Olivia",
			Action: models.LogTaskCreated, Description: fmt.Sprintf("entrada %d", i),
		}
		if err := store.AppendGroupLog(ctx, entry); err != nil {
			t.Fatalf("AppendGroupLog failed: %v", err)
		}
	}

	logs, err := store.ListGroupLogs(ctx, "g1")
	if err != nil {
		t.Fatalf("ListGroupLogs failed: %v", err)
	}
	if len(logs) != maxGroupLogs {
		t.Errorf("log length: expected %d, got %d", maxGroupLogs, len(logs))
	}
}
