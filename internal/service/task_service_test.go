package service

import (
	"context"
	"errors"
	"testing"

	"github.com/timeflowhq/timeflow/internal/models"
)

func TestAddActivity(t *testing.T) {
	store := newTestStore(t)
	groups := NewGroupService(store)
	tasks := NewTaskService(store)
	ctx := context.Background()
	owner := newTestUser(t, store, "olivia")
	member := newTestUser(t, store, "marcos")
	outsider := newTestUser(t, store, "sofia")

	group, _ := groups.CreateGroup(ctx, owner, "Equipe", "", models.GroupEmpresarial)
	groups.JoinGroup(ctx, member, group.InviteCode)

	t.Run("personal activity defaults", func(t *testing.T) {
		created, err := tasks.AddActivity(ctx, member, &models.Activity{
			Title: "Correr", Date: "2026-08-30", Time: "07:00",
			Priority: models.PriorityBaixa, Category: models.CategorySaude,
		})
		if err != nil {
			t.Fatalf("AddActivity failed: %v", err)
		}
		if created.Status != models.StatusPendente {
			t.Errorf("status = %s, want pendente", created.Status)
		}
		if created.IsShared {
			t.Error("personal activity marked shared")
		}
		if created.CreatedBy != member.ID {
			t.Errorf("created_by = %s, want %s", created.CreatedBy, member.ID)
		}
	})

	t.Run("personal activity rejects assignees", func(t *testing.T) {
		_, err := tasks.AddActivity(ctx, member, &models.Activity{
			Title: "Ler", Date: "2026-08-30", Time: "20:00",
			Priority: models.PriorityBaixa, Category: models.CategoryEstudos,
			Assignees: []string{owner.ID},
		})
		if !errors.Is(err, ErrUnknownAssignee) {
			t.Errorf("expected ErrUnknownAssignee, got %v", err)
		}
	})

	t.Run("group activity by member under open settings", func(t *testing.T) {
		created, err := tasks.AddActivity(ctx, member, &models.Activity{
			Title: "Relatório", Date: "2026-08-30", Time: "10:00",
			Priority: models.PriorityAlta, Category: models.CategoryTrabalho,
			GroupID: group.ID, Assignees: []string{owner.ID},
		})
		if err != nil {
			t.Fatalf("AddActivity failed: %v", err)
		}
		if !created.IsShared {
			t.Error("group activity not marked shared")
		}
		logs, _ := groups.GroupLog(ctx, owner, group.ID)
		if !hasLogAction(logs, models.LogTaskCreated) {
			t.Error("task_created log entry missing")
		}
	})

	t.Run("non-member refused", func(t *testing.T) {
		_, err := tasks.AddActivity(ctx, outsider, &models.Activity{
			Title: "Intruso", Date: "2026-08-30", Time: "10:00",
			Priority: models.PriorityBaixa, Category: models.CategoryOutros,
			GroupID: group.ID,
		})
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("assignee outside the group refused", func(t *testing.T) {
		_, err := tasks.AddActivity(ctx, member, &models.Activity{
			Title: "Relatório", Date: "2026-08-30", Time: "10:00",
			Priority: models.PriorityAlta, Category: models.CategoryTrabalho,
			GroupID: group.ID, Assignees: []string{outsider.ID},
		})
		if !errors.Is(err, ErrUnknownAssignee) {
			t.Errorf("expected ErrUnknownAssignee, got %v", err)
		}
	})

	t.Run("member refused under locked settings", func(t *testing.T) {
		locked := models.DefaultGroupSettings()
		locked.AllowMembersToCreateTasks = false
		if _, err := groups.UpdateGroup(ctx, owner, group.ID, GroupUpdate{Settings: &locked}); err != nil {
			t.Fatalf("UpdateGroup failed: %v", err)
		}
		_, err := tasks.AddActivity(ctx, member, &models.Activity{
			Title: "Bloqueada", Date: "2026-08-30", Time: "10:00",
			Priority: models.PriorityBaixa, Category: models.CategoryOutros,
			GroupID: group.ID,
		})
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})
}

func TestToggleComplete(t *testing.T) {
	store := newTestStore(t)
	groups := NewGroupService(store)
	tasks := NewTaskService(store)
	ctx := context.Background()
	owner := newTestUser(t, store, "olivia")
	member := newTestUser(t, store, "marcos")
	outsider := newTestUser(t, store, "sofia")

	group, _ := groups.CreateGroup(ctx, owner, "Equipe", "", models.GroupEmpresarial)
	groups.JoinGroup(ctx, member, group.InviteCode)

	shared, err := tasks.AddActivity(ctx, owner, &models.Activity{
		Title: "Relatório", Date: "2026-08-30", Time: "10:00",
		Priority: models.PriorityAlta, Category: models.CategoryTrabalho,
		GroupID: group.ID,
	})
	if err != nil {
		t.Fatalf("AddActivity failed: %v", err)
	}

	t.Run("member completes a peer's group task", func(t *testing.T) {
		done, err := tasks.ToggleComplete(ctx, member, shared.ID)
		if err != nil {
			t.Fatalf("ToggleComplete failed: %v", err)
		}
		if done.Status != models.StatusConcluida || done.CompletedAt == 0 {
			t.Errorf("not completed: %+v", done)
		}
		logs, _ := groups.GroupLog(ctx, owner, group.ID)
		if !hasLogAction(logs, models.LogTaskCompleted) {
			t.Error("task_completed log entry missing")
		}
	})

	t.Run("double toggle restores pending state", func(t *testing.T) {
		undone, err := tasks.ToggleComplete(ctx, member, shared.ID)
		if err != nil {
			t.Fatalf("ToggleComplete failed: %v", err)
		}
		if undone.Status != models.StatusPendente || undone.CompletedAt != 0 {
			t.Errorf("not restored: %+v", undone)
		}
	})

	t.Run("outsider refused", func(t *testing.T) {
		if _, err := tasks.ToggleComplete(ctx, outsider, shared.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})
}

func TestEditAuthority(t *testing.T) {
	store := newTestStore(t)
	groups := NewGroupService(store)
	tasks := NewTaskService(store)
	ctx := context.Background()
	owner := newTestUser(t, store, "olivia")
	admin := newTestUser(t, store, "ana")
	member := newTestUser(t, store, "marcos")

	group, _ := groups.CreateGroup(ctx, owner, "Equipe", "", models.GroupEmpresarial)
	groups.JoinGroup(ctx, admin, group.InviteCode)
	groups.JoinGroup(ctx, member, group.InviteCode)
	if err := groups.UpdateMemberRole(ctx, owner, group.ID, admin.ID, models.RoleAdmin); err != nil {
		t.Fatalf("UpdateMemberRole failed: %v", err)
	}

	memberTask, err := tasks.AddActivity(ctx, member, &models.Activity{
		Title: "Planilha", Date: "2026-08-30", Time: "09:00",
		Priority: models.PriorityMedia, Category: models.CategoryTrabalho,
		GroupID: group.ID,
	})
	if err != nil {
		t.Fatalf("AddActivity failed: %v", err)
	}
	personal, err := tasks.AddActivity(ctx, member, &models.Activity{
		Title: "Correr", Date: "2026-08-30", Time: "07:00",
		Priority: models.PriorityBaixa, Category: models.CategorySaude,
	})
	if err != nil {
		t.Fatalf("AddActivity failed: %v", err)
	}

	t.Run("admin edits a task they did not create", func(t *testing.T) {
		title := "Planilha revisada"
		updated, err := tasks.UpdateActivity(ctx, admin, memberTask.ID, ActivityUpdate{Title: &title})
		if err != nil {
			t.Fatalf("UpdateActivity failed: %v", err)
		}
		if updated.Title != "Planilha revisada" {
			t.Errorf("title = %q", updated.Title)
		}
	})

	t.Run("creator keeps editing their own group task", func(t *testing.T) {
		ok, err := tasks.CanEditActivity(ctx, member, memberTask.ID)
		if err != nil {
			t.Fatalf("CanEditActivity failed: %v", err)
		}
		if !ok {
			t.Error("creator should be able to edit their own task")
		}
	})

	t.Run("plain member cannot edit a peer's group task", func(t *testing.T) {
		peer, err := tasks.AddActivity(ctx, admin, &models.Activity{
			Title: "Outra", Date: "2026-08-30", Time: "11:00",
			Priority: models.PriorityBaixa, Category: models.CategoryTrabalho,
			GroupID: group.ID,
		})
		if err != nil {
			t.Fatalf("AddActivity failed: %v", err)
		}
		title := "x"
		if _, err := tasks.UpdateActivity(ctx, member, peer.ID, ActivityUpdate{Title: &title}); !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("personal tasks stay private regardless of role", func(t *testing.T) {
		ok, err := tasks.CanEditActivity(ctx, admin, personal.ID)
		if err != nil {
			t.Fatalf("CanEditActivity failed: %v", err)
		}
		if ok {
			t.Error("admin should not reach a personal task")
		}
	})

	t.Run("missing activity is false without error", func(t *testing.T) {
		ok, err := tasks.CanEditActivity(ctx, admin, "no-such-activity")
		if err != nil || ok {
			t.Errorf("got (%v, %v), want (false, nil)", ok, err)
		}
	})
}

func TestDeleteActivity(t *testing.T) {
	store := newTestStore(t)
	groups := NewGroupService(store)
	tasks := NewTaskService(store)
	ctx := context.Background()
	owner := newTestUser(t, store, "olivia")
	member := newTestUser(t, store, "marcos")

	group, _ := groups.CreateGroup(ctx, owner, "Equipe", "", models.GroupEmpresarial)
	groups.JoinGroup(ctx, member, group.InviteCode)

	ownerTask, _ := tasks.AddActivity(ctx, owner, &models.Activity{
		Title: "Relatório", Date: "2026-08-30", Time: "10:00",
		Priority: models.PriorityAlta, Category: models.CategoryTrabalho,
		GroupID: group.ID,
	})
	memberTask, _ := tasks.AddActivity(ctx, member, &models.Activity{
		Title: "Planilha", Date: "2026-08-30", Time: "09:00",
		Priority: models.PriorityMedia, Category: models.CategoryTrabalho,
		GroupID: group.ID,
	})

	t.Run("member cannot delete a peer's task", func(t *testing.T) {
		if err := tasks.DeleteActivity(ctx, member, ownerTask.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("creator deletes their own", func(t *testing.T) {
		if err := tasks.DeleteActivity(ctx, member, memberTask.ID); err != nil {
			t.Fatalf("DeleteActivity failed: %v", err)
		}
		logs, _ := groups.GroupLog(ctx, owner, group.ID)
		if !hasLogAction(logs, models.LogTaskDeleted) {
			t.Error("task_deleted log entry missing")
		}
	})

	t.Run("owner deletes any group task", func(t *testing.T) {
		another, _ := tasks.AddActivity(ctx, member, &models.Activity{
			Title: "Outra", Date: "2026-08-30", Time: "11:00",
			Priority: models.PriorityBaixa, Category: models.CategoryTrabalho,
			GroupID: group.ID,
		})
		if err := tasks.DeleteActivity(ctx, owner, another.ID); err != nil {
			t.Fatalf("DeleteActivity failed: %v", err)
		}
	})
}

func TestFilterActivities(t *testing.T) {
	store := newTestStore(t)
	groups := NewGroupService(store)
	tasks := NewTaskService(store)
	ctx := context.Background()
	owner := newTestUser(t, store, "olivia")

	group, _ := groups.CreateGroup(ctx, owner, "Equipe", "", models.GroupEmpresarial)

	seed := []*models.Activity{
		{Title: "Correr", Date: "2026-08-30", Time: "07:00", Priority: models.PriorityBaixa, Category: models.CategorySaude, Tags: []string{"manhã"}},
		{Title: "Relatório", Date: "2026-08-30", Time: "10:00", Priority: models.PriorityAlta, Category: models.CategoryTrabalho, GroupID: group.ID, Tags: []string{"urgente", "q3"}},
		{Title: "Ler", Date: "2026-08-31", Time: "20:00", Priority: models.PriorityBaixa, Category: models.CategoryEstudos},
	}
	for _, a := range seed {
		if _, err := tasks.AddActivity(ctx, owner, a); err != nil {
			t.Fatalf("AddActivity failed: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter models.ActivityFilter
		want   []string
	}{
		{"no filter returns all", models.ActivityFilter{}, []string{"Correr", "Relatório", "Ler"}},
		{"personal scope", models.ActivityFilter{Scope: models.ScopePersonal}, []string{"Correr", "Ler"}},
		{"group scope", models.ActivityFilter{Scope: models.ScopeGroups}, []string{"Relatório"}},
		{"by date", models.ActivityFilter{Date: "2026-08-30"}, []string{"Correr", "Relatório"}},
		{"by priority", models.ActivityFilter{Priority: models.PriorityAlta}, []string{"Relatório"}},
		{"filters are conjunctive", models.ActivityFilter{Date: "2026-08-30", Category: models.CategorySaude}, []string{"Correr"}},
		{"all tags must match", models.ActivityFilter{Tags: []string{"urgente", "q3"}}, []string{"Relatório"}},
		{"missing tag matches nothing", models.ActivityFilter{Tags: []string{"urgente", "q4"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tasks.FilterActivities(ctx, owner, tt.filter)
			if err != nil {
				t.Fatalf("FilterActivities failed: %v", err)
			}
			titles := make([]string, 0, len(got))
			for _, a := range got {
				titles = append(titles, a.Title)
			}
			if len(titles) != len(tt.want) {
				t.Fatalf("got %v, want %v", titles, tt.want)
			}
			for i := range tt.want {
				if titles[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", titles, tt.want)
				}
			}
		})
	}
}
