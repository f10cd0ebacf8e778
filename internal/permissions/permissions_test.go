package permissions

import (
	"testing"

	"github.com/timeflowhq/timeflow/internal/models"
)

func testGroup(settings models.GroupSettings) *models.Group {
	return &models.Group{
		ID:      "g1",
		Name:    "Equipe",
		OwnerID: "owner-1",
		Members: []models.GroupMember{
			{UserID: "owner-1", UserName: "Olivia", Role: models.RoleOwner},
			{UserID: "admin-1", UserName: "Ana", Role: models.RoleAdmin},
			{UserID: "member-1", UserName: "Marcos", Role: models.RoleMember},
		},
		Settings: settings,
	}
}

func TestFor_OwnerHasEverything(t *testing.T) {
	g := testGroup(models.DefaultGroupSettings())
	p := For(g, "owner-1")

	if !p.CanCreateTasks || !p.CanEditTasks || !p.CanDeleteTasks ||
		!p.CanInviteMembers || !p.CanRemoveMembers || !p.CanChangeRoles ||
		!p.CanManageSettings || !p.CanDeleteGroup {
		t.Errorf("owner should hold every capability, got %+v", p)
	}
}

func TestFor_AdminCannotChangeRolesOrDelete(t *testing.T) {
	g := testGroup(models.DefaultGroupSettings())
	p := For(g, "admin-1")

	if !p.CanEditTasks || !p.CanDeleteTasks || !p.CanRemoveMembers || !p.CanManageSettings {
		t.Errorf("admin missing elevated capabilities: %+v", p)
	}
	if p.CanChangeRoles {
		t.Error("admin must not change roles")
	}
	if p.CanDeleteGroup {
		t.Error("admin must not delete the group")
	}
}

func TestFor_MemberFollowsSettings(t *testing.T) {
	tests := []struct {
		name      string
		settings  models.GroupSettings
		canCreate bool
		canInvite bool
	}{
		{
			name:      "permissive defaults",
			settings:  models.DefaultGroupSettings(),
			canCreate: true,
			canInvite: true,
		},
		{
			name: "locked down",
			settings: models.GroupSettings{
				AllowMembersToInvite:      false,
				AllowMembersToCreateTasks: false,
				MaxMembers:                50,
			},
			canCreate: false,
			canInvite: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := For(testGroup(tt.settings), "member-1")
			if p.CanCreateTasks != tt.canCreate {
				t.Errorf("CanCreateTasks = %v, want %v", p.CanCreateTasks, tt.canCreate)
			}
			if p.CanInviteMembers != tt.canInvite {
				t.Errorf("CanInviteMembers = %v, want %v", p.CanInviteMembers, tt.canInvite)
			}
			if p.CanEditTasks || p.CanDeleteTasks || p.CanRemoveMembers ||
				p.CanChangeRoles || p.CanManageSettings || p.CanDeleteGroup {
				t.Errorf("plain member holds elevated capability: %+v", p)
			}
		})
	}
}

func TestFor_FailClosed(t *testing.T) {
	g := testGroup(models.DefaultGroupSettings())

	t.Run("non-member", func(t *testing.T) {
		if p := For(g, "stranger"); p != (Permissions{}) {
			t.Errorf("non-member got capabilities: %+v", p)
		}
	})

	t.Run("nil group", func(t *testing.T) {
		if p := For(nil, "owner-1"); p != (Permissions{}) {
			t.Errorf("nil group got capabilities: %+v", p)
		}
	})

	t.Run("settings never grant to non-members", func(t *testing.T) {
		open := testGroup(models.GroupSettings{
			AllowMembersToInvite:      true,
			AllowMembersToCreateTasks: true,
			MaxMembers:                50,
		})
		if p := For(open, "stranger"); p != (Permissions{}) {
			t.Errorf("non-member got capabilities from open settings: %+v", p)
		}
	})
}

func TestFor_ApprovalSettingHasNoEffect(t *testing.T) {
	s := models.DefaultGroupSettings()
	s.RequireApprovalForTasks = true
	with := For(testGroup(s), "member-1")
	without := For(testGroup(models.DefaultGroupSettings()), "member-1")

	if with != without {
		t.Errorf("RequireApprovalForTasks changed the capability set: %+v vs %+v", with, without)
	}
}
