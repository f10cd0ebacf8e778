// Package permissions derives the capability set of a user within a group.
//
// Derivation is a pure function of (group, user): no storage access, no
// side effects. Non-members always get the zero (all-false) set, so a
// missing group or unknown user fails closed.
package permissions

import "github.com/timeflowhq/timeflow/internal/models"

// Permissions is the capability set of one user within one group.
type Permissions struct {
	CanCreateTasks    bool `json:"can_create_tasks"`
	CanEditTasks      bool `json:"can_edit_tasks"`
	CanDeleteTasks    bool `json:"can_delete_tasks"`
	CanInviteMembers  bool `json:"can_invite_members"`
	CanRemoveMembers  bool `json:"can_remove_members"`
	CanChangeRoles    bool `json:"can_change_roles"`
	CanManageSettings bool `json:"can_manage_settings"`
	CanDeleteGroup    bool `json:"can_delete_group"`
}

// For computes the permissions of userID within group.
//
// A nil group or a user that is not a member yields the zero set.
// Settings.RequireApprovalForTasks is deliberately not consulted; it has
// no gating rule.
func For(group *models.Group, userID string) Permissions {
	if group == nil {
		return Permissions{}
	}
	member := group.Member(userID)
	if member == nil {
		return Permissions{}
	}

	owner := member.Role == models.RoleOwner
	admin := member.Role == models.RoleAdmin
	elevated := owner || admin

	return Permissions{
		CanCreateTasks:    elevated || group.Settings.AllowMembersToCreateTasks,
		CanEditTasks:      elevated,
		CanDeleteTasks:    elevated,
		CanInviteMembers:  elevated || group.Settings.AllowMembersToInvite,
		CanRemoveMembers:  elevated,
		CanChangeRoles:    owner,
		CanManageSettings: elevated,
		CanDeleteGroup:    owner,
	}
}
