package models

// Invite is a join-code record for a group.
//
// Every group gets one long-lived invite mirroring its primary InviteCode
// at creation time (ExpiresAt zero, no use limit). Members with invite
// permission may issue additional short-lived, limited-use invites.
type Invite struct {
	ID string `json:"id"`

	// Code is the join code, 8 uppercase alphanumeric characters.
	Code string `json:"code"`

	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name"`

	CreatedBy     string `json:"created_by"`
	CreatedByName string `json:"created_by_name"`

	// ExpiresAt is the Unix timestamp after which the invite is refused;
	// zero means it never expires.
	ExpiresAt int64 `json:"expires_at,omitempty"`

	// MaxUses caps how many joins may consume this invite; zero means
	// unlimited.
	MaxUses     int  `json:"max_uses,omitempty"`
	CurrentUses int  `json:"current_uses"`
	IsActive    bool `json:"is_active"`

	CreatedAt int64 `json:"created_at"`
}

// Usable reports whether the invite can still admit a member at the given
// Unix time.
func (i *Invite) Usable(now int64) bool {
	if !i.IsActive {
		return false
	}
	if i.ExpiresAt != 0 && now > i.ExpiresAt {
		return false
	}
	if i.MaxUses != 0 && i.CurrentUses >= i.MaxUses {
		return false
	}
	return true
}
