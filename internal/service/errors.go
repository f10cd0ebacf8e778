package service

import "errors"

// Business outcomes surfaced by the registries. Handlers map these to HTTP
// statuses; none of them is fatal — every one is an expected result of the
// permission and lifecycle rules.
var (
	// ErrForbidden means the acting user lacks the capability for the
	// operation (or is not a member at all — permissions fail closed).
	ErrForbidden = errors.New("operation not permitted")

	// ErrGroupFull means the group reached Settings.MaxMembers.
	ErrGroupFull = errors.New("group is full")

	// ErrOwnerImmutable means the operation tried to remove the owner,
	// change the owner's role, or promote a second owner.
	ErrOwnerImmutable = errors.New("group owner cannot be changed or removed")

	// ErrOwnerCannotLeave means the owner tried to leave; the owner must
	// delete the group instead (there is no ownership transfer).
	ErrOwnerCannotLeave = errors.New("owner cannot leave the group")

	// ErrInviteInvalid means the invite code matched nothing usable:
	// unknown, inactive, expired or exhausted.
	ErrInviteInvalid = errors.New("invite code is invalid or expired")

	// ErrUnknownAssignee means an assignee is not a member of the
	// activity's group.
	ErrUnknownAssignee = errors.New("assignee is not a group member")

	// ErrInvalidRole means the requested role is not owner/admin/member.
	ErrInvalidRole = errors.New("invalid role")
)
