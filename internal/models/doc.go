// Package models defines the core domain models for TimeFlow.
//
// # Overview
//
// TimeFlow organizes work around two aggregates:
//   - Activity: a schedulable unit of work, personal by default and shared
//     when attached to a group
//   - Group: a named set of members with role-based permissions, joined via
//     invite codes
//
// Supporting records:
//   - Notification: bounded feed of group events (most recent 50 kept)
//   - GroupActivityLog: bounded audit trail of group mutations (most recent
//     100 kept)
//   - Invite: invite-code records, one long-lived per group plus optional
//     limited-use extras
//
// # Design Principles
//
//  1. **Flat references**: relationships use ID strings, never pointers, to
//     avoid circular structures and keep rows serializable.
//  2. **Explicit actor**: no model carries an implicit "current user"; the
//     acting user is passed into every service call.
//  3. **Stored vocabulary**: priority/category/status/group-type values are
//     part of the persisted data format inherited from the product UI and
//     must not be renamed.
package models
