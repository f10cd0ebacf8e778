package models

// NotificationType identifies what a notification is about.
type NotificationType string

const (
	NotifyMemberJoined  NotificationType = "member_joined"
	NotifyMemberRemoved NotificationType = "member_removed"
	NotifyRoleChanged   NotificationType = "role_changed"
	NotifyTaskCreated   NotificationType = "task_created"
	NotifyTaskCompleted NotificationType = "task_completed"
	NotifyInviteCreated NotificationType = "invite_created"
)

// Notification is one entry in the bounded event feed. The feed is
// non-authoritative: only the most recent entries are kept and older ones
// are silently dropped.
type Notification struct {
	ID      string           `json:"id"`
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`

	// GroupID scopes the notification to a group's members.
	GroupID string `json:"group_id,omitempty"`

	// ActivityID links to the activity the event concerns, if any.
	ActivityID string `json:"activity_id,omitempty"`

	// UserID is the user who triggered the event.
	UserID string `json:"user_id"`

	Read      bool              `json:"read"`
	CreatedAt int64             `json:"created_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// LogAction identifies a group audit-log entry.
type LogAction string

const (
	LogMemberJoined    LogAction = "member_joined"
	LogMemberLeft      LogAction = "member_left"
	LogMemberRemoved   LogAction = "member_removed"
	LogRoleChanged     LogAction = "role_changed"
	LogTaskCreated     LogAction = "task_created"
	LogTaskCompleted   LogAction = "task_completed"
	LogTaskDeleted     LogAction = "task_deleted"
	LogSettingsChanged LogAction = "settings_changed"
)

// GroupActivityLog is one entry in a group's bounded audit trail. Entries
// outlive their group: deleting a group keeps its log as a historical
// record.
type GroupActivityLog struct {
	ID          string            `json:"id"`
	GroupID     string            `json:"group_id"`
	UserID      string            `json:"user_id"`
	UserName    string            `json:"user_name"`
	Action      LogAction         `json:"action"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   int64             `json:"created_at"`
}
