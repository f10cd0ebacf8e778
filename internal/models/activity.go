package models

// Priority of an activity. Stored values.
type Priority string

const (
	PriorityBaixa Priority = "baixa"
	PriorityMedia Priority = "media"
	PriorityAlta  Priority = "alta"
)

// Category of an activity. Stored values.
type Category string

const (
	CategoryTrabalho Category = "trabalho"
	CategoryPessoal  Category = "pessoal"
	CategoryEstudos  Category = "estudos"
	CategorySaude    Category = "saude"
	CategoryOutros   Category = "outros"
)

// Status of an activity. Stored values.
type Status string

const (
	StatusPendente  Status = "pendente"
	StatusConcluida Status = "concluida"
)

// Activity is a schedulable unit of work.
//
// A personal activity (GroupID empty) is visible only to its creator; a
// group activity is visible to all members of the group. IsShared always
// mirrors GroupID being set.
type Activity struct {
	// ID is the unique identifier for the activity (UUID format).
	ID string `json:"id"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// Date is the scheduled calendar day in YYYY-MM-DD form.
	Date string `json:"date"`

	// Time is the scheduled time of day in HH:MM form.
	Time string `json:"time"`

	Priority Priority `json:"priority"`
	Category Category `json:"category"`

	// Duration is the planned duration in minutes.
	Duration int `json:"duration"`

	Status Status `json:"status"`

	// CreatedAt is the Unix timestamp when the activity was created.
	CreatedAt int64 `json:"created_at"`

	// CompletedAt is the Unix timestamp of completion; zero while pending.
	// Cleared again when the activity is toggled back to pending.
	CompletedAt int64 `json:"completed_at,omitempty"`

	// GroupID links the activity to a group; empty for personal tasks.
	GroupID string `json:"group_id,omitempty"`

	// CreatedBy is the user ID of the creator.
	CreatedBy string `json:"created_by"`

	// Assignees are user IDs assigned to the activity. For group
	// activities each must be a member of the group.
	Assignees []string `json:"assignees"`

	// IsShared mirrors GroupID != "".
	IsShared bool `json:"is_shared"`

	Tags        []string          `json:"tags,omitempty"`
	Attachments []string          `json:"attachments,omitempty"`
	Comments    []ActivityComment `json:"comments,omitempty"`
}

// ActivityComment is a comment left on an activity.
type ActivityComment struct {
	ID         string `json:"id"`
	ActivityID string `json:"activity_id"`
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	Content    string `json:"content"`
	CreatedAt  int64  `json:"created_at"`
}

// Scope selects personal tasks, group tasks, or both when filtering.
type Scope string

const (
	ScopePersonal Scope = "personal"
	ScopeGroups   Scope = "groups"
	ScopeAll      Scope = "all"
)

// ActivityFilter narrows an activity listing. Zero-valued fields mean "no
// constraint", not "match empty". Filters compose with logical AND.
type ActivityFilter struct {
	Status   Status   `json:"status,omitempty"`
	Priority Priority `json:"priority,omitempty"`
	Category Category `json:"category,omitempty"`
	Date     string   `json:"date,omitempty"`
	GroupID  string   `json:"group_id,omitempty"`
	Assignee string   `json:"assignee,omitempty"`
	Scope    Scope    `json:"scope,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// DashboardStats summarizes the acting user's activities.
type DashboardStats struct {
	TodayActivities    int `json:"today_activities"`
	OverdueActivities  int `json:"overdue_activities"`
	CompletedToday     int `json:"completed_today"`
	TotalToday         int `json:"total_today"`
	ProgressPercentage int `json:"progress_percentage"`
	PersonalTasks      int `json:"personal_tasks"`
	GroupTasks         int `json:"group_tasks"`
	WeeklyProgress     int `json:"weekly_progress"`
}
