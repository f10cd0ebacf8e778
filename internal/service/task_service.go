package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/timeflowhq/timeflow/internal/models"
	"github.com/timeflowhq/timeflow/internal/permissions"
	"github.com/timeflowhq/timeflow/internal/storage"
)

// TaskService owns the activity lifecycle. Group-bound activities emit
// notifications and audit entries; personal activities are private to
// their creator.
type TaskService struct {
	store storage.Store
}

// NewTaskService creates a new TaskService with the given storage backend.
func NewTaskService(store storage.Store) *TaskService {
	return &TaskService{store: store}
}

// ActivityUpdate carries a partial activity update. Nil fields are left
// as-is. The group binding is fixed at creation and cannot be changed.
type ActivityUpdate struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Date        *string          `json:"date,omitempty"`
	Time        *string          `json:"time,omitempty"`
	Priority    *models.Priority `json:"priority,omitempty"`
	Category    *models.Category `json:"category,omitempty"`
	Duration    *int             `json:"duration,omitempty"`
	Assignees   *[]string        `json:"assignees,omitempty"`
	Tags        *[]string        `json:"tags,omitempty"`
	Attachments *[]string        `json:"attachments,omitempty"`
}

// AddActivity creates an activity for actor. A GroupID makes it shared:
// the actor needs CanCreateTasks in that group, assignees must be group
// members, and the group is notified.
func (s *TaskService) AddActivity(ctx context.Context, actor *models.User, activity *models.Activity) (*models.Activity, error) {
	slog.Info("AddActivity", "user_id", actor.ID, "title", activity.Title, "group_id", activity.GroupID)

	activity.ID = ""
	activity.CreatedBy = actor.ID
	activity.CreatedAt = time.Now().Unix()
	activity.CompletedAt = 0
	activity.IsShared = activity.GroupID != ""
	if activity.Status == "" {
		activity.Status = models.StatusPendente
	}
	if activity.Assignees == nil {
		activity.Assignees = []string{}
	}
	if activity.Tags == nil {
		activity.Tags = []string{}
	}
	if activity.Attachments == nil {
		activity.Attachments = []string{}
	}
	if activity.Comments == nil {
		activity.Comments = []models.ActivityComment{}
	}

	var group *models.Group
	if activity.GroupID != "" {
		var err error
		group, err = s.store.GetGroup(ctx, activity.GroupID)
		if err != nil {
			return nil, err
		}
		if !permissions.For(group, actor.ID).CanCreateTasks {
			return nil, fmt.Errorf("group %s: %w", group.ID, ErrForbidden)
		}
		if err := validateAssignees(group, activity.Assignees); err != nil {
			return nil, err
		}
	} else if len(activity.Assignees) > 0 {
		// Personal activities carry no assignees but their own creator.
		return nil, fmt.Errorf("personal activity: %w", ErrUnknownAssignee)
	}

	if err := s.store.CreateActivity(ctx, activity); err != nil {
		return nil, err
	}

	if group != nil {
		notify(ctx, s.store, &models.Notification{
			Type:       models.NotifyTaskCreated,
			Title:      "Nova tarefa criada",
			Message:    fmt.Sprintf("%s criou: %s", actor.Name, activity.Title),
			GroupID:    group.ID,
			ActivityID: activity.ID,
			UserID:     actor.ID,
		})
		logEvent(ctx, s.store, &models.GroupActivityLog{
			GroupID:     group.ID,
			UserID:      actor.ID,
			UserName:    actor.Name,
			Action:      models.LogTaskCreated,
			Description: fmt.Sprintf("%s criou a tarefa %q", actor.Name, activity.Title),
		})
	}
	return activity, nil
}

func validateAssignees(group *models.Group, assignees []string) error {
	for _, userID := range assignees {
		if group.Member(userID) == nil {
			return fmt.Errorf("user %s in group %s: %w", userID, group.ID, ErrUnknownAssignee)
		}
	}
	return nil
}

// UpdateActivity merges a partial update. The actor must be allowed to
// edit (see CanEditActivity); assignees are validated against the group.
func (s *TaskService) UpdateActivity(ctx context.Context, actor *models.User, id string, update ActivityUpdate) (*models.Activity, error) {
	slog.Info("UpdateActivity", "user_id", actor.ID, "activity_id", id)

	activity, err := s.store.GetActivity(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed, err := s.canEdit(ctx, actor, activity)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("activity %s: %w", id, ErrForbidden)
	}

	if update.Title != nil {
		activity.Title = *update.Title
	}
	if update.Description != nil {
		activity.Description = *update.Description
	}
	if update.Date != nil {
		activity.Date = *update.Date
	}
	if update.Time != nil {
		activity.Time = *update.Time
	}
	if update.Priority != nil {
		activity.Priority = *update.Priority
	}
	if update.Category != nil {
		activity.Category = *update.Category
	}
	if update.Duration != nil {
		activity.Duration = *update.Duration
	}
	if update.Tags != nil {
		activity.Tags = *update.Tags
	}
	if update.Attachments != nil {
		activity.Attachments = *update.Attachments
	}
	if update.Assignees != nil {
		if activity.GroupID == "" && len(*update.Assignees) > 0 {
			return nil, fmt.Errorf("personal activity: %w", ErrUnknownAssignee)
		}
		if activity.GroupID != "" {
			group, err := s.store.GetGroup(ctx, activity.GroupID)
			if err != nil {
				return nil, err
			}
			if err := validateAssignees(group, *update.Assignees); err != nil {
				return nil, err
			}
		}
		activity.Assignees = *update.Assignees
	}

	if err := s.store.UpdateActivity(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// ToggleComplete flips an activity between pendente and concluida.
// Completing sets CompletedAt; un-completing clears it, so a double
// toggle restores the original state. Any group member (or the creator)
// may toggle. Completing a group activity notifies the group.
func (s *TaskService) ToggleComplete(ctx context.Context, actor *models.User, id string) (*models.Activity, error) {
	slog.Info("ToggleComplete", "user_id", actor.ID, "activity_id", id)

	activity, err := s.store.GetActivity(ctx, id)
	if err != nil {
		return nil, err
	}

	var group *models.Group
	if activity.CreatedBy != actor.ID {
		if activity.GroupID == "" {
			return nil, fmt.Errorf("activity %s: %w", id, ErrForbidden)
		}
		group, err = s.store.GetGroup(ctx, activity.GroupID)
		if err != nil {
			return nil, err
		}
		if group.Member(actor.ID) == nil {
			return nil, fmt.Errorf("activity %s: %w", id, ErrForbidden)
		}
	}

	if activity.Status == models.StatusConcluida {
		activity.Status = models.StatusPendente
		activity.CompletedAt = 0
	} else {
		activity.Status = models.StatusConcluida
		activity.CompletedAt = time.Now().Unix()
	}

	if err := s.store.UpdateActivity(ctx, activity); err != nil {
		return nil, err
	}

	if activity.Status == models.StatusConcluida && activity.GroupID != "" {
		notify(ctx, s.store, &models.Notification{
			Type:       models.NotifyTaskCompleted,
			Title:      "Tarefa concluída",
			Message:    fmt.Sprintf("%s concluiu: %s", actor.Name, activity.Title),
			GroupID:    activity.GroupID,
			ActivityID: activity.ID,
			UserID:     actor.ID,
		})
		logEvent(ctx, s.store, &models.GroupActivityLog{
			GroupID:     activity.GroupID,
			UserID:      actor.ID,
			UserName:    actor.Name,
			Action:      models.LogTaskCompleted,
			Description: fmt.Sprintf("%s concluiu a tarefa %q", actor.Name, activity.Title),
		})
	}
	return activity, nil
}

// DeleteActivity removes an activity. The creator may always delete their
// own; for group activities, CanDeleteTasks also suffices. A deleted
// group activity leaves an audit entry but no notification.
func (s *TaskService) DeleteActivity(ctx context.Context, actor *models.User, id string) error {
	slog.Info("DeleteActivity", "user_id", actor.ID, "activity_id", id)

	activity, err := s.store.GetActivity(ctx, id)
	if err != nil {
		return err
	}

	allowed := activity.CreatedBy == actor.ID
	if !allowed && activity.GroupID != "" {
		group, err := s.store.GetGroup(ctx, activity.GroupID)
		if err != nil {
			return err
		}
		allowed = permissions.For(group, actor.ID).CanDeleteTasks
	}
	if !allowed {
		return fmt.Errorf("activity %s: %w", id, ErrForbidden)
	}

	if err := s.store.DeleteActivity(ctx, id); err != nil {
		return err
	}
	if activity.GroupID != "" {
		logEvent(ctx, s.store, &models.GroupActivityLog{
			GroupID:     activity.GroupID,
			UserID:      actor.ID,
			UserName:    actor.Name,
			Action:      models.LogTaskDeleted,
			Description: fmt.Sprintf("%s removeu a tarefa %q", actor.Name, activity.Title),
		})
	}
	return nil
}

// CanEditActivity reports whether actor may edit the activity: creators
// always may, and for group activities the group's CanEditTasks
// capability also grants it. Role authority reaches every group task,
// including ones the admin did not create; the creator exception is what
// lets a plain member keep editing their own.
func (s *TaskService) CanEditActivity(ctx context.Context, actor *models.User, id string) (bool, error) {
	activity, err := s.store.GetActivity(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s.canEdit(ctx, actor, activity)
}

func (s *TaskService) canEdit(ctx context.Context, actor *models.User, activity *models.Activity) (bool, error) {
	if activity.CreatedBy == actor.ID {
		return true, nil
	}
	if activity.GroupID == "" {
		return false, nil
	}
	group, err := s.store.GetGroup(ctx, activity.GroupID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return permissions.For(group, actor.ID).CanEditTasks, nil
}

// FilterActivities returns the activities visible to actor that satisfy
// every set filter field. An unset field is no constraint.
func (s *TaskService) FilterActivities(ctx context.Context, actor *models.User, filter models.ActivityFilter) ([]*models.Activity, error) {
	activities, err := s.store.ListActivitiesForUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.Activity, 0, len(activities))
	for _, a := range activities {
		if matchesFilter(a, filter) {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func matchesFilter(a *models.Activity, f models.ActivityFilter) bool {
	switch f.Scope {
	case models.ScopePersonal:
		if a.GroupID != "" {
			return false
		}
	case models.ScopeGroups:
		if a.GroupID == "" {
			return false
		}
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Priority != "" && a.Priority != f.Priority {
		return false
	}
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	if f.Date != "" && a.Date != f.Date {
		return false
	}
	if f.GroupID != "" && a.GroupID != f.GroupID {
		return false
	}
	if f.Assignee != "" && !contains(a.Assignees, f.Assignee) {
		return false
	}
	for _, tag := range f.Tags {
		if !contains(a.Tags, tag) {
			return false
		}
	}
	return true
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
