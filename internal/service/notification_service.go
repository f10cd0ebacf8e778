package service

import (
	"context"

	"github.com/timeflowhq/timeflow/internal/models"
	"github.com/timeflowhq/timeflow/internal/storage"
)

// NotificationService reads the bounded event feed. The feed is written
// by the group and task registries as a side effect of their mutations;
// the only mutation this service performs is flipping read flags.
type NotificationService struct {
	store storage.Store
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(store storage.Store) *NotificationService {
	return &NotificationService{store: store}
}

// List retrieves feed entries visible to actor, newest first.
func (s *NotificationService) List(ctx context.Context, actor *models.User) ([]*models.Notification, error) {
	return s.store.ListNotificationsForUser(ctx, actor.ID)
}

// MarkRead sets the read flag on one notification.
func (s *NotificationService) MarkRead(ctx context.Context, actor *models.User, id string) error {
	return s.store.MarkNotificationRead(ctx, id)
}

// MarkAllRead sets the read flag on every notification visible to actor.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor *models.User) error {
	return s.store.MarkAllNotificationsRead(ctx, actor.ID)
}

// UnreadCount counts unread notifications visible to actor.
func (s *NotificationService) UnreadCount(ctx context.Context, actor *models.User) (int, error) {
	return s.store.CountUnread(ctx, actor.ID)
}
