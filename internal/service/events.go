package service

import (
	"context"
	"log/slog"

	"github.com/timeflowhq/timeflow/internal/models"
	"github.com/timeflowhq/timeflow/internal/storage"
)

// notify appends a feed entry. Emission is best-effort: the mutating
// operation already succeeded, so a failed side effect is logged and
// swallowed rather than failing the request.
func notify(ctx context.Context, store storage.Store, n *models.Notification) {
	if err := store.CreateNotification(ctx, n); err != nil {
		slog.Warn("failed to emit notification",
			"type", n.Type,
			"group_id", n.GroupID,
			"error", err,
		)
	}
}

// logEvent appends a group audit entry, best-effort like notify.
func logEvent(ctx context.Context, store storage.Store, entry *models.GroupActivityLog) {
	if err := store.AppendGroupLog(ctx, entry); err != nil {
		slog.Warn("failed to append group log",
			"action", entry.Action,
			"group_id", entry.GroupID,
			"error", err,
		)
	}
}
