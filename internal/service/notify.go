package service

import (
	"context"
	"log/slog"

	"gymbuddy/internal/middleware"
	"gymbuddy/internal/notifications"
)

// notifyUser publishes a notification event for the user, fire and forget.
// Delivery failures are logged and never surface to the caller; a nil
// notifier disables delivery entirely.
func notifyUser(ctx context.Context, n *notifications.Notifier, userID uint, event notifications.Event) {
	if n == nil {
		return
	}
	if err := n.PublishEvent(ctx, userID, event); err != nil {
		middleware.Logger.WarnContext(ctx, "notification publish failed",
			slog.Uint64("user_id", uint64(userID)),
			slog.String("type", event.Type),
			slog.String("error", err.Error()),
		)
	}
}
