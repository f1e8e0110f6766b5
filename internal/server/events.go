package server

import (
	"log/slog"

	"blogapi/internal/middleware"
	"blogapi/internal/notifications"
)

// StartEventLog subscribes to entity change events and writes each one to the
// structured log until Shutdown is called. It is a no-op without a notifier.
func (s *Server) StartEventLog() error {
	return s.notifier.StartSubscriber(s.shutdownCtx, func(ev notifications.Event) {
		middleware.Logger.Info("entity event",
			slog.String("type", ev.Type),
			slog.Uint64("entity_id", uint64(ev.EntityID)),
			slog.Uint64("user_id", uint64(ev.UserID)),
			slog.Time("occurred_at", ev.OccurredAt),
		)
	})
}
