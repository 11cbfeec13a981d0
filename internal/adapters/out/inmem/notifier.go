package inmem

import (
	"context"
	"log/slog"

	"freight/internal/core/ports"
)

// LogNotifier writes notifications to the log instead of delivering them.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "log_notifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, msg ports.Notification) error {
	n.logger.InfoContext(ctx, "notification",
		"role", string(msg.Role),
		"recipient_id", msg.RecipientID,
		"event", string(msg.Event),
		"load_id", msg.LoadID,
		"step", msg.StepID,
		"status", msg.Status.String(),
	)
	return nil
}
