package notify

import (
	"context"
	"log/slog"

	"github.com/58nights/backend/internal/model"
)

// LogNotifier logs notifications instead of sending them.
type LogNotifier struct {
	logger   *slog.Logger
	composer Composer
}

// NewLogNotifier creates a LogNotifier writing to logger.
func NewLogNotifier(logger *slog.Logger, composer Composer) *LogNotifier {
	return &LogNotifier{logger: logger, composer: composer}
}

func (n *LogNotifier) Send(ctx context.Context, sub *model.Submission) error {
	msg, err := n.composer.Compose(sub)
	if err != nil {
		return &Error{Backend: "log", Err: err}
	}
	n.logger.InfoContext(ctx, "contact notification (dev mode, not sent)",
		"to", msg.To,
		"reply_to", msg.ReplyTo,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return nil
}
