// Package notify delivers contact form submissions as email notifications.
//
// Two production backends are provided: an SMTP relay (SMTPNotifier) and the
// Resend transactional API (ResendNotifier). LogNotifier only logs and is
// meant for local development. All of them satisfy Notifier, so the HTTP
// layer does not know which one is in use.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/58nights/backend/internal/config"
	"github.com/58nights/backend/internal/model"
)

// ErrSend matches every notification failure via errors.Is.
var ErrSend = errors.New("failed to send notification")

// Notifier sends a single notification for a submission.
type Notifier interface {
	Send(ctx context.Context, sub *model.Submission) error
}

// Error is returned by notifiers when delivery fails. Err carries the
// backend's cause for server-side logging only.
type Error struct {
	Backend string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("notify: %s: %v", e.Backend, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports a match against ErrSend.
func (e *Error) Is(target error) bool { return target == ErrSend }

// New builds the notifier selected by cfg.Notifier, wrapped with
// cfg.NotifyTimeout when one is configured.
func New(cfg *config.Config) (Notifier, error) {
	composer := Composer{Recipient: cfg.NotifyEmail, SiteName: cfg.SMTP.FromName}

	var (
		n   Notifier
		err error
	)
	switch cfg.Notifier {
	case config.NotifierSMTP:
		n, err = NewSMTPNotifier(cfg.SMTP, composer)
	case config.NotifierResend:
		n, err = NewResendNotifier(cfg.Resend, composer)
	case config.NotifierLog:
		n = NewLogNotifier(slog.Default(), composer)
	default:
		err = fmt.Errorf("notify: unknown backend %q", cfg.Notifier)
	}
	if err != nil {
		return nil, err
	}
	return WithTimeout(n, cfg.NotifyTimeout), nil
}

// WithTimeout bounds each Send to d. A zero d returns n unchanged, leaving
// the deadline to the request context and the backend's own defaults.
func WithTimeout(n Notifier, d time.Duration) Notifier {
	if d <= 0 {
		return n
	}
	return &timeoutNotifier{next: n, timeout: d}
}

type timeoutNotifier struct {
	next    Notifier
	timeout time.Duration
}

func (t *timeoutNotifier) Send(ctx context.Context, sub *model.Submission) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Send(ctx, sub)
}
