package notify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v3"

	"github.com/58nights/backend/internal/config"
	"github.com/58nights/backend/internal/model"
)

// ResendNotifier sends notifications through the Resend HTTP API.
type ResendNotifier struct {
	client   *resend.Client
	from     string
	composer Composer
}

// NewResendNotifier creates a ResendNotifier. cfg.BaseURL, when set,
// replaces the provider endpoint.
func NewResendNotifier(cfg config.ResendConfig, composer Composer) (*ResendNotifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("notify: resend: RESEND_API_KEY is not set")
	}
	client := resend.NewClient(cfg.APIKey)
	if cfg.BaseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("notify: resend: base url: %w", err)
		}
		client.BaseURL = u
	}
	return &ResendNotifier{client: client, from: cfg.From, composer: composer}, nil
}

// Ensure ResendNotifier implements Notifier at compile time.
var _ Notifier = (*ResendNotifier)(nil)

func (n *ResendNotifier) Send(ctx context.Context, sub *model.Submission) error {
	msg, err := n.composer.Compose(sub)
	if err != nil {
		return n.fail(err)
	}

	req := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{msg.To},
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	if _, err := n.client.Emails.SendWithContext(ctx, req); err != nil {
		return n.fail(err)
	}
	return nil
}

func (n *ResendNotifier) fail(err error) error {
	return &Error{Backend: config.NotifierResend, Err: err}
}
