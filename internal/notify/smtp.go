package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
	"golang.org/x/oauth2"

	"github.com/58nights/backend/internal/config"
	"github.com/58nights/backend/internal/model"
)

// SMTPNotifier relays notifications through an SMTP server.
//
// SMTPConfig.Secure selects implicit TLS; otherwise STARTTLS is used when the
// server offers it. Authentication is PLAIN with User/Pass, or XOAUTH2 when
// OAuth refresh credentials are configured. Connections are opened per Send.
type SMTPNotifier struct {
	cfg      config.SMTPConfig
	composer Composer
	tokens   oauth2.TokenSource // nil unless XOAUTH2 is configured
}

// NewSMTPNotifier creates an SMTPNotifier.
func NewSMTPNotifier(cfg config.SMTPConfig, composer Composer) (*SMTPNotifier, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("notify: smtp: SMTP_HOST is not set")
	}
	n := &SMTPNotifier{cfg: cfg, composer: composer}
	if cfg.OAuthRefreshToken != "" {
		n.tokens = newTokenSource(cfg)
	}
	return n, nil
}

// Ensure SMTPNotifier implements Notifier at compile time.
var _ Notifier = (*SMTPNotifier)(nil)

func (n *SMTPNotifier) Send(ctx context.Context, sub *model.Submission) error {
	msg, err := n.composer.Compose(sub)
	if err != nil {
		return n.fail(err)
	}

	m := mail.NewMsg()
	if err := m.FromFormat(n.cfg.FromName, n.cfg.From); err != nil {
		return n.fail(fmt.Errorf("from: %w", err))
	}
	if err := m.To(msg.To); err != nil {
		return n.fail(fmt.Errorf("to: %w", err))
	}
	// The submitter's address is not syntax-checked upstream; an unusable
	// Reply-To must not cost us the notification.
	if err := m.ReplyTo(msg.ReplyTo); err != nil {
		slog.Warn("smtp: dropping unparsable reply-to", "reply_to", msg.ReplyTo, "error", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)

	client, err := n.client()
	if err != nil {
		return n.fail(err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return n.fail(err)
	}
	return nil
}

func (n *SMTPNotifier) client() (*mail.Client, error) {
	opts := []mail.Option{mail.WithPort(n.cfg.Port)}
	if n.cfg.Secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	switch {
	case n.tokens != nil:
		tok, err := n.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("oauth2 token: %w", err)
		}
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthXOAUTH2),
			mail.WithUsername(n.cfg.User),
			mail.WithPassword(tok.AccessToken),
		)
	case n.cfg.User != "":
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.User),
			mail.WithPassword(n.cfg.Pass),
		)
	}

	client, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	return client, nil
}

func (n *SMTPNotifier) fail(err error) error {
	return &Error{Backend: config.NotifierSMTP, Err: err}
}
