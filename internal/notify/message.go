package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/58nights/backend/internal/config"
	"github.com/58nights/backend/internal/model"
)

// Message is a fully rendered notification.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Composer renders submissions into notification messages.
type Composer struct {
	Recipient string // falls back to config.DefaultNotifyEmail
	SiteName  string // used in the footer
}

var (
	strictPolicy *bluemonday.Policy
	policyOnce   sync.Once
)

// sanitize HTML-escapes user input so every character survives as text, then
// runs the strict policy over the result. No markup can remain after the
// escape, so the policy pass only normalises entities.
func sanitize(s string) string {
	policyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy.Sanitize(template.HTMLEscapeString(s))
}

var htmlBody = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; line-height: 1.6; color: #333; }
.label { font-weight: 600; color: #666; font-size: 12px; text-transform: uppercase; }
.message { background: #f5f5f5; padding: 15px; border-left: 3px solid #d4872c; }
.footer { margin-top: 30px; font-size: 12px; color: #999; }
</style>
</head>
<body>
<h1>New Contact Form Submission</h1>
<div class="label">Name</div>
<div>{{.Name}}</div>
<div class="label">Email</div>
<div><a href="mailto:{{.Email}}">{{.Email}}</a></div>
<div class="message">
<div class="label">Message</div>
<div>{{.Message}}</div>
</div>
<div class="footer">Sent from {{.SiteName}} contact form</div>
</body>
</html>
`))

// Compose renders sub into a Message addressed to the configured recipient,
// with the submitter as Reply-To.
func (c Composer) Compose(sub *model.Submission) (*Message, error) {
	to := c.Recipient
	if to == "" {
		to = config.DefaultNotifyEmail
	}
	site := c.SiteName
	if site == "" {
		site = config.DefaultSenderName
	}

	text := fmt.Sprintf("Name: %s\nEmail: %s\n\nMessage:\n%s\n\n---\nSent from %s contact form\n",
		sub.Name, sub.Email, sub.Message, site)

	message := strings.ReplaceAll(sub.Message, "\r\n", "\n")
	message = strings.ReplaceAll(sanitize(message), "\n", "<br>")

	var buf bytes.Buffer
	err := htmlBody.Execute(&buf, struct {
		Name     string
		Email    string
		Message  template.HTML
		SiteName string
	}{
		Name:     sub.Name,
		Email:    sub.Email,
		Message:  template.HTML(message), // sanitized above
		SiteName: site,
	})
	if err != nil {
		return nil, fmt.Errorf("notify: render html: %w", err)
	}

	return &Message{
		To:      to,
		ReplyTo: sub.Email,
		Subject: "New Contact: " + sub.Name,
		Text:    text,
		HTML:    buf.String(),
	}, nil
}
