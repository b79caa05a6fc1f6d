package notify

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/58nights/backend/internal/config"
)

// newTokenSource returns a caching token source that refreshes SMTP XOAUTH2
// access tokens from the configured refresh token. The Google endpoint is
// used unless OAuthTokenURL overrides it.
func newTokenSource(cfg config.SMTPConfig) oauth2.TokenSource {
	endpoint := google.Endpoint
	if cfg.OAuthTokenURL != "" {
		endpoint = oauth2.Endpoint{TokenURL: cfg.OAuthTokenURL}
	}
	oc := &oauth2.Config{
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		Endpoint:     endpoint,
		Scopes:       []string{"https://mail.google.com/"},
	}
	// Background: the source outlives any single request.
	return oc.TokenSource(context.Background(), &oauth2.Token{RefreshToken: cfg.OAuthRefreshToken})
}
