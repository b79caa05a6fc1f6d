package service

import (
	"context"

	"github.com/58nights/backend/internal/model"
)

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit records sub in the backup log (best-effort, when one is
	// configured) and sends the notification. Only notification failures
	// are returned.
	Submit(ctx context.Context, sub *model.Submission) error

	// List returns the backup log. Without a backup log it returns an empty slice.
	List(ctx context.Context) ([]*model.Submission, error)

	// HasBackup reports whether submissions are kept in a backup log.
	HasBackup() bool
}
