package repository

import (
	"context"

	"github.com/58nights/backend/internal/model"
)

// SubmissionRepository is the durable log of contact form submissions.
// It is defined here (in repository) to avoid an import cycle with service.
type SubmissionRepository interface {
	// Append assigns sub.Timestamp and adds sub to the end of the log.
	Append(ctx context.Context, sub *model.Submission) error

	// List returns the whole log in arrival order. An absent log yields an
	// empty, non-nil slice.
	List(ctx context.Context) ([]*model.Submission, error)
}
