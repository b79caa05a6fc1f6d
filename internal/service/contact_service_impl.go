package service

import (
	"context"
	"log/slog"

	"github.com/58nights/backend/internal/model"
	"github.com/58nights/backend/internal/notify"
	"github.com/58nights/backend/internal/repository"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo     repository.SubmissionRepository // nil: no backup log
	notifier notify.Notifier
}

// NewContactService creates a ContactService. repo may be nil, in which
// case submissions are only relayed.
func NewContactService(repo repository.SubmissionRepository, notifier notify.Notifier) ContactService {
	return &contactServiceImpl{repo: repo, notifier: notifier}
}

// Submit persists first, then notifies. A persistence failure is logged and
// never prevents the notification.
func (s *contactServiceImpl) Submit(ctx context.Context, sub *model.Submission) error {
	if s.repo != nil {
		if err := s.repo.Append(ctx, sub); err != nil {
			slog.ErrorContext(ctx, "failed to save submission locally",
				"email", sub.Email,
				"error", err,
			)
		}
	}

	if err := s.notifier.Send(ctx, sub); err != nil {
		slog.ErrorContext(ctx, "email error",
			"email", sub.Email,
			"backup", s.repo != nil,
			"error", err,
		)
		return err
	}
	return nil
}

func (s *contactServiceImpl) List(ctx context.Context) ([]*model.Submission, error) {
	if s.repo == nil {
		return []*model.Submission{}, nil
	}
	return s.repo.List(ctx)
}

func (s *contactServiceImpl) HasBackup() bool {
	return s.repo != nil
}
