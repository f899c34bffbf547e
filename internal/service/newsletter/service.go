package newsletter

import (
	"context"
	"fmt"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/email"
	"github.com/ignite/newsletter/internal/pkg/logger"
)

// Repository reads the recipient list for a publish run.
type Repository interface {
	// ConfirmedEmails returns the stored email strings of every confirmed
	// subscriber, unvalidated. Rows that no longer parse are handled by
	// the service, not the query.
	ConfirmedEmails(ctx context.Context) ([]string, error)
}

// Issue is one newsletter edition to deliver.
type Issue struct {
	Title   string       `json:"title"`
	Content IssueContent `json:"content"`
}

// IssueContent carries both renderings of the issue body.
type IssueContent struct {
	HTML string `json:"html"`
	Text string `json:"text"`
}

// Validate checks that every part of the issue is present.
func (i Issue) Validate() error {
	if i.Title == "" {
		return fmt.Errorf("title must not be empty")
	}
	if i.Content.HTML == "" {
		return fmt.Errorf("content.html must not be empty")
	}
	if i.Content.Text == "" {
		return fmt.Errorf("content.text must not be empty")
	}
	return nil
}

// Service broadcasts issues to the confirmed subscriber list.
type Service struct {
	repo   Repository
	sender email.Sender
}

// NewService creates a newsletter service.
func NewService(repo Repository, sender email.Sender) *Service {
	return &Service{repo: repo, sender: sender}
}

// Publish sends the issue to every confirmed subscriber, one at a time in
// list order. Stored emails that no longer pass validation are skipped with
// a warning; validation rules can tighten between signup and publish.
// The first delivery failure aborts the run, so a retried publish can
// resend to earlier recipients.
func (s *Service) Publish(ctx context.Context, issue Issue) error {
	recipients, err := s.repo.ConfirmedEmails(ctx)
	if err != nil {
		return fmt.Errorf("fetch confirmed subscribers: %w", err)
	}

	delivered := 0
	for _, raw := range recipients {
		to, err := domain.ParseEmail(raw)
		if err != nil {
			logger.Warn("skipping confirmed subscriber with invalid stored email",
				"email", raw, "error", err)
			continue
		}
		if err := s.sender.Send(ctx, to, issue.Title, issue.Content.HTML, issue.Content.Text); err != nil {
			return fmt.Errorf("deliver issue to %s: %w", logger.RedactEmail(raw), err)
		}
		delivered++
	}

	logger.Info("newsletter issue published", "title", issue.Title, "delivered", delivered)
	return nil
}
