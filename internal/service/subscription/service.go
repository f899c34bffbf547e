package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/email"
	"github.com/ignite/newsletter/internal/pkg/logger"
)

const confirmationSubject = "Welcome!"

// Service drives the subscriber lifecycle: pending on subscribe, confirmed
// once the emailed token comes back.
type Service struct {
	repo    Repository
	sender  email.Sender
	baseURL string
}

// NewService creates a subscription service. baseURL is the public origin
// used to build confirmation links, without a trailing slash.
func NewService(repo Repository, sender email.Sender, baseURL string) *Service {
	return &Service{repo: repo, sender: sender, baseURL: baseURL}
}

// Subscribe registers a new pending subscriber, or re-issues a confirmation
// token for an existing pending one. The confirmation email is sent before
// the transaction commits: if delivery fails, no database change survives
// and the caller can safely retry.
//
// Returns ErrAlreadySubscribed when the email is already confirmed.
func (s *Service) Subscribe(ctx context.Context, ns domain.NewSubscriber) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin subscribe transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Warn("subscribe rollback failed", "error", rbErr)
			}
		}
	}()

	state, err := tx.SubscriberStateByEmail(ctx, ns.Email.String())
	if err != nil {
		return fmt.Errorf("read subscriber state: %w", err)
	}

	token := domain.GenerateToken()

	switch state {
	case domain.StateConfirmed:
		return ErrAlreadySubscribed

	case domain.StateNonExisting:
		sub := &domain.Subscriber{
			ID:           uuid.NewString(),
			Email:        ns.Email.String(),
			Name:         ns.Name.String(),
			Status:       domain.StatusPending,
			SubscribedAt: time.Now().UTC(),
		}
		if err := tx.InsertSubscriber(ctx, sub); err != nil {
			if errors.Is(err, ErrAlreadySubscribed) {
				// Lost the insert race to a concurrent subscribe.
				return ErrAlreadySubscribed
			}
			return fmt.Errorf("insert subscriber: %w", err)
		}
		if err := tx.InsertToken(ctx, token.String(), sub.ID); err != nil {
			return fmt.Errorf("insert confirmation token: %w", err)
		}

	case domain.StatePending:
		if err := tx.ReplaceTokenByEmail(ctx, token.String(), ns.Email.String()); err != nil {
			return fmt.Errorf("replace confirmation token: %w", err)
		}
	}

	if err := s.sendConfirmation(ctx, ns, token); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit subscribe transaction: %w", err)
	}
	committed = true

	logger.Info("subscriber stored", "email", ns.Email.String(), "state", state.String())
	return nil
}

func (s *Service) sendConfirmation(ctx context.Context, ns domain.NewSubscriber, token domain.ConfirmationToken) error {
	link := fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s", s.baseURL, token.String())
	html, err := email.RenderConfirmationHTML(ns.Name.String(), link)
	if err != nil {
		return fmt.Errorf("render confirmation email: %w", err)
	}
	text := email.RenderConfirmationText(link)
	if err := s.sender.Send(ctx, ns.Email, confirmationSubject, html, text); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	return nil
}

// Confirm flips the subscriber owning rawToken to confirmed. A malformed
// token returns a domain.ValidationError; an unknown token returns
// ErrTokenNotFound. Confirming twice succeeds both times.
func (s *Service) Confirm(ctx context.Context, rawToken string) error {
	token, err := domain.ParseToken(rawToken)
	if err != nil {
		return err
	}
	subscriberID, err := s.repo.SubscriberIDByToken(ctx, token.String())
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return ErrTokenNotFound
		}
		return fmt.Errorf("look up confirmation token: %w", err)
	}
	if err := s.repo.ConfirmSubscriber(ctx, subscriberID); err != nil {
		return fmt.Errorf("confirm subscriber: %w", err)
	}
	logger.Info("subscriber confirmed", "subscriber_id", subscriberID)
	return nil
}
