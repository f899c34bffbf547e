package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/service/subscription"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// SubscriptionRepo implements subscription.Repository against PostgreSQL.
type SubscriptionRepo struct{ db *sql.DB }

// NewSubscriptionRepo creates a Postgres-backed subscription repository.
func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

func (r *SubscriptionRepo) Begin(ctx context.Context) (subscription.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &subscriptionTx{tx: tx}, nil
}

func (r *SubscriptionRepo) SubscriberIDByToken(ctx context.Context, token string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
		SELECT subscriber_id FROM subscription_tokens WHERE subscription_token = $1
	`, token).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", subscription.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup token: %w", err)
	}
	return id, nil
}

func (r *SubscriptionRepo) ConfirmSubscriber(ctx context.Context, subscriberID string) error {
	// No RowsAffected check: re-running the update on an already confirmed
	// subscriber is the idempotent path, and id comes from a token lookup
	// so the row exists.
	_, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions SET status = $1 WHERE id = $2
	`, domain.StatusConfirmed, subscriberID)
	if err != nil {
		return fmt.Errorf("confirm subscriber: %w", err)
	}
	return nil
}

// subscriptionTx implements subscription.Tx on a live *sql.Tx.
type subscriptionTx struct{ tx *sql.Tx }

func (t *subscriptionTx) SubscriberStateByEmail(ctx context.Context, email string) (domain.SubscriberState, error) {
	// FOR UPDATE serializes concurrent subscribes for the same existing
	// email. For a brand-new email there is no row to lock; the unique
	// index on email catches that race at insert time.
	var status string
	err := t.tx.QueryRowContext(ctx, `
		SELECT status FROM subscriptions WHERE email = $1 FOR UPDATE
	`, email).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StateNonExisting, nil
	}
	if err != nil {
		return domain.StateNonExisting, fmt.Errorf("read subscriber status: %w", err)
	}
	state, ok := domain.StateFromStatus(status)
	if !ok {
		return domain.StateNonExisting, fmt.Errorf("corrupt subscriber status %q for stored email", status)
	}
	return state, nil
}

func (t *subscriptionTx) InsertSubscriber(ctx context.Context, sub *domain.Subscriber) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO subscriptions (id, email, name, subscribed_at, status)
		VALUES ($1, $2, $3, $4, $5)
	`, sub.ID, sub.Email, sub.Name, sub.SubscribedAt, sub.Status)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return subscription.ErrAlreadySubscribed
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}

func (t *subscriptionTx) InsertToken(ctx context.Context, token, subscriberID string) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO subscription_tokens (subscription_token, subscriber_id)
		VALUES ($1, $2)
	`, token, subscriberID)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (t *subscriptionTx) ReplaceTokenByEmail(ctx context.Context, token, email string) error {
	res, err := t.tx.ExecContext(ctx, `
		DELETE FROM subscription_tokens
		WHERE subscriber_id = (SELECT id FROM subscriptions WHERE email = $1)
	`, email)
	if err != nil {
		return fmt.Errorf("delete old token: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete old token: %w", err)
	} else if n != 1 {
		return fmt.Errorf("%w: deleted %d token rows, want 1", subscription.ErrTokenInvariant, n)
	}

	res, err = t.tx.ExecContext(ctx, `
		INSERT INTO subscription_tokens (subscription_token, subscriber_id)
		SELECT $1, id FROM subscriptions WHERE email = $2
	`, token, email)
	if err != nil {
		return fmt.Errorf("insert replacement token: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("insert replacement token: %w", err)
	} else if n != 1 {
		return fmt.Errorf("%w: inserted %d token rows, want 1", subscription.ErrTokenInvariant, n)
	}
	return nil
}

func (t *subscriptionTx) Commit() error   { return t.tx.Commit() }
func (t *subscriptionTx) Rollback() error { return t.tx.Rollback() }
