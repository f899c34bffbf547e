package subscription

import (
	"context"

	"github.com/ignite/newsletter/internal/domain"
)

// Repository defines the data access contract for the subscriber store.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Begin opens a transaction. Every subscribe request runs inside
	// exactly one transaction obtained here.
	Begin(ctx context.Context) (Tx, error)

	// SubscriberIDByToken resolves a token to its owning subscriber id.
	// Returns ErrTokenNotFound when no row matches.
	SubscriberIDByToken(ctx context.Context, token string) (string, error)

	// ConfirmSubscriber flips a pending subscriber to confirmed. It is a
	// no-op success when the subscriber is already confirmed, so duplicate
	// confirmation clicks stay idempotent.
	ConfirmSubscriber(ctx context.Context, subscriberID string) error
}

// Tx is a single subscribe transaction. The state read must lock the
// subscriber row (or its absence) so concurrent subscribes for the same
// email serialize; the unique index on email is the backstop.
type Tx interface {
	// SubscriberStateByEmail reads the current lifecycle state for an email.
	SubscriberStateByEmail(ctx context.Context, email string) (domain.SubscriberState, error)

	// InsertSubscriber inserts a new pending subscriber row. A lost race
	// against a concurrent insert surfaces as ErrAlreadySubscribed.
	InsertSubscriber(ctx context.Context, sub *domain.Subscriber) error

	// InsertToken stores a token for a subscriber id.
	InsertToken(ctx context.Context, token, subscriberID string) error

	// ReplaceTokenByEmail deletes the live token for the email and inserts
	// the new one. Each statement must affect exactly one row; anything
	// else returns ErrTokenInvariant.
	ReplaceTokenByEmail(ctx context.Context, token, email string) error

	Commit() error
	Rollback() error
}
