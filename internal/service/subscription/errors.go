package subscription

import "errors"

// Sentinel errors for the subscription service layer.
var (
	// ErrAlreadySubscribed reports a business-rule conflict: the email is
	// already confirmed, or a concurrent subscribe won the insert race.
	ErrAlreadySubscribed = errors.New("email is already subscribed")

	// ErrTokenNotFound reports an unknown confirmation token.
	ErrTokenNotFound = errors.New("subscription token not found")

	// ErrTokenInvariant reports that a token delete or insert touched an
	// unexpected number of rows. The at-most-one-live-token invariant is
	// broken and the transaction must not commit.
	ErrTokenInvariant = errors.New("token row count invariant violated")
)
