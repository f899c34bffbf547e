// Package subscription implements the subscriber lifecycle state machine.
//
// The service layer owns all writes to the subscriptions and
// subscription_tokens tables, always inside a single transaction per
// request. It depends on repository interfaces defined in this package and
// should never import from api/.
//
// Repository implementations live in repository/postgres/.
package subscription
