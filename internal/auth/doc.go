// Package auth implements credential verification for the authenticated
// endpoints (newsletter publishing and login) and the Basic-Auth header
// decoder used by the publish endpoint.
//
// Stored password hashes use the argon2id PHC string format, so algorithm
// parameters and salt travel with the hash and no separate salt column is
// needed. Unknown usernames are verified against a fixed dummy hash so the
// two failure modes are indistinguishable by timing.
package auth
