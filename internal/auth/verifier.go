package auth

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidCredentials covers both a wrong password and an unknown
// username. Callers must never reveal which one occurred.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUnknownUser is returned by CredentialStore implementations when no
// row matches the username. The verifier folds it into
// ErrInvalidCredentials after burning a dummy hash comparison.
var ErrUnknownUser = errors.New("unknown user")

// StoredCredentials is a row from the users table.
type StoredCredentials struct {
	UserID       string
	PasswordHash string
}

// CredentialStore looks up stored credentials by username.
type CredentialStore interface {
	// CredentialsByUsername returns ErrUnknownUser when the username
	// does not exist.
	CredentialsByUsername(ctx context.Context, username string) (StoredCredentials, error)
}

// dummyPHC is a well-formed argon2id hash of a throwaway password. When a
// username does not exist we still verify the candidate against it, so the
// response latency matches the wrong-password case and usernames cannot be
// enumerated by timing.
const dummyPHC = "$argon2id$v=19$m=15000,t=2,p=1$" +
	"gZiV/M1gPc22ElAH/Jh1Hw$" +
	"CWOrkoo7oJBQ/iyh7uJ0LO2aLEfrHwTWllSAxT0zRno"

// Verifier validates username/password pairs against stored argon2id
// hashes. Safe for concurrent use.
type Verifier struct {
	store CredentialStore
}

// NewVerifier creates a credential verifier backed by the given store.
func NewVerifier(store CredentialStore) *Verifier {
	return &Verifier{store: store}
}

// ValidateCredentials returns the user id on success. Wrong password and
// unknown username both return ErrInvalidCredentials; any other error is
// an operational fault (malformed stored hash, query failure).
func (v *Verifier) ValidateCredentials(ctx context.Context, creds Credentials) (string, error) {
	userID := ""
	expectedPHC := dummyPHC

	stored, err := v.store.CredentialsByUsername(ctx, creds.Username)
	switch {
	case err == nil:
		userID = stored.UserID
		expectedPHC = stored.PasswordHash
	case errors.Is(err, ErrUnknownUser):
		// Keep the dummy hash so the comparison below still runs.
	default:
		return "", fmt.Errorf("query stored credentials: %w", err)
	}

	if err := VerifyPassword(creds.Password, expectedPHC); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if userID == "" {
		return "", ErrInvalidCredentials
	}
	return userID, nil
}
