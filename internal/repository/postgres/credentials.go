package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ignite/newsletter/internal/auth"
)

// CredentialRepo implements auth.CredentialStore against PostgreSQL.
type CredentialRepo struct{ db *sql.DB }

// NewCredentialRepo creates a Postgres-backed credential store.
func NewCredentialRepo(db *sql.DB) *CredentialRepo { return &CredentialRepo{db: db} }

func (r *CredentialRepo) CredentialsByUsername(ctx context.Context, username string) (auth.StoredCredentials, error) {
	var stored auth.StoredCredentials
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, password_hash FROM users WHERE username = $1
	`, username).Scan(&stored.UserID, &stored.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.StoredCredentials{}, auth.ErrUnknownUser
	}
	if err != nil {
		return auth.StoredCredentials{}, fmt.Errorf("query user credentials: %w", err)
	}
	return stored, nil
}
