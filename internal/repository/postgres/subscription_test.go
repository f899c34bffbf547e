package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/service/subscription"
)

func newMock(t *testing.T) (*SubscriptionRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSubscriptionRepo(db), mock
}

func TestSubscriberStateByEmail(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   domain.SubscriberState
	}{
		{"pending", "pending_confirmation", domain.StatePending},
		{"confirmed", "confirmed", domain.StateConfirmed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newMock(t)
			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM subscriptions WHERE email = $1 FOR UPDATE")).
				WithArgs("a@b.com").
				WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(tc.status))

			tx, err := repo.Begin(context.Background())
			require.NoError(t, err)
			state, err := tx.SubscriberStateByEmail(context.Background(), "a@b.com")
			require.NoError(t, err)
			assert.Equal(t, tc.want, state)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSubscriberStateByEmailNoRow(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM subscriptions WHERE email = $1 FOR UPDATE")).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"status"}))

	tx, err := repo.Begin(context.Background())
	require.NoError(t, err)
	state, err := tx.SubscriberStateByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, domain.StateNonExisting, state)
}

func TestSubscriberStateByEmailCorruptStatus(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM subscriptions WHERE email = $1 FOR UPDATE")).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("unsubscribed"))

	tx, err := repo.Begin(context.Background())
	require.NoError(t, err)
	_, err = tx.SubscriberStateByEmail(context.Background(), "a@b.com")
	assert.ErrorContains(t, err, "corrupt subscriber status")
}

func TestInsertSubscriberUniqueViolation(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subscriptions")).
		WillReturnError(&pq.Error{Code: "23505"})

	tx, err := repo.Begin(context.Background())
	require.NoError(t, err)
	err = tx.InsertSubscriber(context.Background(), &domain.Subscriber{
		ID: "id-1", Email: "a@b.com", Name: "A",
		Status: domain.StatusPending, SubscribedAt: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, subscription.ErrAlreadySubscribed)
}

func TestReplaceTokenByEmail(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subscription_tokens")).
		WithArgs("a@b.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subscription_tokens")).
		WithArgs("tok", "a@b.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := repo.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.ReplaceTokenByEmail(context.Background(), "tok", "a@b.com"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceTokenByEmailRowCountViolations(t *testing.T) {
	t.Run("delete affected zero rows", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subscription_tokens")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := repo.Begin(context.Background())
		require.NoError(t, err)
		err = tx.ReplaceTokenByEmail(context.Background(), "tok", "a@b.com")
		assert.ErrorIs(t, err, subscription.ErrTokenInvariant)
	})

	t.Run("insert matched no subscriber", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subscription_tokens")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subscription_tokens")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := repo.Begin(context.Background())
		require.NoError(t, err)
		err = tx.ReplaceTokenByEmail(context.Background(), "tok", "a@b.com")
		assert.ErrorIs(t, err, subscription.ErrTokenInvariant)
	})
}

func TestSubscriberIDByToken(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT subscriber_id FROM subscription_tokens WHERE subscription_token = $1")).
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"subscriber_id"}).AddRow("id-1"))

	id, err := repo.SubscriberIDByToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)
}

func TestSubscriberIDByTokenNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT subscriber_id FROM subscription_tokens WHERE subscription_token = $1")).
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"subscriber_id"}))

	_, err := repo.SubscriberIDByToken(context.Background(), "tok")
	assert.ErrorIs(t, err, subscription.ErrTokenNotFound)
}

func TestConfirmSubscriber(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE subscriptions SET status = $1 WHERE id = $2")).
		WithArgs(string(domain.StatusConfirmed), "id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ConfirmSubscriber(context.Background(), "id-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
