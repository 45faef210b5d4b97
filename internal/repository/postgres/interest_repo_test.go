package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"socialevents/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestInterestRepository_Mark(t *testing.T) {
	ctx := context.Background()

	t.Run("first mark inserts and increments in one transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO event_interests`).
			WithArgs("user-1", "ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE events SET interested_count = interested_count \+ 1`).
			WithArgs("ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewInterestRepository(db)
		marked, err := repo.Mark(ctx, "user-1", "ev-1")
		require.NoError(t, err)
		require.True(t, marked)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeated mark leaves the counter alone", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO event_interests`).
			WithArgs("user-1", "ev-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		repo := NewInterestRepository(db)
		marked, err := repo.Mark(ctx, "user-1", "ev-1")
		require.NoError(t, err)
		require.False(t, marked)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing event rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO event_interests`).
			WithArgs("user-1", "ev-missing").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE events SET interested_count = interested_count \+ 1`).
			WithArgs("ev-missing").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		repo := NewInterestRepository(db)
		marked, err := repo.Mark(ctx, "user-1", "ev-missing")
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.False(t, marked)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO event_interests`).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		repo := NewInterestRepository(db)
		_, err = repo.Mark(ctx, "user-1", "ev-1")
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInterestRepository_Unmark(t *testing.T) {
	ctx := context.Background()

	t.Run("existing mark deletes and decrements", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM event_interests`).
			WithArgs("user-1", "ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE events SET interested_count = interested_count - 1`).
			WithArgs("ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewInterestRepository(db)
		removed, err := repo.Unmark(ctx, "user-1", "ev-1")
		require.NoError(t, err)
		require.True(t, removed)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent mark is a no-op", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM event_interests`).
			WithArgs("user-1", "ev-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		repo := NewInterestRepository(db)
		removed, err := repo.Unmark(ctx, "user-1", "ev-1")
		require.NoError(t, err)
		require.False(t, removed)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInterestRepository_IsInterested(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("user-1", "ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewInterestRepository(db)
	got, err := repo.IsInterested(ctx, "user-1", "ev-1")
	require.NoError(t, err)
	require.True(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInterestRepository_CountForEvent(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM event_interests`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	repo := NewInterestRepository(db)
	got, err := repo.CountForEvent(ctx, "ev-1")
	require.NoError(t, err)
	require.Equal(t, 7, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
