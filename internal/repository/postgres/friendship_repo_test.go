package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"socialevents/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestFriendshipRepository_AreFriends(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		rows *sqlmock.Rows
		want bool
	}{
		{name: "accepted pair", rows: sqlmock.NewRows([]string{"exists"}).AddRow(true), want: true},
		{name: "no accepted row", rows: sqlmock.NewRows([]string{"exists"}).AddRow(false), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(`SELECT EXISTS`).
				WithArgs("user-a", "user-b").
				WillReturnRows(tt.rows)

			repo := NewFriendshipRepository(db)
			got, err := repo.AreFriends(ctx, "user-a", "user-b")
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFriendshipRepository_FriendIDsOf(t *testing.T) {
	ctx := context.Background()

	t.Run("peers from both directions", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id"}).AddRow("friend-1").AddRow("friend-2")
		mock.ExpectQuery(`FROM friendships`).
			WithArgs("user-1").
			WillReturnRows(rows)

		repo := NewFriendshipRepository(db)
		got, err := repo.FriendIDsOf(ctx, "user-1")
		require.NoError(t, err)
		require.Equal(t, []string{"friend-1", "friend-2"}, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no friends yields empty slice", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM friendships`).
			WithArgs("loner").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		repo := NewFriendshipRepository(db)
		got, err := repo.FriendIDsOf(ctx, "loner")
		require.NoError(t, err)
		require.Empty(t, got)
		require.NotNil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFriendshipRepository_CreateRequest(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		rowsChanged int64
		wantCreated bool
	}{
		{name: "fresh pair creates pending row", rowsChanged: 1, wantCreated: true},
		{name: "existing row in any state is a no-op", rowsChanged: 0, wantCreated: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(`INSERT INTO friendships`).
				WithArgs("requester-1", "recipient-1").
				WillReturnResult(sqlmock.NewResult(0, tt.rowsChanged))

			repo := NewFriendshipRepository(db)
			created, err := repo.CreateRequest(ctx, "requester-1", "recipient-1")
			require.NoError(t, err)
			require.Equal(t, tt.wantCreated, created)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("racing duplicate insert is a no-op", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO friendships`).
			WithArgs("requester-1", "recipient-1").
			WillReturnError(&pq.Error{Code: "23505"})

		repo := NewFriendshipRepository(db)
		created, err := repo.CreateRequest(ctx, "requester-1", "recipient-1")
		require.NoError(t, err)
		require.False(t, created)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFriendshipRepository_UpdatePending(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		rowsChanged int64
		wantUpdated bool
	}{
		{name: "pending row transitions", rowsChanged: 1, wantUpdated: true},
		{name: "no pending row in that direction", rowsChanged: 0, wantUpdated: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(`UPDATE friendships SET status = \$3`).
				WithArgs("requester-1", "recipient-1", domain.FriendshipAccepted).
				WillReturnResult(sqlmock.NewResult(0, tt.rowsChanged))

			repo := NewFriendshipRepository(db)
			updated, err := repo.UpdatePending(ctx, "requester-1", "recipient-1", domain.FriendshipAccepted)
			require.NoError(t, err)
			require.Equal(t, tt.wantUpdated, updated)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFriendshipRepository_GetByPair(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found in either direction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, requester_id, recipient_id, status, created_at`).
			WithArgs("user-a", "user-b").
			WillReturnRows(sqlmock.NewRows([]string{"id", "requester_id", "recipient_id", "status", "created_at"}).
				AddRow("f-1", "user-b", "user-a", "pending", createdAt))

		repo := NewFriendshipRepository(db)
		got, err := repo.GetByPair(ctx, "user-a", "user-b")
		require.NoError(t, err)
		require.Equal(t, "f-1", got.ID)
		require.Equal(t, domain.FriendshipPending, got.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, requester_id, recipient_id, status, created_at`).
			WithArgs("user-a", "stranger").
			WillReturnError(sql.ErrNoRows)

		repo := NewFriendshipRepository(db)
		got, err := repo.GetByPair(ctx, "user-a", "stranger")
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFriendshipRepository_ListPendingFor(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "avatar", "created_at"}).
		AddRow("user-2", "Bruno", nil, createdAt)
	mock.ExpectQuery(`JOIN users u ON u\.id = f\.requester_id`).
		WithArgs("user-1").
		WillReturnRows(rows)

	repo := NewFriendshipRepository(db)
	got, err := repo.ListPendingFor(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Bruno", got[0].Requester.Name)
	require.Nil(t, got[0].Requester.Avatar)
	require.NoError(t, mock.ExpectationsWereMet())
}
