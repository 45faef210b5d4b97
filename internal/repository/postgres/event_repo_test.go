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

var enrichedCols = []string{
	"id", "owner_id", "title", "description", "location", "date", "image_ref",
	"audience", "max_attendees", "interested_count", "created_at",
	"name", "avatar", "attendee_count", "comment_count",
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			event: &domain.Event{
				OwnerID:     "user-uuid-1",
				Title:       "Rooftop BBQ",
				Description: "Bring your own skewers",
				Location:    "Lisbon",
				Date:        "2025-07-12",
				Audience:    domain.AudiencePublic,
				CreatedAt:   createdAt,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(owner_id, title, description, location, date, image_ref, audience, max_attendees, created_at\)`).
					WithArgs("user-uuid-1", "Rooftop BBQ", "Bring your own skewers", "Lisbon", "2025-07-12",
						sql.NullString{}, domain.AudiencePublic, sql.NullInt64{}, createdAt).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-1"))
			},
			wantID:  "ev-uuid-1",
			wantErr: false,
		},
		{
			name: "db error",
			event: &domain.Event{
				OwnerID:     "user-1",
				Title:       "Picnic",
				Description: "d",
				Location:    "l",
				Date:        "2025-08-01",
				Audience:    domain.AudienceFriends,
				CreatedAt:   createdAt,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantID:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, owner_id, title, description, location, date, image_ref, audience, max_attendees, interested_count, created_at`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "description", "location", "date", "image_ref", "audience", "max_attendees", "interested_count", "created_at"}).
				AddRow("ev-1", "user-1", "Rooftop BBQ", "desc", "Lisbon", "2025-07-12", nil, "friends", 20, 3, createdAt))

		repo := NewEventRepository(db)
		got, err := repo.GetByID(ctx, "ev-1")
		require.NoError(t, err)
		require.Equal(t, "ev-1", got.ID)
		require.Equal(t, domain.AudienceFriends, got.Audience)
		require.Nil(t, got.ImageRef)
		require.NotNil(t, got.MaxAttendees)
		require.Equal(t, 20, *got.MaxAttendees)
		require.Equal(t, 3, got.InterestedCount)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, owner_id, title, description`).
			WithArgs("ev-missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		got, err := repo.GetByID(ctx, "ev-missing")
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_ListVisible(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("anonymous scope selects public only", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(enrichedCols).
			AddRow("ev-1", "user-1", "Rooftop BBQ", "desc", "Lisbon", "2025-07-12", nil, "public", nil, 2, createdAt, "Ana", nil, 5, 1)
		mock.ExpectQuery(`e\.audience = 'public'`).
			WillReturnRows(rows)

		repo := NewEventRepository(db)
		got, err := repo.ListVisible(ctx, domain.EventFilter{Scope: domain.ScopeAnonymous})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "ev-1", got[0].ID)
		require.Equal(t, "Ana", got[0].Organizer.Name)
		require.Equal(t, "user-1", got[0].Organizer.ID)
		require.Equal(t, 5, got[0].AttendeeCount)
		require.Equal(t, 1, got[0].CommentCount)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("viewer scope binds viewer and friend set", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`e\.owner_id = ANY\(\$2::uuid\[\]\)`).
			WithArgs("viewer-1", pq.Array([]string{"friend-1", "friend-2"})).
			WillReturnRows(sqlmock.NewRows(enrichedCols))

		repo := NewEventRepository(db)
		got, err := repo.ListVisible(ctx, domain.EventFilter{
			Scope:     domain.ScopeViewer,
			ViewerID:  "viewer-1",
			FriendIDs: []string{"friend-1", "friend-2"},
		})
		require.NoError(t, err)
		require.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("search travels as a single escaped bind argument", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`e\.title ILIKE \$2`).
			WithArgs("viewer-1", pq.Array([]string{}), `%100\% vegan%`).
			WillReturnRows(sqlmock.NewRows(enrichedCols))

		repo := NewEventRepository(db)
		_, err = repo.ListVisible(ctx, domain.EventFilter{
			Scope:     domain.ScopeFriends,
			ViewerID:  "viewer-1",
			FriendIDs: []string{},
			Search:    "100% vegan",
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_ListByOwnerID(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success multiple", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(enrichedCols).
			AddRow("ev-2", "user-1", "Later", "d", "l", "2025-08-01", nil, "public", nil, 0, createdAt, "Ana", nil, 0, 0).
			AddRow("ev-1", "user-1", "Sooner", "d", "l", "2025-07-01", nil, "public", nil, 0, createdAt, "Ana", nil, 0, 0)
		mock.ExpectQuery(`WHERE e\.owner_id = \$1`).
			WithArgs("user-1").
			WillReturnRows(rows)

		repo := NewEventRepository(db)
		got, err := repo.ListByOwnerID(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "ev-2", got[0].ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success empty", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`WHERE e\.owner_id = \$1`).
			WithArgs("user-none").
			WillReturnRows(sqlmock.NewRows(enrichedCols))

		repo := NewEventRepository(db)
		got, err := repo.ListByOwnerID(ctx, "user-none")
		require.NoError(t, err)
		require.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_GetEnrichedByID(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`WHERE e\.id = \$1`).
			WithArgs("ev-missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		got, err := repo.GetEnrichedByID(ctx, "ev-missing")
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		mock       func(mock sqlmock.Sqlmock)
		wantErr    bool
		isNotFound bool
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-missing").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr:    true,
			isNotFound: true,
		},
		{
			name: "db error",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Delete(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.isNotFound {
					require.True(t, errors.Is(err, domain.ErrNotFound))
				}
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
