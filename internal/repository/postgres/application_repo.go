package postgres

import (
	"context"
	"database/sql"

	"socialevents/internal/domain"
)

type applicationRepository struct {
	DB *sql.DB
}

func NewApplicationRepository(db *sql.DB) domain.ApplicationRepository {
	return &applicationRepository{
		DB: db,
	}
}

func (r *applicationRepository) Create(ctx context.Context, userID, eventID string) (bool, error) {
	// Insert-if-absent: an existing row in any status is left untouched so a
	// decided application can never be reset to pending.
	query := `
		INSERT INTO event_applications (user_id, event_id, status)
		VALUES ($1, $2, 'pending')
		ON CONFLICT (user_id, event_id) DO NOTHING
	`
	result, err := r.DB.ExecContext(ctx, query, userID, eventID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *applicationRepository) Decide(ctx context.Context, userID, eventID string, status domain.ApplicationStatus) (bool, error) {
	query := `
		UPDATE event_applications SET status = $3
		WHERE user_id = $1 AND event_id = $2 AND status = 'pending'
	`
	result, err := r.DB.ExecContext(ctx, query, userID, eventID, status)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *applicationRepository) ListPendingByOwner(ctx context.Context, ownerID string) ([]*domain.Application, error) {
	query := `
		SELECT a.id, a.user_id, a.event_id, a.status, a.created_at
		FROM event_applications a
		JOIN events e ON e.id = a.event_id
		WHERE e.owner_id = $1 AND a.status = 'pending'
		ORDER BY a.created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	apps := make([]*domain.Application, 0)
	for rows.Next() {
		a := &domain.Application{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.EventID, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}
