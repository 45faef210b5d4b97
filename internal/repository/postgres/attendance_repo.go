package postgres

import (
	"context"
	"database/sql"

	"socialevents/internal/domain"
)

type attendanceRepository struct {
	DB *sql.DB
}

func NewAttendanceRepository(db *sql.DB) domain.AttendanceRepository {
	return &attendanceRepository{
		DB: db,
	}
}

func (r *attendanceRepository) Add(ctx context.Context, userID, eventID string) (bool, error) {
	query := `
		INSERT INTO event_attendees (user_id, event_id)
		VALUES ($1, $2)
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

func (r *attendanceRepository) ListForEvent(ctx context.Context, eventID string) ([]*domain.UserSummary, error) {
	query := `
		SELECT u.id, u.name, u.avatar
		FROM event_attendees a
		JOIN users u ON u.id = a.user_id
		WHERE a.event_id = $1
		ORDER BY a.created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	attendees := make([]*domain.UserSummary, 0)
	for rows.Next() {
		u := &domain.UserSummary{}
		var avatar sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &avatar); err != nil {
			return nil, err
		}
		if avatar.Valid {
			u.Avatar = &avatar.String
		}
		attendees = append(attendees, u)
	}
	return attendees, rows.Err()
}
