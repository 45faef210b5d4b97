package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"socialevents/internal/domain"
)

type interestRepository struct {
	DB *sql.DB
}

func NewInterestRepository(db *sql.DB) domain.InterestRepository {
	return &interestRepository{
		DB: db,
	}
}

// Mark inserts the mark and increments the cached counter in one transaction.
// The ON CONFLICT no-op makes repeated calls idempotent: the counter moves only
// when a mark row was actually inserted.
func (r *interestRepository) Mark(ctx context.Context, userID, eventID string) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO event_interests (user_id, event_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, event_id) DO NOTHING
	`, userID, eventID)
	if err != nil {
		return false, err
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if inserted == 0 {
		// Already marked; nothing to count.
		return false, tx.Commit()
	}

	result, err = tx.ExecContext(ctx, `
		UPDATE events SET interested_count = interested_count + 1 WHERE id = $1
	`, eventID)
	if err != nil {
		return false, err
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if updated == 0 {
		return false, domain.ErrNotFound
	}
	return true, tx.Commit()
}

func (r *interestRepository) Unmark(ctx context.Context, userID, eventID string) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		DELETE FROM event_interests WHERE user_id = $1 AND event_id = $2
	`, userID, eventID)
	if err != nil {
		return false, err
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if removed == 0 {
		// No mark to remove; the counter must not move.
		return false, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE events SET interested_count = interested_count - 1 WHERE id = $1 AND interested_count > 0
	`, eventID); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (r *interestRepository) IsInterested(ctx context.Context, userID, eventID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM event_interests WHERE user_id = $1 AND event_id = $2
		)
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, userID, eventID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *interestRepository) CountForEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM event_interests WHERE event_id = $1`
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
