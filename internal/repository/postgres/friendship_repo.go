package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"socialevents/internal/domain"
)

type friendshipRepository struct {
	DB *sql.DB
}

func NewFriendshipRepository(db *sql.DB) domain.FriendshipRepository {
	return &friendshipRepository{
		DB: db,
	}
}

func (r *friendshipRepository) AreFriends(ctx context.Context, a, b string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM friendships
			WHERE status = 'accepted'
			  AND ((requester_id = $1 AND recipient_id = $2) OR (requester_id = $2 AND recipient_id = $1))
		)
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, a, b).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *friendshipRepository) FriendIDsOf(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT CASE WHEN requester_id = $1 THEN recipient_id ELSE requester_id END
		FROM friendships
		WHERE status = 'accepted' AND (requester_id = $1 OR recipient_id = $1)
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *friendshipRepository) CreateRequest(ctx context.Context, requesterID, recipientID string) (bool, error) {
	// Insert only when no row exists for the unordered pair, in any state or
	// direction. Zero rows affected means the request was a no-op. Two racing
	// requests can both pass the NOT EXISTS check; the unique pair index then
	// rejects the loser, which is the same no-op.
	query := `
		INSERT INTO friendships (requester_id, recipient_id, status)
		SELECT $1, $2, 'pending'
		WHERE NOT EXISTS (
			SELECT 1 FROM friendships
			WHERE (requester_id = $1 AND recipient_id = $2) OR (requester_id = $2 AND recipient_id = $1)
		)
	`
	result, err := r.DB.ExecContext(ctx, query, requesterID, recipientID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return false, nil
		}
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *friendshipRepository) UpdatePending(ctx context.Context, requesterID, recipientID string, status domain.FriendshipStatus) (bool, error) {
	query := `
		UPDATE friendships SET status = $3
		WHERE requester_id = $1 AND recipient_id = $2 AND status = 'pending'
	`
	result, err := r.DB.ExecContext(ctx, query, requesterID, recipientID, status)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *friendshipRepository) GetByPair(ctx context.Context, a, b string) (*domain.Friendship, error) {
	query := `
		SELECT id, requester_id, recipient_id, status, created_at
		FROM friendships
		WHERE (requester_id = $1 AND recipient_id = $2) OR (requester_id = $2 AND recipient_id = $1)
	`
	f := &domain.Friendship{}
	err := r.DB.QueryRowContext(ctx, query, a, b).Scan(
		&f.ID, &f.RequesterID, &f.RecipientID, &f.Status, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (r *friendshipRepository) ListPendingFor(ctx context.Context, recipientID string) ([]*domain.PendingFriendRequest, error) {
	query := `
		SELECT u.id, u.name, u.avatar, f.created_at
		FROM friendships f
		JOIN users u ON u.id = f.requester_id
		WHERE f.recipient_id = $1 AND f.status = 'pending'
		ORDER BY f.created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reqs := make([]*domain.PendingFriendRequest, 0)
	for rows.Next() {
		req := &domain.PendingFriendRequest{}
		var avatar sql.NullString
		if err := rows.Scan(&req.Requester.ID, &req.Requester.Name, &avatar, &req.CreatedAt); err != nil {
			return nil, err
		}
		if avatar.Valid {
			req.Requester.Avatar = &avatar.String
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}
