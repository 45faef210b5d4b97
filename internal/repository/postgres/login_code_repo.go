package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"socialevents/internal/domain"
)

type loginCodeRepository struct {
	DB *sql.DB
}

// NewLoginCodeRepository returns a domain.LoginCodeRepository implemented with Postgres.
func NewLoginCodeRepository(db *sql.DB) domain.LoginCodeRepository {
	return &loginCodeRepository{DB: db}
}

func (r *loginCodeRepository) Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO login_codes (email, code_hash, expires_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.DB.ExecContext(ctx, query, email, codeHash, expiresAt); err != nil {
		return fmt.Errorf("failed to store login code: %w", err)
	}
	return nil
}

// Consume deletes the matching unexpired code in one statement, so a code can
// be redeemed at most once even when two verify calls race.
func (r *loginCodeRepository) Consume(ctx context.Context, email, codeHash string) (consumed bool, err error) {
	query := `
		DELETE FROM login_codes
		WHERE email = $1 AND code_hash = $2 AND expires_at > NOW()
	`
	res, err := r.DB.ExecContext(ctx, query, email, codeHash)
	if err != nil {
		return false, fmt.Errorf("failed to consume login code: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
