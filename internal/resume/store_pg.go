package resume

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PGStore struct {
	DB *sql.DB
}

func (s *PGStore) Create(ctx context.Context, rec TokenRecord) error {
	const query = `
INSERT INTO resume_tokens (token, draft_token, email, used, expires_at, created_at)
VALUES ($1, $2, $3, false, $4, now())`
	_, err := s.DB.ExecContext(ctx, query, rec.Token, rec.DraftToken, rec.Email, rec.ExpiresAt)
	return err
}

// Consume relies on a single conditional UPDATE as the compare-and-set:
// only one of any number of concurrent callers can flip used to true.
func (s *PGStore) Consume(ctx context.Context, token string, now time.Time) (TokenRecord, error) {
	const update = `
UPDATE resume_tokens
SET used = true
WHERE token = $1 AND used = false AND expires_at > $2
RETURNING token, draft_token, email, expires_at, created_at`

	var rec TokenRecord
	err := s.DB.QueryRowContext(ctx, update, token, now).Scan(
		&rec.Token,
		&rec.DraftToken,
		&rec.Email,
		&rec.ExpiresAt,
		&rec.CreatedAt,
	)
	if err == nil {
		rec.Used = true
		return rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return TokenRecord{}, err
	}

	// The CAS missed: decide between unknown token and one that is used
	// or expired. Losing this follow-up race is harmless, the UPDATE
	// above already arbitrated access.
	const probe = `SELECT used, expires_at FROM resume_tokens WHERE token = $1 LIMIT 1`
	var used bool
	var expiresAt time.Time
	err = s.DB.QueryRowContext(ctx, probe, token).Scan(&used, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return TokenRecord{}, ErrTokenNotFound
	}
	if err != nil {
		return TokenRecord{}, err
	}
	return TokenRecord{}, ErrTokenGone
}

func (s *PGStore) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM resume_tokens WHERE expires_at < $1`
	res, err := s.DB.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

var _ Store = (*PGStore)(nil)
