package drafts

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, draft Draft) error {
	const query = `
INSERT INTO drafts (token, storage_key, step, status, email, last_activity_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now(), now())
ON CONFLICT (token) DO UPDATE SET
  storage_key = EXCLUDED.storage_key,
  step = EXCLUDED.step,
  email = COALESCE(NULLIF(EXCLUDED.email, ''), drafts.email),
  last_activity_at = now(),
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		draft.Token,
		nullableString(draft.StorageKey),
		draft.Step,
		string(draft.Status),
		nullableString(draft.Email),
	)
	return err
}

func (r *PGRepo) GetByToken(ctx context.Context, token string) (Draft, error) {
	const query = `
SELECT token, storage_key, step, status, email, last_activity_at, created_at, updated_at
FROM drafts
WHERE token = $1
LIMIT 1`
	var draft Draft
	var storageKey sql.NullString
	var status string
	var email sql.NullString
	err := r.DB.QueryRowContext(ctx, query, token).Scan(
		&draft.Token,
		&storageKey,
		&draft.Step,
		&status,
		&email,
		&draft.LastActivityAt,
		&draft.CreatedAt,
		&draft.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Draft{}, ErrNotFound
		}
		return Draft{}, err
	}
	draft.Status = Status(status)
	if storageKey.Valid {
		draft.StorageKey = storageKey.String
	}
	if email.Valid {
		draft.Email = email.String
	}
	return draft, nil
}

func (r *PGRepo) SetEmail(ctx context.Context, token, email string) error {
	const query = `
UPDATE drafts
SET email = $2, last_activity_at = now(), updated_at = now()
WHERE token = $1`
	res, err := r.DB.ExecContext(ctx, query, token, email)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM drafts WHERE last_activity_at < $1 AND status = 'draft'`
	res, err := r.DB.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
