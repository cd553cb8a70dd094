package submissions

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Submission, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT token, email, status, step, storage_key, submitted_at
FROM submissions
ORDER BY submitted_at DESC
LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetByToken(ctx context.Context, token string) (Submission, error) {
	const query = `
SELECT token, email, status, step, storage_key, submitted_at
FROM submissions
WHERE token = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, token)
	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrNotFound
		}
		return Submission{}, err
	}
	return sub, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (Submission, error) {
	var sub Submission
	var email sql.NullString
	var storageKey sql.NullString
	err := row.Scan(
		&sub.Token,
		&email,
		&sub.Status,
		&sub.Step,
		&storageKey,
		&sub.SubmittedAt,
	)
	if err != nil {
		return Submission{}, err
	}
	if email.Valid {
		sub.Email = email.String
	}
	if storageKey.Valid {
		sub.StorageKey = storageKey.String
	}
	return sub, nil
}

var _ Repo = (*PGRepo)(nil)
