package audit

import (
	"context"
	"database/sql"
)

type PGStore struct {
	DB *sql.DB
}

func (s *PGStore) Insert(ctx context.Context, ev Event) error {
	const query = `
INSERT INTO audit_events (id, actor, source_ip, action, resource_key, outcome, at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.DB.ExecContext(ctx, query,
		ev.ID,
		ev.Actor,
		nullableString(ev.SourceIP),
		ev.Action,
		ev.ResourceKey,
		ev.Outcome,
		ev.At,
	)
	return err
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Store = (*PGStore)(nil)
