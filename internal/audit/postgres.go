package audit

import (
	"context"
	"database/sql"

	"alive.africa/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Append(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into system_logs(id, title, message, severity, actor_id, request_id, occurred_at)
		 values($1,$2,$3,$4,$5,$6,$7)`,
		entry.ID, entry.Title, entry.Message, entry.Severity,
		nullable(entry.ActorID), nullable(entry.RequestID), entry.OccurredAt,
	)
	return err
}

func (s *PGStore) List(ctx context.Context, severity string, limit int) ([]*Entry, error) {
	query := `select id, title, message, severity, coalesce(actor_id, ''), coalesce(request_id, ''), occurred_at
		from system_logs`
	args := []any{limit}
	if severity != "" {
		query += ` where severity=$2`
		args = append(args, severity)
	}
	query += ` order by occurred_at desc limit $1`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Title, &e.Message, &e.Severity, &e.ActorID, &e.RequestID, &e.OccurredAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
