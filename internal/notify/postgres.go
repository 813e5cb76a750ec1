package notify

import (
	"context"
	"database/sql"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, n *Notification) error {
	_, err := s.db.ExecContext(ctx,
		`insert into notifications(id, recipient, channel, subject, message, status, created_at)
		 values($1,$2,$3,$4,$5,$6,$7)`,
		n.ID, n.Recipient, n.Channel, n.Subject, n.Message, n.Status, n.CreatedAt,
	)
	return err
}

func (s *PGStore) ListByRecipient(ctx context.Context, recipient string, limit int) ([]*Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, recipient, channel, subject, message, status, read_at, created_at
		 from notifications where recipient=$1 order by created_at desc limit $2`,
		recipient, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Notification
	for rows.Next() {
		var n Notification
		var readAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.Recipient, &n.Channel, &n.Subject, &n.Message, &n.Status, &readAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		if readAt.Valid {
			t := readAt.Time
			n.ReadAt = &t
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (s *PGStore) MarkRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`update notifications set read_at=now() where id=$1 and read_at is null`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, `select exists(select 1 from notifications where id=$1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
	}
	return nil
}
