package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"alive.africa/internal/ids"
)

var _ UserStore = (*PGUserStore)(nil)

// PGUserStore implements UserStore using PostgreSQL.
type PGUserStore struct {
	db *sql.DB
}

func NewPGUserStore(db *sql.DB) *PGUserStore {
	return &PGUserStore{db: db}
}

const userColumns = `id, email, phone_number, national_id, first_name, last_name,
	roles, status, email_verified, phone_verified, created_at, updated_at`

const userSecretColumns = userColumns + `,
	password_hash, email_otp, email_otp_expires, phone_otp, phone_otp_expires,
	reset_pin, reset_pin_expires`

func (s *PGUserStore) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	roles, _ := json.Marshal(u.Roles)
	_, err := s.db.ExecContext(ctx,
		`insert into users(id, email, phone_number, national_id, first_name, last_name,
			roles, status, email_verified, phone_verified, password_hash,
			email_otp, email_otp_expires, phone_otp, phone_otp_expires)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		u.ID, u.Email, u.PhoneNumber, u.NationalID, u.FirstName, u.LastName,
		roles, u.Status, u.EmailVerified, u.PhoneVerified, nullable(u.PasswordHash),
		nullable(u.EmailOTP), u.EmailOTPExpires, nullable(u.PhoneOTP), u.PhoneOTPExpires,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateIdentity
	}
	return err
}

func (s *PGUserStore) Find(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where id=$1`, id)
	return scanUser(row)
}

func (s *PGUserStore) FindWithSecrets(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userSecretColumns+` from users where id=$1`, id)
	return scanUserWithSecrets(row)
}

func (s *PGUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where email=$1`, email)
	return scanUser(row)
}

func (s *PGUserStore) FindByEmailWithSecrets(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userSecretColumns+` from users where email=$1`, email)
	return scanUserWithSecrets(row)
}

func (s *PGUserStore) ExistsByIdentity(ctx context.Context, email, phone, nationalID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from users where email=$1 or phone_number=$2 or national_id=$3)`,
		email, phone, nationalID,
	).Scan(&exists)
	return exists, err
}

func (s *PGUserStore) SaveSensitive(ctx context.Context, u *User) error {
	res, err := s.db.ExecContext(ctx,
		`update users set password_hash=$2, email_otp=$3, email_otp_expires=$4,
			phone_otp=$5, phone_otp_expires=$6, reset_pin=$7, reset_pin_expires=$8,
			email_verified=$9, phone_verified=$10, updated_at=now()
		 where id=$1`,
		u.ID, nullable(u.PasswordHash), nullable(u.EmailOTP), u.EmailOTPExpires,
		nullable(u.PhoneOTP), u.PhoneOTPExpires, nullable(u.ResetPIN), u.ResetPINExpires,
		u.EmailVerified, u.PhoneVerified,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PGUserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`update users set password_hash=$2, updated_at=now() where id=$1`, id, passwordHash)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PGUserStore) Update(ctx context.Context, u *User) error {
	roles, _ := json.Marshal(u.Roles)
	res, err := s.db.ExecContext(ctx,
		`update users set first_name=$2, last_name=$3, phone_number=$4, roles=$5,
			status=$6, updated_at=now()
		 where id=$1`,
		u.ID, u.FirstName, u.LastName, u.PhoneNumber, roles, u.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateIdentity
		}
		return err
	}
	return requireRow(res)
}

func (s *PGUserStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from users where id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PGUserStore) List(ctx context.Context, filter UserFilter) ([]*User, int, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(first_name ilike $%d or last_name ilike $%d or email ilike $%d or phone_number ilike $%d)",
			n, n, n, n))
	}
	where := ""
	if len(conds) > 0 {
		where = " where " + strings.Join(conds, " and ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `select count(*) from users`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	rows, err := s.db.QueryContext(ctx,
		`select `+userColumns+` from users`+where+
			fmt.Sprintf(` order by created_at desc limit $%d offset $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (s *PGUserStore) BasicInfo(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, first_name, last_name, email, phone_number, national_id from users order by first_name asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber, &u.NationalID); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (s *PGUserStore) BulkUpdateStatus(ctx context.Context, userIDs []string, status string) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	args := append([]any{status}, idArgs(userIDs)...)
	res, err := s.db.ExecContext(ctx,
		`update users set status=$1, updated_at=now() where id in (`+placeholders(len(userIDs), 2)+`)`,
		args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *PGUserStore) BulkDelete(ctx context.Context, userIDs []string) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`delete from users where id in (`+placeholders(len(userIDs), 1)+`)`,
		idArgs(userIDs)...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *PGUserStore) Statistics(ctx context.Context) (UserStatistics, error) {
	var stats UserStatistics
	err := s.db.QueryRowContext(ctx,
		`select count(*),
			count(*) filter (where status = 'active'),
			count(*) filter (where status <> 'active'),
			count(*) filter (where created_at >= date_trunc('month', now()))
		 from users`,
	).Scan(&stats.TotalUsers, &stats.ActiveUsers, &stats.InactiveUsers, &stats.NewUsersThisMonth)
	return stats, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		u     User
		roles []byte
	)
	err := row.Scan(&u.ID, &u.Email, &u.PhoneNumber, &u.NationalID, &u.FirstName, &u.LastName,
		&roles, &u.Status, &u.EmailVerified, &u.PhoneVerified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	_ = json.Unmarshal(roles, &u.Roles)
	return &u, nil
}

func scanUserWithSecrets(row rowScanner) (*User, error) {
	var (
		u            User
		roles        []byte
		passwordHash sql.NullString
		emailOTP     sql.NullString
		phoneOTP     sql.NullString
		resetPIN     sql.NullString
		emailExpires sql.NullTime
		phoneExpires sql.NullTime
		resetExpires sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.PhoneNumber, &u.NationalID, &u.FirstName, &u.LastName,
		&roles, &u.Status, &u.EmailVerified, &u.PhoneVerified, &u.CreatedAt, &u.UpdatedAt,
		&passwordHash, &emailOTP, &emailExpires, &phoneOTP, &phoneExpires,
		&resetPIN, &resetExpires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	_ = json.Unmarshal(roles, &u.Roles)
	u.PasswordHash = passwordHash.String
	u.EmailOTP = emailOTP.String
	u.PhoneOTP = phoneOTP.String
	u.ResetPIN = resetPIN.String
	u.EmailOTPExpires = timePtr(emailExpires)
	u.PhoneOTPExpires = timePtr(phoneExpires)
	u.ResetPINExpires = timePtr(resetExpires)
	return &u, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// placeholders renders n comma-joined placeholders numbered from the given
// starting ordinal.
func placeholders(n, from int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(parts, ",")
}

func idArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
