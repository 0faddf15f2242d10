package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"orgbase.org/internal/ids"
)

const pgErrUniqueViolation = "23505"

var _ UserStore = (*PGUserStore)(nil)

// PGUserStore implements UserStore on PostgreSQL. Email uniqueness is
// enforced by the unique index on users(email).
type PGUserStore struct {
	db *sql.DB
}

// NewPGUserStore wraps an open connection pool.
func NewPGUserStore(db *sql.DB) *PGUserStore {
	return &PGUserStore{db: db}
}

func (s *PGUserStore) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	row := s.db.QueryRowContext(ctx, `
		insert into users (id, name, email, password_hash)
		values ($1, $2, $3, $4)
		returning created_at, updated_at
	`, u.ID, u.Name, u.Email, u.PasswordHash)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return ErrEmailInUse
		}
		return err
	}
	return nil
}

func (s *PGUserStore) Find(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, name, email, password_hash, created_at, updated_at
		from users
		where id = $1
	`, id)
	return scanUser(row)
}

func (s *PGUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, name, email, password_hash, created_at, updated_at
		from users
		where email = $1
	`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}
