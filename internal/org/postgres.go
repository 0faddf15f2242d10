package org

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"orgbase.org/internal/auth"
	"orgbase.org/internal/ids"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store on PostgreSQL. The primary key on
// organization_members(organization_id, user_id) enforces the
// one-membership-per-user invariant under concurrent invites.
type PGStore struct {
	db *sql.DB
}

// NewPGStore wraps an open connection pool.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, o *Organization) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		insert into organizations (id, name, description)
		values ($1, $2, $3)
		returning created_at, updated_at
	`, o.ID, o.Name, o.Description)
	if err := row.Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		return err
	}
	for _, m := range o.Members {
		if err := insertMember(ctx, tx, o.ID, m.UserID, m.AccessLevel); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *PGStore) Find(ctx context.Context, id string) (*Organization, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, name, description, created_at, updated_at
		from organizations
		where id = $1
	`, id)
	var o Organization
	if err := row.Scan(&o.ID, &o.Name, &o.Description, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: organization not found", ErrNotFound)
		}
		return nil, err
	}
	members, err := s.loadMembers(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Members = members
	return &o, nil
}

func (s *PGStore) ListByMember(ctx context.Context, userID string) ([]*Organization, error) {
	rows, err := s.db.QueryContext(ctx, `
		select o.id, o.name, o.description, o.created_at, o.updated_at
		from organizations o
		join organization_members m on m.organization_id = o.id
		where m.user_id = $1
		order by o.created_at asc
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Organization
	for rows.Next() {
		var o Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Description, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range result {
		members, err := s.loadMembers(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Members = members
	}
	return result, nil
}

func (s *PGStore) Update(ctx context.Context, id, name, description string) (*Organization, error) {
	row := s.db.QueryRowContext(ctx, `
		update organizations
		set name = $2, description = $3, updated_at = now()
		where id = $1
		returning id, name, description, created_at, updated_at
	`, id, name, description)
	var o Organization
	if err := row.Scan(&o.ID, &o.Name, &o.Description, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: organization not found", ErrNotFound)
		}
		return nil, err
	}
	members, err := s.loadMembers(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Members = members
	return &o, nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from organizations where id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: organization not found", ErrNotFound)
	}
	return nil
}

func (s *PGStore) AddMember(ctx context.Context, orgID, userID string, level auth.AccessLevel) error {
	return insertMember(ctx, s.db, orgID, userID, level)
}

func (s *PGStore) EnsureRoles(ctx context.Context, names []string) error {
	for _, name := range names {
		_, err := s.db.ExecContext(ctx, `
			insert into roles (id, name)
			values ($1, $2)
			on conflict (name) do nothing
		`, ids.New(), name)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *PGStore) RoleByName(ctx context.Context, name string) (*Role, error) {
	row := s.db.QueryRowContext(ctx, `select id, name, created_at from roles where name = $1`, name)
	return scanRole(row)
}

func (s *PGStore) RoleByID(ctx context.Context, id string) (*Role, error) {
	row := s.db.QueryRowContext(ctx, `select id, name, created_at from roles where id = $1`, id)
	return scanRole(row)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertMember(ctx context.Context, db execer, orgID, userID string, level auth.AccessLevel) error {
	_, err := db.ExecContext(ctx, `
		insert into organization_members (organization_id, user_id, role_id)
		values ($1, $2, (select id from roles where name = $3))
	`, orgID, userID, string(level))
	if err != nil {
		if pgErr, ok := maybePgError(err); ok {
			switch pgErr.Code {
			case pgErrUniqueViolation:
				return ErrAlreadyMember
			case pgErrForeignKeyViolation:
				return fmt.Errorf("%w: organization not found", ErrNotFound)
			}
		}
		return err
	}
	return nil
}

func (s *PGStore) loadMembers(ctx context.Context, orgID string) ([]Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		select m.user_id, u.name, u.email, r.name
		from organization_members m
		join users u on u.id = m.user_id
		join roles r on r.id = m.role_id
		where m.organization_id = $1
		order by m.created_at asc
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var (
			m    Member
			role string
		)
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &role); err != nil {
			return nil, err
		}
		m.AccessLevel = auth.AccessLevel(role)
		members = append(members, m)
	}
	return members, rows.Err()
}

func scanRole(row *sql.Row) (*Role, error) {
	var role Role
	if err := row.Scan(&role.ID, &role.Name, &role.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}
