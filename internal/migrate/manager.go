package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const defaultLedgerTable = "schema_history"

const (
	kindMigration = "migration"
	kindSeed      = "seed"
)

// Manager applies SQL migration and seed files from disk and records what
// ran in a single ledger table.
type Manager struct {
	db            *sql.DB
	migrationsDir string
	seedsDir      string
	ledgerTable   string
}

// Option configures Manager.
type Option func(*Manager)

// WithLedgerTable overrides the bookkeeping table name.
func WithLedgerTable(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.ledgerTable = name
		}
	}
}

// NewManager constructs a Manager.
func NewManager(db *sql.DB, migrationsDir, seedsDir string, opts ...Option) *Manager {
	m := &Manager{
		db:            db,
		migrationsDir: migrationsDir,
		seedsDir:      seedsDir,
		ledgerTable:   defaultLedgerTable,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Up applies all pending migrations in lexical order.
func (m *Manager) Up(ctx context.Context) error {
	return m.applyPending(ctx, kindMigration, m.migrationsDir, ".up.sql")
}

// Seed applies seed files idempotently.
func (m *Manager) Seed(ctx context.Context) error {
	return m.applyPending(ctx, kindSeed, m.seedsDir, ".sql")
}

// Down rolls back the most recently applied migration.
func (m *Manager) Down(ctx context.Context) error {
	if err := m.ensureLedger(ctx); err != nil {
		return err
	}
	applied, err := m.appliedNames(ctx, kindMigration)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		return errors.New("no migrations applied")
	}
	last := applied[len(applied)-1]
	downPath := strings.TrimSuffix(filepath.Join(m.migrationsDir, last), ".up.sql") + ".down.sql"
	if _, err := os.Stat(downPath); err != nil {
		return fmt.Errorf("missing down migration for %s", last)
	}
	if err := m.runFile(ctx, downPath); err != nil {
		return fmt.Errorf("rollback migration %s: %w", last, err)
	}
	_, err = m.db.ExecContext(ctx,
		fmt.Sprintf(`delete from %s where kind = $1 and name = $2`, m.ledgerTable),
		kindMigration, last)
	return err
}

// Status returns applied migrations in apply order.
func (m *Manager) Status(ctx context.Context) ([]string, error) {
	if err := m.ensureLedger(ctx); err != nil {
		return nil, err
	}
	return m.appliedNames(ctx, kindMigration)
}

func (m *Manager) applyPending(ctx context.Context, kind, dir, suffix string) error {
	if err := m.ensureLedger(ctx); err != nil {
		return err
	}
	applied, err := m.appliedNames(ctx, kind)
	if err != nil {
		return err
	}
	done := make(map[string]bool, len(applied))
	for _, name := range applied {
		done[name] = true
	}
	files, err := collectSQL(dir, suffix)
	if err != nil {
		return err
	}
	for _, f := range files {
		if done[f.base] {
			continue
		}
		if err := m.runFile(ctx, f.path); err != nil {
			return fmt.Errorf("apply %s %s: %w", kind, f.base, err)
		}
		if _, err := m.db.ExecContext(ctx,
			fmt.Sprintf(`insert into %s(kind, name, applied_at) values ($1, $2, $3)`, m.ledgerTable),
			kind, f.base, time.Now().UTC()); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) ensureLedger(ctx context.Context) error {
	ddl := fmt.Sprintf(`
		create table if not exists %s (
			kind text not null,
			name text not null,
			applied_at timestamptz not null default now(),
			primary key (kind, name)
		);`, m.ledgerTable)
	_, err := m.db.ExecContext(ctx, ddl)
	return err
}

func (m *Manager) appliedNames(ctx context.Context, kind string) ([]string, error) {
	rows, err := m.db.QueryContext(ctx,
		fmt.Sprintf(`select name from %s where kind = $1 order by applied_at asc, name asc`, m.ledgerTable),
		kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// runFile executes one SQL file inside a transaction.
func (m *Manager) runFile(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, stmt := range splitStatements(string(raw)) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type sqlFile struct {
	base string
	path string
}

func collectSQL(dir, suffix string) ([]sqlFile, error) {
	if dir == "" {
		return nil, nil
	}
	var files []sqlFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), suffix) {
			files = append(files, sqlFile{base: d.Name(), path: path})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].base < files[j].base })
	return files, nil
}

// splitStatements splits SQL on semicolons outside single-quoted strings.
func splitStatements(sql string) []string {
	var stmts []string
	var cur strings.Builder
	inString := false
	for _, r := range sql {
		cur.WriteRune(r)
		switch r {
		case '\'':
			inString = !inString
		case ';':
			if !inString {
				stmts = append(stmts, cur.String())
				cur.Reset()
			}
		}
	}
	if strings.TrimSpace(cur.String()) != "" {
		stmts = append(stmts, cur.String())
	}
	return stmts
}
