package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGUserStoreCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("insert into users").
		WithArgs(sqlmock.AnyArg(), "Alice", "alice@example.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	store := NewPGUserStore(db)
	u := &User{Name: "Alice", Email: "alice@example.com", PasswordHash: "hash"}
	if err := store.Create(context.Background(), u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !u.CreatedAt.Equal(now) {
		t.Fatalf("created_at not populated: %v", u.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGUserStoreCreateDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("insert into users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	store := NewPGUserStore(db)
	u := &User{Name: "Alice", Email: "alice@example.com", PasswordHash: "hash"}
	if err := store.Create(context.Background(), u); !errors.Is(err, ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

func TestPGUserStoreFindByEmailNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select id, name, email, password_hash").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at", "updated_at"}))

	store := NewPGUserStore(db)
	if _, err := store.FindByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGUserStoreFind(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("select id, name, email, password_hash").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at", "updated_at"}).
			AddRow("user-1", "Alice", "alice@example.com", "hash", now, now))

	store := NewPGUserStore(db)
	u, err := store.Find(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if u.ID != "user-1" || u.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
}
