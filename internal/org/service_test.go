package org

import (
	"context"
	"errors"
	"testing"

	"orgbase.org/internal/auth"
)

func seedUser(t *testing.T, users *auth.MemoryUserStore, name, email string) *auth.User {
	t.Helper()
	u := &auth.User{Name: name, Email: email, PasswordHash: "hash"}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func newTestService(t *testing.T) (*Service, *auth.MemoryUserStore) {
	t.Helper()
	users := auth.NewMemoryUserStore()
	svc, err := NewService(NewMemoryStore(users), users)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if err := svc.SeedRoles(context.Background()); err != nil {
		t.Fatalf("SeedRoles: %v", err)
	}
	return svc, users
}

func TestCreateGrantsCreatorMembership(t *testing.T) {
	svc, users := newTestService(t)
	ctx := context.Background()
	alice := seedUser(t, users, "Alice", "alice@example.com")

	o, err := svc.Create(ctx, "Acme", "widgets", alice.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if o.ID == "" {
		t.Fatalf("expected generated organization id")
	}

	got, err := svc.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	m, ok := got.MemberByUserID(alice.ID)
	if !ok {
		t.Fatalf("creator is not a member")
	}
	if m.AccessLevel != auth.AccessCreator {
		t.Fatalf("expected creator level, got %q", m.AccessLevel)
	}
	if m.Email != "alice@example.com" || m.Name != "Alice" {
		t.Fatalf("member display data not resolved: %+v", m)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, users := newTestService(t)
	alice := seedUser(t, users, "Alice", "alice@example.com")

	if _, err := svc.Create(context.Background(), "  ", "", alice.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank name: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "Acme", "", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank creator: expected ErrInvalidInput, got %v", err)
	}
}

func TestInviteGrantsReadOnly(t *testing.T) {
	svc, users := newTestService(t)
	ctx := context.Background()
	alice := seedUser(t, users, "Alice", "alice@example.com")
	bob := seedUser(t, users, "Bob", "bob@example.com")

	o, err := svc.Create(ctx, "Acme", "", alice.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Invite(ctx, o.ID, "Bob@Example.com"); err != nil {
		t.Fatalf("Invite: %v", err)
	}

	got, err := svc.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	m, ok := got.MemberByUserID(bob.ID)
	if !ok {
		t.Fatalf("invitee is not a member")
	}
	if m.AccessLevel != auth.AccessReadOnly {
		t.Fatalf("expected read-only level, got %q", m.AccessLevel)
	}
}

func TestInviteDuplicateMember(t *testing.T) {
	svc, users := newTestService(t)
	ctx := context.Background()
	alice := seedUser(t, users, "Alice", "alice@example.com")
	seedUser(t, users, "Bob", "bob@example.com")

	o, err := svc.Create(ctx, "Acme", "", alice.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Invite(ctx, o.ID, "bob@example.com"); err != nil {
		t.Fatalf("first Invite: %v", err)
	}
	if err := svc.Invite(ctx, o.ID, "bob@example.com"); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}

	// inviting an existing member at any level is rejected, the creator too
	if err := svc.Invite(ctx, o.ID, "alice@example.com"); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember for creator, got %v", err)
	}
}

func TestInviteUnknownTargets(t *testing.T) {
	svc, users := newTestService(t)
	ctx := context.Background()
	alice := seedUser(t, users, "Alice", "alice@example.com")

	o, err := svc.Create(ctx, "Acme", "", alice.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Invite(ctx, o.ID, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown user: expected ErrNotFound, got %v", err)
	}
	if err := svc.Invite(ctx, "missing-org", "alice@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown org: expected ErrNotFound, got %v", err)
	}
}

func TestListForUser(t *testing.T) {
	svc, users := newTestService(t)
	ctx := context.Background()
	alice := seedUser(t, users, "Alice", "alice@example.com")
	bob := seedUser(t, users, "Bob", "bob@example.com")

	first, err := svc.Create(ctx, "Acme", "", alice.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, "Globex", "", bob.ID); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Invite(ctx, first.ID, "bob@example.com"); err != nil {
		t.Fatalf("Invite: %v", err)
	}

	mine, err := svc.ListForUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != first.ID {
		t.Fatalf("unexpected organizations for alice: %+v", mine)
	}

	both, err := svc.ListForUser(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(both) != 2 {
		t.Fatalf("expected bob in 2 organizations, got %d", len(both))
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc, users := newTestService(t)
	ctx := context.Background()
	alice := seedUser(t, users, "Alice", "alice@example.com")

	o, err := svc.Create(ctx, "Acme", "widgets", alice.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(ctx, o.ID, "Acme Corp", "more widgets")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Acme Corp" || updated.Description != "more widgets" {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := svc.Delete(ctx, o.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, o.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, o.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for double delete, got %v", err)
	}
}

func TestSeedRolesIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// newTestService already seeded once
	if err := svc.SeedRoles(ctx); err != nil {
		t.Fatalf("second SeedRoles: %v", err)
	}
	role, err := svc.RoleByName(ctx, "creator")
	if err != nil {
		t.Fatalf("RoleByName: %v", err)
	}
	if role.Name != "creator" || role.ID == "" {
		t.Fatalf("unexpected role: %+v", role)
	}
	same, err := svc.RoleByID(ctx, role.ID)
	if err != nil {
		t.Fatalf("RoleByID: %v", err)
	}
	if same.Name != role.Name {
		t.Fatalf("role lookup mismatch: %+v vs %+v", same, role)
	}
	if _, err := svc.RoleByName(ctx, "owner"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown role, got %v", err)
	}
}
