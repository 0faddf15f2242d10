// Package org owns organizations, memberships and the role reference data
// the authorization gate resolves against.
package org

import (
	"context"
	"errors"
	"time"

	"orgbase.org/internal/auth"
)

var (
	ErrInvalidInput = errors.New("org: invalid input")
	// ErrNotFound indicates an unknown organization or role.
	ErrNotFound = errors.New("org: not found")
	// ErrAlreadyMember indicates a duplicate (organization, user) membership.
	ErrAlreadyMember = errors.New("org: user is already a member")
)

// Organization groups users with differentiated access levels.
type Organization struct {
	ID          string    `json:"organization_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Members     []Member  `json:"members"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// Member associates a user with an organization under exactly one role.
// Name and email are resolved from the credential store for presentation;
// membership itself is keyed by the immutable user id.
type Member struct {
	UserID      string           `json:"user_id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	AccessLevel auth.AccessLevel `json:"access_level"`
}

// MemberByUserID finds the membership record for the given user id.
func (o *Organization) MemberByUserID(userID string) (Member, bool) {
	for _, m := range o.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return Member{}, false
}

// Role is process-wide reference data: seeded once, never deleted, looked
// up by name or id.
type Role struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Store describes persistence for organizations, memberships and roles.
type Store interface {
	Create(ctx context.Context, o *Organization) error
	Find(ctx context.Context, id string) (*Organization, error)
	ListByMember(ctx context.Context, userID string) ([]*Organization, error)
	Update(ctx context.Context, id, name, description string) (*Organization, error)
	Delete(ctx context.Context, id string) error

	// AddMember enforces the one-membership-per-user invariant: a duplicate
	// (organization, user) pair fails with ErrAlreadyMember even under
	// concurrent invites.
	AddMember(ctx context.Context, orgID, userID string, level auth.AccessLevel) error

	EnsureRoles(ctx context.Context, names []string) error
	RoleByName(ctx context.Context, name string) (*Role, error)
	RoleByID(ctx context.Context, id string) (*Role, error)
}
