package org

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"orgbase.org/internal/auth"
	"orgbase.org/internal/ids"
)

// Service provides organization and membership operations. It consumes the
// credential store only to resolve invitees and member display data.
type Service struct {
	store Store
	users auth.UserStore
}

// NewService constructs the organization service.
func NewService(store Store, users auth.UserStore) (*Service, error) {
	if store == nil {
		return nil, errors.New("org: store is required")
	}
	if users == nil {
		return nil, errors.New("org: user store is required")
	}
	return &Service{store: store, users: users}, nil
}

// SeedRoles ensures the closed role set exists. Safe to run on every start.
func (s *Service) SeedRoles(ctx context.Context) error {
	names := make([]string, 0, len(auth.Levels()))
	for _, level := range auth.Levels() {
		names = append(names, string(level))
	}
	return s.store.EnsureRoles(ctx, names)
}

// Create stores a new organization with the creator as its only member.
// The creator role is granted here and never again.
func (s *Service) Create(ctx context.Context, name, description, creatorID string) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: organization name is required", ErrInvalidInput)
	}
	creatorID = strings.TrimSpace(creatorID)
	if creatorID == "" {
		return nil, fmt.Errorf("%w: creator id is required", ErrInvalidInput)
	}
	o := &Organization{
		ID:          ids.New(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Members: []Member{
			{UserID: creatorID, AccessLevel: auth.AccessCreator},
		},
	}
	if err := s.store.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Get loads an organization with its member list resolved.
func (s *Service) Get(ctx context.Context, id string) (*Organization, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: organization id is required", ErrInvalidInput)
	}
	return s.store.Find(ctx, id)
}

// ListForUser returns the organizations the user is a member of.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]*Organization, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.store.ListByMember(ctx, userID)
}

// Update replaces the organization's name and description.
func (s *Service) Update(ctx context.Context, id, name, description string) (*Organization, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: organization id is required", ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: organization name is required", ErrInvalidInput)
	}
	return s.store.Update(ctx, id, name, strings.TrimSpace(description))
}

// Delete removes the organization and its memberships.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: organization id is required", ErrInvalidInput)
	}
	return s.store.Delete(ctx, id)
}

// Invite adds the user with the given email as a read-only member. The
// store-level uniqueness constraint rejects a duplicate membership even
// when two invites race.
func (s *Service) Invite(ctx context.Context, orgID, email string) error {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return fmt.Errorf("%w: organization id is required", ErrInvalidInput)
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return fmt.Errorf("%w: user email is required", ErrInvalidInput)
	}

	if _, err := s.store.Find(ctx, orgID); err != nil {
		return err
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return err
	}
	return s.store.AddMember(ctx, orgID, user.ID, auth.AccessReadOnly)
}

// RoleByName looks up a role in the seeded reference data.
func (s *Service) RoleByName(ctx context.Context, name string) (*Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name is required", ErrInvalidInput)
	}
	return s.store.RoleByName(ctx, name)
}

// RoleByID looks up a role by id.
func (s *Service) RoleByID(ctx context.Context, id string) (*Role, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: role id is required", ErrInvalidInput)
	}
	return s.store.RoleByID(ctx, id)
}
