package org

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"orgbase.org/internal/auth"
	"orgbase.org/internal/ids"
)

type storedMember struct {
	userID string
	level  auth.AccessLevel
}

type storedOrg struct {
	id          string
	name        string
	description string
	members     []storedMember
	createdAt   time.Time
	updatedAt   time.Time
}

// MemoryStore is an in-process Store for development mode and tests. All
// operations run under one mutex, which serializes concurrent invites to
// the same organization the way the Postgres unique index does.
type MemoryStore struct {
	mu    sync.Mutex
	orgs  map[string]*storedOrg
	roles map[string]*Role
	users auth.UserStore
}

// NewMemoryStore constructs an empty MemoryStore resolving member display
// data through the given credential store.
func NewMemoryStore(users auth.UserStore) *MemoryStore {
	return &MemoryStore{
		orgs:  make(map[string]*storedOrg),
		roles: make(map[string]*Role),
		users: users,
	}
}

func (s *MemoryStore) Create(ctx context.Context, o *Organization) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	rec := &storedOrg{
		id:          o.ID,
		name:        o.Name,
		description: o.Description,
		createdAt:   now,
		updatedAt:   now,
	}
	for _, m := range o.Members {
		rec.members = append(rec.members, storedMember{userID: m.UserID, level: m.AccessLevel})
	}
	s.orgs[o.ID] = rec
	o.CreatedAt = now
	o.UpdatedAt = now
	return nil
}

func (s *MemoryStore) Find(ctx context.Context, id string) (*Organization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	rec, ok := s.orgs[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: organization not found", ErrNotFound)
	}
	clone := *rec
	clone.members = append([]storedMember(nil), rec.members...)
	s.mu.Unlock()
	return s.resolve(ctx, &clone)
}

func (s *MemoryStore) ListByMember(ctx context.Context, userID string) ([]*Organization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	var matches []*storedOrg
	for _, rec := range s.orgs {
		for _, m := range rec.members {
			if m.userID == userID {
				clone := *rec
				clone.members = append([]storedMember(nil), rec.members...)
				matches = append(matches, &clone)
				break
			}
		}
	}
	s.mu.Unlock()

	sort.Slice(matches, func(i, j int) bool { return matches[i].createdAt.Before(matches[j].createdAt) })
	result := make([]*Organization, 0, len(matches))
	for _, rec := range matches {
		o, err := s.resolve(ctx, rec)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, nil
}

func (s *MemoryStore) Update(ctx context.Context, id, name, description string) (*Organization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	rec, ok := s.orgs[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: organization not found", ErrNotFound)
	}
	rec.name = name
	rec.description = description
	rec.updatedAt = time.Now().UTC()
	clone := *rec
	clone.members = append([]storedMember(nil), rec.members...)
	s.mu.Unlock()
	return s.resolve(ctx, &clone)
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[id]; !ok {
		return fmt.Errorf("%w: organization not found", ErrNotFound)
	}
	delete(s.orgs, id)
	return nil
}

func (s *MemoryStore) AddMember(ctx context.Context, orgID, userID string, level auth.AccessLevel) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.orgs[orgID]
	if !ok {
		return fmt.Errorf("%w: organization not found", ErrNotFound)
	}
	for _, m := range rec.members {
		if m.userID == userID {
			return ErrAlreadyMember
		}
	}
	rec.members = append(rec.members, storedMember{userID: userID, level: level})
	rec.updatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) EnsureRoles(ctx context.Context, names []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		if _, ok := s.roles[name]; ok {
			continue
		}
		s.roles[name] = &Role{ID: ids.New(), Name: name, CreatedAt: time.Now().UTC()}
	}
	return nil
}

func (s *MemoryStore) RoleByName(ctx context.Context, name string) (*Role, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	role, ok := s.roles[name]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *role
	return &clone, nil
}

func (s *MemoryStore) RoleByID(ctx context.Context, id string) (*Role, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, role := range s.roles {
		if role.ID == id {
			clone := *role
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) resolve(ctx context.Context, rec *storedOrg) (*Organization, error) {
	o := &Organization{
		ID:          rec.id,
		Name:        rec.name,
		Description: rec.description,
		CreatedAt:   rec.createdAt,
		UpdatedAt:   rec.updatedAt,
	}
	for _, m := range rec.members {
		member := Member{UserID: m.userID, AccessLevel: m.level}
		if user, err := s.users.Find(ctx, m.userID); err == nil {
			member.Name = user.Name
			member.Email = user.Email
		} else if !errors.Is(err, auth.ErrNotFound) {
			return nil, err
		}
		o.Members = append(o.Members, member)
	}
	return o, nil
}
