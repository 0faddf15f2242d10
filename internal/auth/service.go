package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"orgbase.org/internal/ids"
	"orgbase.org/internal/session"
)

const (
	defaultIssuer     = "orgbase"
	defaultAccessTTL  = 5 * time.Hour
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Service owns the signup/login/refresh/revoke protocol. Access tokens are
// stateless signed JWTs; refresh tokens are opaque handles registered in the
// session store with a server-enforced TTL.
type Service struct {
	users    UserStore
	sessions session.Store

	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithIssuer overrides the token issuer claim.
func WithIssuer(issuer string) ServiceOption {
	return func(s *Service) {
		if v := strings.TrimSpace(issuer); v != "" {
			s.issuer = v
		}
	}
}

// WithAccessTTL configures access token lifetime.
func WithAccessTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.accessTTL = ttl
		}
	}
}

// WithRefreshTTL configures the refresh token session TTL.
func WithRefreshTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.refreshTTL = ttl
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs the token service.
func NewService(users UserStore, sessions session.Store, secret string, opts ...ServiceOption) (*Service, error) {
	if users == nil {
		return nil, errors.New("auth: user store is required")
	}
	if sessions == nil {
		return nil, errors.New("auth: session store is required")
	}
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	s := &Service{
		users:      users,
		sessions:   sessions,
		secret:     []byte(secret),
		issuer:     defaultIssuer,
		accessTTL:  defaultAccessTTL,
		refreshTTL: defaultRefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Signup registers a new user. The email must not be in use; the password is
// stored as a bcrypt hash and the plaintext is never persisted or logged.
func (s *Service) Signup(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return ErrEmailInUse
	} else if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("lookup email: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	user := &User{
		ID:           ids.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	// The store enforces email uniqueness, so a concurrent signup with the
	// same email loses here rather than slipping past the pre-check.
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}
	return nil
}

// Login verifies credentials and issues a fresh token pair. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return TokenPair{}, ErrWrongCredentials
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, ErrWrongCredentials
		}
		return TokenPair{}, fmt.Errorf("lookup email: %w", err)
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return TokenPair{}, ErrWrongCredentials
	}
	return s.issueTokens(ctx, user.ID)
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is returned unchanged and its session entry is left
// untouched: the handle stays valid until natural expiry or revocation.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return TokenPair{}, fmt.Errorf("%w: refresh token is required", ErrInvalidInput)
	}
	userID, err := s.sessions.Get(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return TokenPair{}, ErrInvalidToken
		}
		return TokenPair{}, fmt.Errorf("session lookup: %w", err)
	}
	access, err := s.signAccessToken(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
}

// Revoke deletes the refresh token session. Revoking an unknown or already
// revoked token is not an error.
func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return fmt.Errorf("%w: refresh token is required", ErrInvalidInput)
	}
	if err := s.sessions.Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

// ResolveUser verifies an access token and loads the subject user. A valid
// token whose user has since been deleted resolves to ErrNotFound.
func (s *Service) ResolveUser(ctx context.Context, token string) (*User, error) {
	userID, err := s.VerifyAccessToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

func (s *Service) issueTokens(ctx context.Context, userID string) (TokenPair, error) {
	access, err := s.signAccessToken(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	handle := uuid.NewString()
	if err := s.sessions.Put(ctx, handle, userID, s.refreshTTL); err != nil {
		return TokenPair{}, fmt.Errorf("register session: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: handle}, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
