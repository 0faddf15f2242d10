package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"orgbase.org/internal/session"
)

func newTestService(t *testing.T, opts ...ServiceOption) (*Service, *MemoryUserStore, *session.MemoryStore) {
	t.Helper()
	users := NewMemoryUserStore()
	sessions := session.NewMemoryStore()
	svc, err := NewService(users, sessions, "test-secret", opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, users, sessions
}

func TestSignupAndLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Signup(ctx, "Alice", "Alice@Example.com", "s3cret"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	// email is matched case-insensitively
	pair, err := svc.Login(ctx, "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}

	userID, err := svc.VerifyAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	user, err := svc.ResolveUser(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("ResolveUser: %v", err)
	}
	if user.ID != userID || user.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Signup(ctx, "Alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	err := svc.Signup(ctx, "Imposter", "ALICE@example.com", "other")
	if !errors.Is(err, ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

func TestSignupValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name, email, password string
	}{
		{"", "a@example.com", "pw"},
		{"Alice", "", "pw"},
		{"Alice", "not-an-email", "pw"},
		{"Alice", "a@example.com", ""},
	}
	for _, c := range cases {
		err := svc.Signup(ctx, c.name, c.email, c.password)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Signup(%q,%q,%q): expected ErrInvalidInput, got %v", c.name, c.email, c.password, err)
		}
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Signup(ctx, "Alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	// unknown email and wrong password fail identically
	if _, err := svc.Login(ctx, "nobody@example.com", "s3cret"); !errors.Is(err, ErrWrongCredentials) {
		t.Fatalf("unknown email: expected ErrWrongCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrWrongCredentials) {
		t.Fatalf("wrong password: expected ErrWrongCredentials, got %v", err)
	}
}

func TestRefreshReturnsSameHandle(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Signup(ctx, "Alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	pair, err := svc.Login(ctx, "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.RefreshToken != pair.RefreshToken {
		t.Fatalf("refresh token rotated: %q != %q", refreshed.RefreshToken, pair.RefreshToken)
	}
	if refreshed.AccessToken == "" {
		t.Fatalf("expected a fresh access token")
	}

	// the handle stays usable after a refresh
	if _, err := svc.Refresh(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}
}

func TestRevokeThenRefreshFails(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Signup(ctx, "Alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	pair, err := svc.Login(ctx, "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Revoke(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := svc.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after revoke, got %v", err)
	}

	// revoking again is a no-op
	if err := svc.Revoke(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("second Revoke: %v", err)
	}
}

func TestRefreshUnknownHandle(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Refresh(context.Background(), "never-issued"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := svc.Refresh(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank token, got %v", err)
	}
}

func TestAccessTokenExpiry(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _ := newTestService(t,
		WithAccessTTL(5*time.Hour),
		WithClock(func() time.Time { return current }),
	)
	ctx := context.Background()

	if err := svc.Signup(ctx, "Alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	pair, err := svc.Login(ctx, "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := svc.VerifyAccessToken(pair.AccessToken); err != nil {
		t.Fatalf("VerifyAccessToken before expiry: %v", err)
	}

	current = current.Add(5*time.Hour + time.Minute)
	if _, err := svc.VerifyAccessToken(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestVerifyAccessTokenRejectsForgeries(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Signup(ctx, "Alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	pair, err := svc.Login(ctx, "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	other, _, _ := newTestService(t)
	other.secret = []byte("different-secret")
	if _, err := other.VerifyAccessToken(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong key, got %v", err)
	}

	if _, err := svc.VerifyAccessToken("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
	if _, err := svc.VerifyAccessToken(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("hash equals plaintext")
	}
	if err := VerifyPassword(hash, "s3cret"); err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); err == nil {
		t.Fatalf("expected mismatch error")
	}
}
