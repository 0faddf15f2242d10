package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"orgbase.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// withAuth enforces the authentication gate: extract bearer token, verify
// signature and expiry, resolve the subject user, attach it to the request
// context. Expired and malformed tokens are indistinguishable to the caller.
// The gate is stateless per request and performs exactly one lookup against
// the credential store.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			unauthorized(w, r, "access token required")
			return
		}

		user, err := a.auth.ResolveUser(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidToken):
				unauthorized(w, r, "invalid access token")
			case errors.Is(err, auth.ErrNotFound):
				unauthorized(w, r, "user not found")
			default:
				// Store failures are infrastructure errors, never an
				// authentication verdict.
				writeError(w, r, http.StatusInternalServerError, "authentication error")
			}
			return
		}

		ctx := auth.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="orgbase"`)
	writeError(w, r, http.StatusUnauthorized, msg)
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
