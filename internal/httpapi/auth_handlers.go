package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"orgbase.org/internal/audit"
	"orgbase.org/internal/auth"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Message      string `json:"message"`
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.auth.Signup(r.Context(), req.Name, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailInUse):
			writeError(w, r, http.StatusBadRequest, "email already in use")
		case errors.Is(err, auth.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, err.Error())
		default:
			writeError(w, r, http.StatusInternalServerError, "signup failed")
		}
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.signup", map[string]any{
		"email": strings.TrimSpace(strings.ToLower(req.Email)),
	})
	writeJSON(w, http.StatusCreated, map[string]any{"message": "user created"})
}

func (a *API) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	pair, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWrongCredentials) {
			unauthorized(w, r, "wrong credentials")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "login failed")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"email": strings.TrimSpace(strings.ToLower(req.Email)),
	})
	writeJSON(w, http.StatusCreated, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Message:      "login successful",
	})
}

func (a *API) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		writeError(w, r, http.StatusBadRequest, "refresh token is required")
		return
	}

	pair, err := a.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			unauthorized(w, r, "invalid refresh token")
		case errors.Is(err, auth.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, err.Error())
		default:
			writeError(w, r, http.StatusInternalServerError, "token refresh failed")
		}
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.token.refresh", nil)
	writeJSON(w, http.StatusCreated, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Message:      "token refreshed",
	})
}

func (a *API) handleRevokeRefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		writeError(w, r, http.StatusBadRequest, "refresh token is required")
		return
	}

	if err := a.auth.Revoke(r.Context(), req.RefreshToken); err != nil {
		writeError(w, r, http.StatusInternalServerError, "revocation failed")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.token.revoke", nil)
	writeJSON(w, http.StatusOK, map[string]any{"message": "refresh token revoked"})
}
