package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"orgbase.org/internal/auth"
	"orgbase.org/internal/obs"
	"orgbase.org/internal/org"
)

// ReadyProbe reports whether downstream dependencies are reachable.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer over the token service and the organization service.
type API struct {
	mux        *http.ServeMux
	auth       *auth.Service
	orgs       *org.Service
	readyProbe ReadyProbe
	version    string
}

// New wires the routes. Each organization-scoped route states its required
// access level here, at registration time; the gate receives it explicitly.
func New(authSvc *auth.Service, orgSvc *org.Service, rp ReadyProbe, version string) *API {
	a := &API{
		mux:        http.NewServeMux(),
		auth:       authSvc,
		orgs:       orgSvc,
		readyProbe: rp,
		version:    version,
	}

	// auth protocol
	a.mux.HandleFunc("POST /signup", a.handleSignup)
	a.mux.HandleFunc("POST /signin", a.handleSignin)
	a.mux.HandleFunc("POST /refresh-token", a.handleRefreshToken)
	a.mux.Handle("POST /revoke-refresh-token", a.withAuth(http.HandlerFunc(a.handleRevokeRefreshToken)))

	// organizations; routes without an organization_id path parameter pass
	// the authorization gate unconditionally
	a.mux.Handle("POST /organization",
		a.withAuth(a.requireAccess(auth.AccessCreator, http.HandlerFunc(a.createOrganization))))
	a.mux.Handle("GET /organization",
		a.withAuth(http.HandlerFunc(a.listOrganizations)))
	a.mux.Handle("GET /organization/{organization_id}",
		a.withAuth(a.requireAccess(auth.AccessReadOnly, http.HandlerFunc(a.getOrganization))))
	a.mux.Handle("PUT /organization/{organization_id}",
		a.withAuth(a.requireAccess(auth.AccessCreator, http.HandlerFunc(a.updateOrganization))))
	a.mux.Handle("DELETE /organization/{organization_id}",
		a.withAuth(a.requireAccess(auth.AccessCreator, http.HandlerFunc(a.deleteOrganization))))
	a.mux.Handle("POST /organization/{organization_id}/invite",
		a.withAuth(a.requireAccess(auth.AccessCreator, http.HandlerFunc(a.inviteUser))))

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	return a
}

// Handler returns the mux wrapped with request metrics.
func (a *API) Handler() http.Handler {
	return obs.Instrument(a.mux)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "orgbase-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "orgbase-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}
