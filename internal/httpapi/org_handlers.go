package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"orgbase.org/internal/audit"
	"orgbase.org/internal/auth"
	"orgbase.org/internal/org"
)

type organizationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type inviteRequest struct {
	UserEmail string `json:"user_email"`
}

func (a *API) createOrganization(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		unauthorized(w, r, "access token required")
		return
	}
	var req organizationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	organization, err := a.orgs.Create(r.Context(), req.Name, req.Description, user.ID)
	if err != nil {
		handleOrgError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "org.create", map[string]any{
		"organization_id": organization.ID,
		"name":            organization.Name,
	})
	w.Header().Set("Location", "/organization/"+organization.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"organization_id": organization.ID})
}

func (a *API) listOrganizations(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		unauthorized(w, r, "access token required")
		return
	}
	organizations, err := a.orgs.ListForUser(r.Context(), user.ID)
	if err != nil {
		handleOrgError(w, r, err)
		return
	}
	if organizations == nil {
		organizations = []*org.Organization{}
	}
	writeJSON(w, http.StatusOK, organizations)
}

func (a *API) getOrganization(w http.ResponseWriter, r *http.Request) {
	// The authorization gate already resolved the organization.
	organization, ok := org.OrganizationFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "organization not resolved")
		return
	}
	writeJSON(w, http.StatusOK, organization)
}

func (a *API) updateOrganization(w http.ResponseWriter, r *http.Request) {
	orgID := strings.TrimSpace(r.PathValue("organization_id"))
	var req organizationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	organization, err := a.orgs.Update(r.Context(), orgID, req.Name, req.Description)
	if err != nil {
		handleOrgError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "org.update", map[string]any{
		"organization_id": organization.ID,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"organization_id": organization.ID,
		"name":            organization.Name,
		"description":     organization.Description,
	})
}

func (a *API) deleteOrganization(w http.ResponseWriter, r *http.Request) {
	orgID := strings.TrimSpace(r.PathValue("organization_id"))
	if err := a.orgs.Delete(r.Context(), orgID); err != nil {
		handleOrgError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "org.delete", map[string]any{
		"organization_id": orgID,
	})
	writeJSON(w, http.StatusOK, map[string]any{"message": "organization deleted"})
}

func (a *API) inviteUser(w http.ResponseWriter, r *http.Request) {
	orgID := strings.TrimSpace(r.PathValue("organization_id"))
	var req inviteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.UserEmail) == "" {
		writeError(w, r, http.StatusBadRequest, "user_email is required")
		return
	}

	if err := a.orgs.Invite(r.Context(), orgID, req.UserEmail); err != nil {
		handleOrgError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "org.invite", map[string]any{
		"organization_id": orgID,
		"user_email":      strings.TrimSpace(strings.ToLower(req.UserEmail)),
	})
	writeJSON(w, http.StatusCreated, map[string]any{"message": "user invited"})
}

func handleOrgError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, org.ErrAlreadyMember):
		writeError(w, r, http.StatusBadRequest, "user is already a member of this organization")
	case errors.Is(err, org.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, org.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "organization operation failed")
	}
}
