package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"orgbase.org/internal/auth"
	"orgbase.org/internal/org"
)

// requireAccess is the authorization gate. The required access level is
// fixed per route at registration time. Routes without an organization_id
// path parameter have no ownership check to apply and pass unconditionally.
// An unknown organization surfaces as 404 before the membership check; a
// non-member or an insufficient rank is 403. On success the resolved
// organization is attached to the request context.
func (a *API) requireAccess(required auth.AccessLevel, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orgID := strings.TrimSpace(r.PathValue("organization_id"))
		if orgID == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			unauthorized(w, r, "access token required")
			return
		}

		organization, err := a.orgs.Get(r.Context(), orgID)
		if err != nil {
			switch {
			case errors.Is(err, org.ErrNotFound):
				writeError(w, r, http.StatusNotFound, "organization not found")
			case errors.Is(err, org.ErrInvalidInput):
				writeError(w, r, http.StatusBadRequest, "invalid organization id")
			default:
				writeError(w, r, http.StatusInternalServerError, "authorization error")
			}
			return
		}

		// Membership is keyed by the immutable user id; email is only a
		// credential field.
		member, ok := organization.MemberByUserID(user.ID)
		if !ok {
			writeError(w, r, http.StatusForbidden, "not a member of this organization")
			return
		}
		if !member.AccessLevel.Allows(required) {
			writeError(w, r, http.StatusForbidden, fmt.Sprintf("%s access required", required))
			return
		}

		ctx := org.ContextWithOrganization(r.Context(), organization)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
