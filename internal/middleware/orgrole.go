// internal/middleware/orgrole.go
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/clearmind-health/clearmind/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const authContextKey contextKey = "clearmind_auth_context"

// AuthContext carries the authenticated user together with the organization
// scope the request runs under.
type AuthContext struct {
	User             *model.User
	OrganizationID   uuid.UUID
	OrganizationRole model.OrgRole
}

// IsAdmin reports whether the resolved organization role is administrative.
func (a *AuthContext) IsAdmin() bool {
	return a.OrganizationRole == model.OrgRoleAdmin || a.OrganizationRole == model.OrgRoleSuperAdmin
}

// RequireOrgRole gates a route on membership in the organization named by
// the {orgID} URL parameter. There is no role hierarchy: a handler accepts
// exactly the roles it lists. A global super_admin passes every gate without
// a membership row and acts with the super_admin organization role.
//
// The membership lookup is the only query that runs before the gate decides,
// so unauthorized callers never reach domain data.
func RequireOrgRole(members repository.MemberRepositoryIface, allowed ...model.OrgRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok {
				respondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			orgID, err := uuid.Parse(chi.URLParam(r, "orgID"))
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "Organization ID is required")
				return
			}

			// Super admins have access to all organizations
			if user.Role == model.RoleSuperAdmin {
				authCtx := &AuthContext{
					User:             user,
					OrganizationID:   orgID,
					OrganizationRole: model.OrgRoleSuperAdmin,
				}
				next.ServeHTTP(w, r.WithContext(withAuthContext(r.Context(), authCtx)))
				return
			}

			member, err := members.Find(r.Context(), orgID, user.ID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					respondWithError(w, http.StatusForbidden, "Access denied: Not a member of this organization")
					return
				}
				respondWithError(w, http.StatusInternalServerError, "Failed to verify organization access")
				return
			}

			if !roleAllowed(member.Role, allowed) {
				respondWithError(w, http.StatusForbidden, fmt.Sprintf("Access denied: Required role(s): %s", joinRoles(allowed)))
				return
			}

			authCtx := &AuthContext{
				User:             user,
				OrganizationID:   orgID,
				OrganizationRole: member.Role,
			}
			next.ServeHTTP(w, r.WithContext(withAuthContext(r.Context(), authCtx)))
		})
	}
}

// AuthContextFrom returns the organization AuthContext stored by RequireOrgRole.
func AuthContextFrom(ctx context.Context) (*AuthContext, bool) {
	authCtx, ok := ctx.Value(authContextKey).(*AuthContext)
	return authCtx, ok
}

func withAuthContext(ctx context.Context, authCtx *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, authCtx)
}

func roleAllowed(role model.OrgRole, allowed []model.OrgRole) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

func joinRoles(roles []model.OrgRole) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
