package gateway

import (
	"errors"
	"net/http"

	"github.com/ecooverlay/server/pkg/identity"
	"github.com/ecooverlay/server/pkg/logger"
	"github.com/ecooverlay/server/pkg/rbac"
	"github.com/ecooverlay/server/pkg/secevent"
)

// RequirePermission gates a route on an RBAC permission. It expects
// the session gate to have stored the user ID in context; requests
// without one get 401. Store failures deny with 403 rather than
// letting an outage grant access.
func (g *Gateway) RequirePermission(authz *rbac.Authorizer, p rbac.Permission) func(http.Handler) http.Handler {
	return g.requireAuthz(authz, func(r *http.Request, userID string) error {
		return authz.Authorize(r.Context(), userID, p)
	})
}

// RequireRole gates a route on a minimum role.
func (g *Gateway) RequireRole(authz *rbac.Authorizer, role rbac.Role) func(http.Handler) http.Handler {
	return g.requireAuthz(authz, func(r *http.Request, userID string) error {
		return authz.RequireRole(r.Context(), userID, role)
	})
}

func (g *Gateway) requireAuthz(authz *rbac.Authorizer, check func(*http.Request, string) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := identity.UserID(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Authentication required", CodeAuthenticationRequired)
				return
			}

			if err := check(r, userID); err != nil {
				if !errors.Is(err, rbac.ErrForbidden) {
					g.log.ErrorContext(r.Context(), "authorization check failed",
						logger.Error(err),
						logger.UserID(userID),
					)
				}
				g.events.Log(r.Context(), secevent.Event{
					IP:         g.extractor.GetIP(r),
					UserID:     userID,
					Action:     secevent.ActionDenied,
					Resource:   r.URL.Path,
					Method:     r.Method,
					StatusCode: http.StatusForbidden,
					UserAgent:  r.UserAgent(),
				})
				writeError(w, http.StatusForbidden, "Forbidden", CodeForbidden)
				return
			}

			// The grant is cached at this point; expose the role to
			// downstream handlers.
			if grant, err := authz.Grant(r.Context(), userID); err == nil {
				r = r.WithContext(rbac.SetRoleToContext(r.Context(), grant.Role))
			}
			next.ServeHTTP(w, r)
		})
	}
}
