// Package rbac gates routes by the caller's role. It reads the Identity
// stashed by middleware.Auth, so wire Auth first.
package rbac

import (
	"net/http"

	"github.com/hostelease/hostelease/pkg/auth"
	"github.com/hostelease/hostelease/pkg/middleware"
	"github.com/hostelease/hostelease/pkg/response"
)

// Require allows only callers whose role is in the given set.
// An unauthenticated request is 401, a wrong role is 403.
func Require(roles ...auth.Role) func(http.Handler) http.Handler {
	allowed := make(map[auth.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := middleware.IdentityFromCtx(r.Context())
			if !ok {
				response.Unauthorized(w, "")
				return
			}
			if !allowed[identity.Role] {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly is shorthand for Require(auth.RoleAdmin).
func AdminOnly() func(http.Handler) http.Handler {
	return Require(auth.RoleAdmin)
}
