package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hostelease/hostelease/pkg/auth"
	"github.com/hostelease/hostelease/pkg/response"
)

// Identity is the authenticated caller, stashed in the request context by
// Auth and read back by handlers and the rbac package.
type Identity struct {
	UserID uint
	Role   auth.Role
}

type identityKey struct{}

// WithIdentity stores id in ctx. Exposed for tests that call handlers
// directly without running the middleware.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromCtx returns the authenticated caller, ok=false when the
// request never passed through Auth.
func IdentityFromCtx(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// UserLookup confirms the token's subject still exists and returns the
// authoritative role from the store. Tokens outlive account changes, so
// the store wins over the claim.
type UserLookup func(ctx context.Context, userID uint) (auth.Role, error)

// Auth validates the Authorization bearer token and injects the caller's
// Identity into the request context. When lookup is non-nil the user is
// re-checked against the store on every request; a missing user yields 401.
func Auth(lookup UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				response.Unauthorized(w, "Not authorized, no token")
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			claims, err := auth.ValidateToken(token)
			if err != nil {
				response.Unauthorized(w, "Not authorized, token failed")
				return
			}

			identity := Identity{UserID: claims.UserID, Role: claims.Role}

			if lookup != nil {
				role, err := lookup(r.Context(), claims.UserID)
				if err != nil {
					response.Unauthorized(w, "Not authorized, user not found")
					return
				}
				identity.Role = role
			}

			ctx := WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
