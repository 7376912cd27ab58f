package server

import (
	"context"
	"net/http"

	"photostream/apperror"
	"photostream/users"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

// ContextKeyIdentity stores the resolved Identity of an authenticated
// request.
const ContextKeyIdentity ContextKey = "identity"

// Identity is the minimal resolved identity attached to authenticated
// requests: enough for authorization checks, nothing more.
type Identity struct {
	SubjectID string
	Role      users.RoleType
}

// IdentityFrom extracts the resolved identity from a request context.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(ContextKeyIdentity).(Identity)
	return identity, ok
}

// RequireAuth is the identity gate: it extracts the access credential from
// the cookie carrier, verifies it with the locally held codec, and attaches
// the resolved identity to the request context. Any verification failure
// rejects the request before business logic runs. The gate performs no I/O,
// so every service enforces identity without depending on the auth
// service's availability. A logged-out session's unexpired access token
// still passes: nothing stateless can revoke it early.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(accessCookieName)
			if err != nil || cookie.Value == "" {
				s.respondError(w, apperror.New(apperror.Authentication, "you need to log in"))
				return
			}

			claims, err := s.accessCodec.Verify(cookie.Value)
			if err != nil {
				// Malformed, forged and expired all get the same answer.
				s.respondError(w, apperror.Wrap(err, apperror.Authentication, "session is invalid or has expired"))
				return
			}

			identity := Identity{SubjectID: claims.Subject, Role: claims.Role}
			next(w, r.WithContext(context.WithValue(r.Context(), ContextKeyIdentity, identity)))
		}
	}
}

// RequireRole composes after RequireAuth and rejects with an authorization
// failure — distinct from the gate's authentication failure — when the
// resolved role is not in the allow-list.
func (s *Server) RequireRole(allowed ...users.RoleType) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				s.respondError(w, apperror.New(apperror.Authentication, "you need to log in"))
				return
			}

			for _, role := range allowed {
				if identity.Role == role {
					next(w, r)
					return
				}
			}
			s.respondError(w, apperror.New(apperror.Authorization, "you do not have permission to do this"))
		}
	}
}
