// Package session holds the identity of whoever is logged in. A Session is an
// explicit value: it is created by a successful login, handed to the components
// that need it, and cleared at logout.
package session

import (
	"context"
	"net/http"
)

// Role is the access level of a user.
type Role string

const (
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAgent || r == RoleAdmin
}

// Session identifies the logged-in user.
type Session struct {
	UserID string `json:"id"`
	Pseudo string `json:"pseudo"`
	Role   Role   `json:"role"`
	Token  string `json:"-"`
}

// Active reports whether the session belongs to a logged-in user.
func (s Session) Active() bool { return s.Pseudo != "" }

// IsAdmin reports whether the session carries the admin role.
func (s Session) IsAdmin() bool { return s.Active() && s.Role == RoleAdmin }

// Clear ends the session.
func (s *Session) Clear() { *s = Session{} }

type contextKey struct{}

// WithContext attaches s to ctx for the lifetime of a request.
func WithContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session attached by WithContext.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok && s.Active()
}

// Guard restricts HTTP routes to authenticated sessions.
type Guard interface {
	// Identify attaches the caller's session when one is presented, and lets
	// anonymous requests through.
	Identify(next http.Handler) http.Handler
	// RequireSession rejects requests without a valid session.
	RequireSession(next http.Handler) http.Handler
	// RequireAdmin rejects requests whose session is not an administrator.
	RequireAdmin(next http.Handler) http.Handler
}
