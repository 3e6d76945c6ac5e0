package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/georgemunganga/cloture-backend/internal/logger"
	"github.com/georgemunganga/cloture-backend/internal/modules/session"
)

// Middleware resolves Bearer tokens into sessions. It implements session.Guard.
type Middleware struct {
	service Service
}

func NewMiddleware(service Service) *Middleware {
	return &Middleware{service: service}
}

var _ session.Guard = (*Middleware)(nil)

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func (m *Middleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if sess, err := m.service.Verify(r.Context(), token); err == nil {
				r = r.WithContext(session.WithContext(r.Context(), sess))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respond(w, http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			return
		}
		sess, err := m.service.Verify(r.Context(), token)
		if err != nil {
			if !errors.Is(err, ErrInvalidToken) {
				log := logger.FromContext(r.Context())
				log.Error().Err(err).Msg("session lookup failed")
			}
			respond(w, http.StatusUnauthorized, map[string]string{"error": ErrInvalidToken.Error()})
			return
		}
		next.ServeHTTP(w, r.WithContext(session.WithContext(r.Context(), sess)))
	})
}

func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, _ := session.FromContext(r.Context()); !sess.IsAdmin() {
			respond(w, http.StatusForbidden, map[string]string{"error": "administrator role required"})
			return
		}
		next.ServeHTTP(w, r)
	}))
}
