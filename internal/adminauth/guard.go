package adminauth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const sessionKey contextKey = "admin_session"

// WithSession returns a context carrying the admin session.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext returns the admin session attached by the guard, or nil.
func SessionFromContext(ctx context.Context) *Session {
	if ctx == nil {
		return nil
	}
	sess, ok := ctx.Value(sessionKey).(*Session)
	if !ok {
		return nil
	}
	return sess
}

// Guard gates admin routes on an authenticated session. Unauthenticated
// browser navigations are redirected to the login route; API calls get a 401.
// A session with no retrievable token is inconsistent state and is treated as
// unauthenticated. The check runs on every request.
func (s *Service) Guard(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := s.Resume(r.Context(), r)
			if err != nil || sess.Token == "" {
				if sess != nil && sess.Token == "" {
					s.Invalidate(r.Context(), sess.ID)
				}
				deny(w, r, loginPath)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// RequirePermission gates a route on a specific admin permission. Must run
// inside Guard.
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r.Context())
			if !sess.HasPermission(permission) {
				http.Error(w, `{"error":"permission denied"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, loginPath string) {
	if wantsHTML(r) {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"authentication required"}`))
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
