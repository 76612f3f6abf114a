// Package adminauth owns the admin console session lifecycle: login, logout,
// expiry scheduling, and background token verification.
package adminauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/maplewick/storefront/internal/commerce"
	"github.com/maplewick/storefront/internal/session"
)

var (
	ErrNoSession      = errors.New("no active admin session")
	ErrSessionExpired = errors.New("admin session expired")
)

// expiryWarningLead is how long before token expiry the warning fires. The
// warning arms a second timer that performs the automatic logout.
const expiryWarningLead = 5 * time.Minute

// verifyInterval throttles background token verification so a burst of
// guarded requests does not fan out into one upstream verify call each.
const verifyInterval = 5 * time.Minute

// AuthAPI is the slice of the commerce client this service needs.
type AuthAPI interface {
	Login(ctx context.Context, input commerce.LoginInput) (*commerce.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Verify(ctx context.Context, token string) (bool, error)
}

// Session is an authenticated admin session as seen by callers.
type Session struct {
	ID            string
	Admin         commerce.Admin
	Token         string
	ExpiresAt     time.Time
	ExpiryWarning bool
}

// HasPermission reports whether the session's admin holds the permission or
// the wildcard. Never panics; a nil session has no permissions.
func (s *Session) HasPermission(permission string) bool {
	if s == nil {
		return false
	}
	for _, p := range s.Admin.Permissions {
		if p == permission || p == "*" {
			return true
		}
	}
	return false
}

type timerPair struct {
	warn   *time.Timer
	logout *time.Timer
}

func (p *timerPair) stop() {
	if p == nil {
		return
	}
	if p.warn != nil {
		p.warn.Stop()
	}
	if p.logout != nil {
		p.logout.Stop()
	}
}

// Service is the sole writer of persisted admin sessions. Readers (the guard,
// handlers attaching the bearer header) treat session data as read-only.
type Service struct {
	api      AuthAPI
	sessions *session.Manager
	logger   *slog.Logger
	now      func() time.Time

	mu           sync.Mutex
	timers       map[string]*timerPair
	warned       map[string]bool
	lastVerified map[string]time.Time
	closed       bool
}

func NewService(api AuthAPI, sessions *session.Manager, logger *slog.Logger) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("admin auth api is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &Service{
		api:          api,
		sessions:     sessions,
		logger:       logger,
		now:          time.Now,
		timers:       make(map[string]*timerPair),
		warned:       make(map[string]bool),
		lastVerified: make(map[string]time.Time),
	}, nil
}

// Login exchanges credentials for a bearer token and opens a session. On
// failure nothing is stored and the error is returned for the login form.
func (s *Service) Login(ctx context.Context, w http.ResponseWriter, email, password string) (*Session, error) {
	result, err := s.api.Login(ctx, commerce.LoginInput{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(time.Duration(result.ExpiresIn) * time.Second)
	data := &session.Data{
		AdminID:     result.Admin.ID,
		AdminName:   result.Admin.Name,
		AdminEmail:  result.Admin.Email,
		Permissions: result.Admin.Permissions,
		Token:       result.Token,
		ExpiresAt:   expiresAt.UnixMilli(),
	}

	sessionID, err := s.sessions.CreateSession(ctx, w, data)
	if err != nil {
		return nil, fmt.Errorf("failed to persist admin session: %w", err)
	}

	s.scheduleExpiry(sessionID, expiresAt)

	return &Session{
		ID:        sessionID,
		Admin:     result.Admin,
		Token:     result.Token,
		ExpiresAt: expiresAt,
	}, nil
}

// Resume rehydrates the session for a request. The persisted session is
// trusted optimistically so a restart does not bounce a logged-in admin; the
// token is then re-verified in the background, at most once per session per
// verifyInterval. Only an explicit invalid-token response clears the session;
// a failed verification call does not.
func (s *Service) Resume(ctx context.Context, r *http.Request) (*Session, error) {
	sessionID, data, err := s.sessions.GetSession(ctx, r)
	if err != nil {
		return nil, ErrNoSession
	}

	expiresAt := time.UnixMilli(data.ExpiresAt)
	if !s.now().Before(expiresAt) {
		s.Invalidate(context.WithoutCancel(ctx), sessionID)
		return nil, ErrSessionExpired
	}

	s.ensureScheduled(sessionID, expiresAt)

	s.mu.Lock()
	warning := s.warned[sessionID]
	verify := s.now().Sub(s.lastVerified[sessionID]) >= verifyInterval
	if verify {
		s.lastVerified[sessionID] = s.now()
	}
	s.mu.Unlock()

	if verify {
		go s.verifySession(context.WithoutCancel(ctx), sessionID, data.Token)
	}

	return &Session{
		ID:    sessionID,
		Admin: commerce.Admin{ID: data.AdminID, Name: data.AdminName, Email: data.AdminEmail, Permissions: data.Permissions},
		Token: data.Token,

		ExpiresAt:     expiresAt,
		ExpiryWarning: warning,
	}, nil
}

// Logout calls the upstream logout best-effort and always clears local state.
func (s *Service) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	sessionID, data, err := s.sessions.GetSession(ctx, r)
	if err == nil {
		if logoutErr := s.api.Logout(ctx, data.Token); logoutErr != nil && s.logger != nil {
			s.logger.Warn("upstream logout failed", "error", logoutErr)
		}
		s.cancelTimers(sessionID)
	}
	return s.sessions.DestroySession(ctx, w, r)
}

// RefreshToken is intentionally equivalent to logout: the upstream API has no
// refresh flow, so the only way to a new token is a fresh login.
func (s *Service) RefreshToken(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return s.Logout(ctx, w, r)
}

// Invalidate drops a session without touching the upstream API.
func (s *Service) Invalidate(ctx context.Context, sessionID string) {
	s.cancelTimers(sessionID)
	s.sessions.Delete(ctx, sessionID)
}

// Close stops all pending expiry timers.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, pair := range s.timers {
		pair.stop()
		delete(s.timers, id)
	}
}

func (s *Service) verifySession(ctx context.Context, sessionID, token string) {
	valid, err := s.api.Verify(ctx, token)
	if err != nil {
		// Fail open: a broken health check must not log out a valid admin.
		if s.logger != nil {
			s.logger.Warn("token verification failed, keeping session", "error", err)
		}
		return
	}
	if !valid {
		if s.logger != nil {
			s.logger.Info("token rejected upstream, clearing session", "session_id", sessionID)
		}
		s.Invalidate(ctx, sessionID)
	}
}

// scheduleExpiry arms the warning/logout timer pair, replacing any prior pair
// for the session.
func (s *Service) scheduleExpiry(sessionID string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduleExpiryLocked(sessionID, expiresAt)
}

func (s *Service) ensureScheduled(sessionID string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.timers[sessionID]; ok {
		return
	}
	s.scheduleExpiryLocked(sessionID, expiresAt)
}

func (s *Service) scheduleExpiryLocked(sessionID string, expiresAt time.Time) {
	if s.closed {
		return
	}
	if pair, ok := s.timers[sessionID]; ok {
		pair.stop()
		delete(s.timers, sessionID)
	}
	delete(s.warned, sessionID)

	untilWarning := expiresAt.Add(-expiryWarningLead).Sub(s.now())
	if untilWarning < 0 {
		untilWarning = 0
	}

	pair := &timerPair{}
	pair.warn = time.AfterFunc(untilWarning, func() {
		s.markWarned(sessionID)
		remaining := expiresAt.Sub(s.now())
		if remaining < 0 {
			remaining = 0
		}
		s.mu.Lock()
		if current, ok := s.timers[sessionID]; ok && current == pair && !s.closed {
			pair.logout = time.AfterFunc(remaining, func() {
				if s.logger != nil {
					s.logger.Info("admin session expired, logging out", "session_id", sessionID)
				}
				s.Invalidate(context.Background(), sessionID)
			})
		}
		s.mu.Unlock()
	})
	s.timers[sessionID] = pair
}

func (s *Service) markWarned(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warned[sessionID] = true
}

func (s *Service) cancelTimers(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pair, ok := s.timers[sessionID]; ok {
		pair.stop()
		delete(s.timers, sessionID)
	}
	delete(s.warned, sessionID)
	delete(s.lastVerified, sessionID)
}

// HasPendingExpiry reports whether a timer pair is armed for the session.
func (s *Service) HasPendingExpiry(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[sessionID]
	return ok
}
