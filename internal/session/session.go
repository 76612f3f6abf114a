// Package session stores admin console sessions behind a signed cookie.
package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	cookieName = "maplewick_admin_session"
	defaultTTL = 24 * time.Hour
)

// Data is the persisted admin session: the upstream bearer token plus the
// admin record and the token's absolute expiry in epoch milliseconds.
type Data struct {
	AdminID     string   `json:"admin_id"`
	AdminName   string   `json:"admin_name"`
	AdminEmail  string   `json:"admin_email"`
	Permissions []string `json:"permissions"`
	Token       string   `json:"token"`
	ExpiresAt   int64    `json:"expires_at"`
	CreatedAt   int64    `json:"created_at"`
}

// Store defines the interface for session storage.
type Store interface {
	Get(ctx context.Context, key string) (*Data, bool)
	Set(ctx context.Context, key string, data *Data, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Close() error
}

// Manager handles session creation, lookup, and teardown. Cookie values are
// signed tokens carrying only the session id; the bearer token never leaves
// the server.
type Manager struct {
	store  Store
	signer *cookieSigner
	secure bool
}

func NewManager(store Store, signingSecret string, secure bool) *Manager {
	return &Manager{
		store:  store,
		signer: newCookieSigner(signingSecret),
		secure: secure,
	}
}

func (m *Manager) Close() error {
	if m == nil || m.store == nil {
		return nil
	}
	return m.store.Close()
}

// CreateSession persists the session and sets the signed cookie. The store
// entry expires alongside the upstream token.
func (m *Manager) CreateSession(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	if ctx == nil {
		return "", fmt.Errorf("context is required")
	}
	if data == nil {
		return "", fmt.Errorf("session data is required")
	}

	sessionID := uuid.NewString()
	ttl := sessionTTL(data)

	sessionData := cloneData(data)
	sessionData.CreatedAt = time.Now().Unix()
	m.store.Set(ctx, sessionID, sessionData, ttl)

	signed, err := m.signer.sign(sessionID, time.Now().Add(ttl))
	if err != nil {
		m.store.Delete(ctx, sessionID)
		return "", fmt.Errorf("failed to sign session cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return sessionID, nil
}

// SessionID extracts and verifies the session id from the request cookie.
func (m *Manager) SessionID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return "", fmt.Errorf("no session cookie found: %w", err)
	}
	sessionID, err := m.signer.verify(cookie.Value)
	if err != nil {
		return "", fmt.Errorf("invalid session cookie: %w", err)
	}
	return sessionID, nil
}

// GetSession retrieves the session data for the request.
func (m *Manager) GetSession(ctx context.Context, r *http.Request) (string, *Data, error) {
	sessionID, err := m.SessionID(r)
	if err != nil {
		return "", nil, err
	}

	if ctx == nil {
		ctx = r.Context()
	}

	data, ok := m.store.Get(ctx, sessionID)
	if !ok {
		return "", nil, fmt.Errorf("session not found or expired")
	}

	return sessionID, data, nil
}

// Get looks up a session by id, bypassing the cookie.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Data, bool) {
	return m.store.Get(ctx, sessionID)
}

// Delete removes a session by id.
func (m *Manager) Delete(ctx context.Context, sessionID string) {
	m.store.Delete(ctx, sessionID)
}

// DestroySession removes the session and clears the cookie.
func (m *Manager) DestroySession(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if ctx == nil {
		ctx = r.Context()
	}
	if sessionID, err := m.SessionID(r); err == nil {
		m.store.Delete(ctx, sessionID)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func sessionTTL(data *Data) time.Duration {
	if data.ExpiresAt <= 0 {
		return defaultTTL
	}
	ttl := time.Until(time.UnixMilli(data.ExpiresAt))
	if ttl <= 0 {
		return time.Minute
	}
	return ttl
}

func cloneData(data *Data) *Data {
	if data == nil {
		return nil
	}
	cloned := *data
	cloned.Permissions = append([]string(nil), data.Permissions...)
	return &cloned
}
