package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const visitorCookieName = "maplewick_visitor"

// visitorID returns the visitor identifier for the request, minting and
// setting a new one when the cookie is absent or unreadable.
func (h *Handlers) visitorID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(visitorCookieName); err == nil {
		if _, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
			return cookie.Value
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		HttpOnly: true,
		Secure:   SecureCookiesFromConfig(h.config),
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
