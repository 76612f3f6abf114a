package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/maplewick/storefront/internal/adminauth"
	"github.com/maplewick/storefront/internal/commerce"
	"github.com/maplewick/storefront/internal/orders"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Admin         commerce.Admin `json:"admin"`
	ExpiresAt     time.Time      `json:"expiresAt"`
	ExpiryWarning bool           `json:"expiryWarning"`
}

func sessionPayload(sess *adminauth.Session) sessionResponse {
	return sessionResponse{
		Admin:         sess.Admin,
		ExpiresAt:     sess.ExpiresAt,
		ExpiryWarning: sess.ExpiryWarning,
	}
}

// AdminLogin exchanges credentials for an admin session cookie.
func (h *Handlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		h.respondError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	sess, err := h.auth.Login(r.Context(), w, req.Email, req.Password)
	if err != nil {
		if commerce.IsUnauthorized(err) || commerce.IsForbidden(err) {
			h.respondError(w, r, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		h.respondUpstreamError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, sessionPayload(sess))
}

// AdminLogout ends the admin session.
func (h *Handlers) AdminLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), w, r); err != nil {
		h.loggerFromContext(r.Context()).Error("logout failed", "error", err)
		h.respondError(w, r, http.StatusInternalServerError, "logout failed")
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "logged out"})
}

// AdminSession reports the current session, including the expiry warning flag
// the console uses to prompt for re-login.
func (h *Handlers) AdminSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.auth.Resume(r.Context(), r)
	if err != nil {
		if errors.Is(err, adminauth.ErrSessionExpired) {
			h.respondError(w, r, http.StatusUnauthorized, "Your session has expired. Please log in again.")
			return
		}
		h.respondError(w, r, http.StatusUnauthorized, "not logged in")
		return
	}
	h.respondJSON(w, r, http.StatusOK, sessionPayload(sess))
}

// AdminOrders lists all orders for the admin console, transformed to the
// same display shape the storefront uses.
func (h *Handlers) AdminOrders(w http.ResponseWriter, r *http.Request) {
	sess := adminauth.SessionFromContext(r.Context())

	upstream, err := h.commerce.ListOrders(r.Context(), sess.Token)
	if err != nil {
		h.respondUpstreamError(w, r, err)
		return
	}

	transformed := make([]*orders.Order, 0, len(upstream))
	for i := range upstream {
		transformed = append(transformed, orders.TransformOrder(&upstream[i]))
	}
	h.respondJSON(w, r, http.StatusOK, map[string]any{"orders": transformed})
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// AdminUpdateOrderStatus changes an order's fulfilment status.
func (h *Handlers) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderStatusRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.Status == "" {
		h.respondError(w, r, http.StatusBadRequest, "status is required")
		return
	}

	sess := adminauth.SessionFromContext(r.Context())
	order, err := h.commerce.UpdateOrderStatus(r.Context(), sess.Token, mux.Vars(r)["orderID"], req.Status)
	if err != nil {
		h.respondUpstreamError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, map[string]any{"order": orders.TransformOrder(order)})
}

// AdminProducts lists products straight from the commerce API, bypassing the
// catalog cache so edits show up immediately.
func (h *Handlers) AdminProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.commerce.ListProducts(r.Context())
	if err != nil {
		h.respondUpstreamError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]any{"products": products})
}

// AdminCreateProduct adds a product and invalidates the catalog cache.
func (h *Handlers) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var input commerce.ProductInput
	if !h.decodeJSON(w, r, &input) {
		return
	}

	sess := adminauth.SessionFromContext(r.Context())
	product, err := h.commerce.CreateProduct(r.Context(), sess.Token, input)
	if err != nil {
		h.respondUpstreamError(w, r, err)
		return
	}

	h.catalog.Invalidate(r.Context())
	h.respondJSON(w, r, http.StatusCreated, map[string]any{"product": product})
}

// AdminUpdateProduct updates a product and invalidates the catalog cache.
func (h *Handlers) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var input commerce.ProductInput
	if !h.decodeJSON(w, r, &input) {
		return
	}

	sess := adminauth.SessionFromContext(r.Context())
	product, err := h.commerce.UpdateProduct(r.Context(), sess.Token, mux.Vars(r)["productID"], input)
	if err != nil {
		h.respondUpstreamError(w, r, err)
		return
	}

	h.catalog.Invalidate(r.Context())
	h.respondJSON(w, r, http.StatusOK, map[string]any{"product": product})
}

// AdminDeleteProduct removes a product and invalidates the catalog cache.
func (h *Handlers) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	sess := adminauth.SessionFromContext(r.Context())
	if err := h.commerce.DeleteProduct(r.Context(), sess.Token, mux.Vars(r)["productID"]); err != nil {
		h.respondUpstreamError(w, r, err)
		return
	}

	h.catalog.Invalidate(r.Context())
	h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

// AdminContactSubmissions lists contact form submissions.
func (h *Handlers) AdminContactSubmissions(w http.ResponseWriter, r *http.Request) {
	sess := adminauth.SessionFromContext(r.Context())
	submissions, err := h.commerce.ListContactSubmissions(r.Context(), sess.Token)
	if err != nil {
		h.respondUpstreamError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]any{"submissions": submissions})
}

// AdminReloadContent re-reads the static pages file.
func (h *Handlers) AdminReloadContent(w http.ResponseWriter, r *http.Request) {
	if err := h.contentPage.Reload(); err != nil {
		h.loggerFromContext(r.Context()).Error("content reload failed", "error", err)
		h.respondError(w, r, http.StatusInternalServerError, "content reload failed")
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]any{
		"status": "reloaded",
		"pages":  h.contentPage.Slugs(),
	})
}
