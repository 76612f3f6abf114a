package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/maplewick/storefront/internal/catalog"
	"github.com/maplewick/storefront/internal/contact"
	"github.com/maplewick/storefront/internal/content"
	"github.com/maplewick/storefront/internal/payments"
)

// Products lists the catalog, filtered and sorted by query parameters.
func (h *Handlers) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		h.respondUpstreamError(w, r, err)
		return
	}

	filter := filterFromQuery(r)
	h.respondJSON(w, r, http.StatusOK, map[string]any{
		"products": filter.Apply(products),
	})
}

func filterFromQuery(r *http.Request) catalog.Filter {
	query := r.URL.Query()
	filter := catalog.Filter{
		Category: query.Get("category"),
		Material: query.Get("material"),
		Sort:     query.Get("sort"),
	}
	if min, err := strconv.ParseFloat(query.Get("price_min"), 64); err == nil && min > 0 {
		filter.PriceMin = min
	}
	if max, err := strconv.ParseFloat(query.Get("price_max"), 64); err == nil && max > 0 {
		filter.PriceMax = max
	}
	if inStock, err := strconv.ParseBool(query.Get("in_stock")); err == nil {
		filter.InStockOnly = inStock
	}
	return filter
}

// ContentPage serves a static page such as the delivery or returns policy.
// The content version doubles as an ETag so unchanged pages revalidate cheap.
func (h *Handlers) ContentPage(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["page"]

	etag := fmt.Sprintf(`"v%d"`, h.contentPage.Version())
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	page, err := h.contentPage.Page(slug)
	if err != nil {
		if errors.Is(err, content.ErrPageNotFound) {
			h.respondError(w, r, http.StatusNotFound, "page not found")
			return
		}
		h.respondError(w, r, http.StatusInternalServerError, "failed to load page")
		return
	}

	w.Header().Set("ETag", etag)
	h.respondJSON(w, r, http.StatusOK, page)
}

// ContentPages lists the available page slugs.
func (h *Handlers) ContentPages(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, map[string]any{"pages": h.contentPage.Slugs()})
}

// SubmitContact validates and forwards a contact form submission.
func (h *Handlers) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var input contact.Input
	if !h.decodeJSON(w, r, &input) {
		return
	}

	if err := h.contact.Submit(r.Context(), input); err != nil {
		if errors.Is(err, contact.ErrInvalidInput) {
			h.respondError(w, r, http.StatusBadRequest, "Please fill in all fields with valid values.")
			return
		}
		h.respondUpstreamError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusAccepted, map[string]string{
		"message": "Thanks for reaching out. We will reply within one business day.",
	})
}

type checkoutRequest struct {
	Email string `json:"email"`
}

// Checkout creates a hosted payment session for the visitor's cart.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	if h.checkout == nil {
		h.respondError(w, r, http.StatusServiceUnavailable, "checkout is not enabled")
		return
	}

	var req checkoutRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	visitorID := h.visitorID(w, r)
	visitorCart := h.carts.Get(visitorID)

	result, err := h.checkout.CreateCheckoutSession(r.Context(), payments.CheckoutInput{
		VisitorID:     visitorID,
		CustomerEmail: strings.TrimSpace(req.Email),
		Items:         visitorCart.Items(),
	})
	if err != nil {
		if errors.Is(err, payments.ErrEmptyCart) {
			h.respondError(w, r, http.StatusBadRequest, "Your cart is empty.")
			return
		}
		h.loggerFromContext(r.Context()).Error("checkout session creation failed", "error", err)
		h.respondError(w, r, http.StatusBadGateway, "Checkout is temporarily unavailable. Please try again.")
		return
	}

	h.respondJSON(w, r, http.StatusOK, result)
}
