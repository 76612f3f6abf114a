// Package handlers provides the storefront's HTTP request handlers.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/maplewick/storefront/internal/adminauth"
	"github.com/maplewick/storefront/internal/cart"
	"github.com/maplewick/storefront/internal/catalog"
	"github.com/maplewick/storefront/internal/commerce"
	"github.com/maplewick/storefront/internal/config"
	"github.com/maplewick/storefront/internal/contact"
	"github.com/maplewick/storefront/internal/content"
	"github.com/maplewick/storefront/internal/logging"
	"github.com/maplewick/storefront/internal/payments"
)

const maxJSONBodyBytes = 1 << 20 // 1 MB

// CheckoutService creates hosted payment sessions from cart contents.
type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, input payments.CheckoutInput) (*payments.CheckoutResult, error)
}

// Handlers provides HTTP request handlers for the Maplewick storefront.
type Handlers struct {
	config      *config.Config
	commerce    *commerce.Client
	catalog     *catalog.Service
	contentPage *content.Store
	carts       *cart.Manager
	checkout    CheckoutService
	contact     *contact.Service
	auth        *adminauth.Service
	logger      *slog.Logger

	trackers *trackerRegistry
}

type Dependencies struct {
	Config   *config.Config
	Commerce *commerce.Client
	Catalog  *catalog.Service
	Content  *content.Store
	Carts    *cart.Manager
	Checkout CheckoutService
	Contact  *contact.Service
	Auth     *adminauth.Service
	Logger   *slog.Logger
}

func New(deps Dependencies) (*Handlers, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if deps.Config == nil {
		return nil, fmt.Errorf("handlers dependencies: config is required")
	}
	if deps.Commerce == nil {
		return nil, fmt.Errorf("handlers dependencies: commerce client is required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("handlers dependencies: catalog is required")
	}
	if deps.Content == nil {
		return nil, fmt.Errorf("handlers dependencies: content store is required")
	}
	if deps.Carts == nil {
		return nil, fmt.Errorf("handlers dependencies: cart manager is required")
	}
	if deps.Contact == nil {
		return nil, fmt.Errorf("handlers dependencies: contact service is required")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("handlers dependencies: admin auth is required")
	}

	trackers, err := newTrackerRegistry(deps.Commerce, logger)
	if err != nil {
		return nil, fmt.Errorf("handlers dependencies: tracker registry: %w", err)
	}

	return &Handlers{
		config:      deps.Config,
		commerce:    deps.Commerce,
		catalog:     deps.Catalog,
		contentPage: deps.Content,
		carts:       deps.Carts,
		checkout:    deps.Checkout,
		contact:     deps.Contact,
		auth:        deps.Auth,
		logger:      logger.With("component", "handlers"),
		trackers:    trackers,
	}, nil
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handlers) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, h.logger)
}

func (h *Handlers) respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.loggerFromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.respondJSON(w, r, status, map[string]string{"error": message})
}

// respondUpstreamError maps a commerce API failure to a response status. The
// upstream status is passed through for 4xx; everything else is a 502.
func (h *Handlers) respondUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	h.loggerFromContext(r.Context()).Error("upstream request failed", "error", err)

	if apiErr, ok := commerce.AsAPIError(err); ok {
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			h.respondError(w, r, apiErr.StatusCode, apiErr.Message)
			return
		}
	}
	h.respondError(w, r, http.StatusBadGateway, "upstream service unavailable")
}

func (h *Handlers) decodeJSON(w http.ResponseWriter, r *http.Request, out any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
