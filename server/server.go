// Package server builds and runs the storefront HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maplewick/storefront/internal/adminauth"
	"github.com/maplewick/storefront/internal/config"
	"github.com/maplewick/storefront/internal/handlers"
)

type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	handlers   *handlers.Handlers
	auth       *adminauth.Service
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger, h *handlers.Handlers, auth *adminauth.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if h == nil {
		return nil, fmt.Errorf("handlers are required")
	}
	if auth == nil {
		return nil, fmt.Errorf("admin auth is required")
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		handlers: h,
		auth:     auth,
	}

	router := s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

func (s *Server) Run() error {
	s.logger.Info("server starting", "port", s.cfg.Port)

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Close(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return nil
	}

	s.logger.Info("server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// Router exposes the assembled routes for in-process testing.
func (s *Server) Router() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) buildRouter() *mux.Router {
	h := s.handlers

	r := mux.NewRouter()
	r.Use(h.RequestLogger)
	r.Use(h.SecurityHeaders)

	r.HandleFunc("/healthz", h.Health).Methods("GET").Name("health")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET").Name("metrics")

	api := r.PathPrefix("/api").Subrouter()

	// Storefront
	api.HandleFunc("/products", h.Products).Methods("GET").Name("api.products")
	api.HandleFunc("/content", h.ContentPages).Methods("GET").Name("api.content.index")
	api.HandleFunc("/content/{page}", h.ContentPage).Methods("GET").Name("api.content.page")
	api.HandleFunc("/contact", h.SubmitContact).Methods("POST").Name("api.contact")
	api.HandleFunc("/checkout", h.Checkout).Methods("POST").Name("api.checkout")

	// Order tracking
	api.HandleFunc("/orders/track", h.TrackOrder).Methods("POST").Name("api.orders.track")
	api.HandleFunc("/orders/track", h.TrackingState).Methods("GET").Name("api.orders.track.state")
	api.HandleFunc("/orders/track", h.ResetTracking).Methods("DELETE").Name("api.orders.track.reset")
	api.HandleFunc("/orders/track/error", h.ClearTrackingError).Methods("DELETE").Name("api.orders.track.clear_error")

	// Cart
	api.HandleFunc("/cart", h.Cart).Methods("GET").Name("api.cart")
	api.HandleFunc("/cart", h.AddToCart).Methods("POST").Name("api.cart.add")
	api.HandleFunc("/cart", h.ClearCart).Methods("DELETE").Name("api.cart.clear")
	api.HandleFunc("/cart/items/{lineID}", h.UpdateCartLine).Methods("PATCH").Name("api.cart.update")
	api.HandleFunc("/cart/items/{lineID}", h.RemoveCartLine).Methods("DELETE").Name("api.cart.remove")

	// Public admin routes
	api.HandleFunc("/admin/login", h.AdminLogin).Methods("POST").Name("api.admin.login")
	api.HandleFunc("/admin/logout", h.AdminLogout).Methods("POST").Name("api.admin.logout")
	api.HandleFunc("/admin/session", h.AdminSession).Methods("GET").Name("api.admin.session")

	// Protected admin routes - require an authenticated session
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(s.auth.Guard("/admin/login"))

	adminOrders := admin.NewRoute().Subrouter()
	adminOrders.Use(adminauth.RequirePermission("orders"))
	adminOrders.HandleFunc("/orders", h.AdminOrders).Methods("GET").Name("api.admin.orders")
	adminOrders.HandleFunc("/orders/{orderID}/status", h.AdminUpdateOrderStatus).Methods("PATCH").Name("api.admin.orders.status")

	adminProducts := admin.NewRoute().Subrouter()
	adminProducts.Use(adminauth.RequirePermission("products"))
	adminProducts.HandleFunc("/products", h.AdminProducts).Methods("GET").Name("api.admin.products")
	adminProducts.HandleFunc("/products", h.AdminCreateProduct).Methods("POST").Name("api.admin.products.create")
	adminProducts.HandleFunc("/products/{productID}", h.AdminUpdateProduct).Methods("PUT").Name("api.admin.products.update")
	adminProducts.HandleFunc("/products/{productID}", h.AdminDeleteProduct).Methods("DELETE").Name("api.admin.products.delete")

	adminContact := admin.NewRoute().Subrouter()
	adminContact.Use(adminauth.RequirePermission("contact"))
	adminContact.HandleFunc("/contact", h.AdminContactSubmissions).Methods("GET").Name("api.admin.contact")

	adminContent := admin.NewRoute().Subrouter()
	adminContent.Use(adminauth.RequirePermission("content"))
	adminContent.HandleFunc("/content/reload", h.AdminReloadContent).Methods("POST").Name("api.admin.content.reload")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	})

	return r
}
