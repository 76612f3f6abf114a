package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/maplewick/storefront/internal/adminauth"
	"github.com/maplewick/storefront/internal/cache"
	"github.com/maplewick/storefront/internal/cart"
	"github.com/maplewick/storefront/internal/catalog"
	"github.com/maplewick/storefront/internal/commerce"
	"github.com/maplewick/storefront/internal/config"
	"github.com/maplewick/storefront/internal/contact"
	"github.com/maplewick/storefront/internal/content"
	"github.com/maplewick/storefront/internal/handlers"
	"github.com/maplewick/storefront/internal/observability"
	"github.com/maplewick/storefront/internal/payments"
	"github.com/maplewick/storefront/internal/session"
)

type App struct {
	Config         *config.Config
	Logger         *slog.Logger
	CacheProvider  cache.Provider
	SessionManager *session.Manager
	AuthService    *adminauth.Service
	Handlers       *handlers.Handlers

	stopContentWatch chan struct{}
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	cacheProvider, err := cache.NewProvider(cache.Config{
		Provider:              cfg.CacheProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache provider: %w", err)
	}

	sessionStore, err := session.NewStore(startupCtx, session.Config{
		Provider:              cfg.SessionStoreProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}
	sessionManager := session.NewManager(sessionStore, cfg.SessionSigningSecret, handlers.SecureCookiesFromConfig(cfg))

	commerceClient := commerce.NewClient(cfg.CommerceAPIURL, cfg.CommerceAPITimeout, logger.With("component", "commerce_client"))

	authService, err := adminauth.NewService(commerceClient, sessionManager, logger.With("component", "admin_auth"))
	if err != nil {
		closeSessionManager(logger, sessionManager)
		closeCacheProvider(logger, cacheProvider)
		return nil, fmt.Errorf("failed to initialize admin auth: %w", err)
	}

	contentStore, err := content.NewStore(cfg.ContentFile, logger)
	if err != nil {
		authService.Close()
		closeSessionManager(logger, sessionManager)
		closeCacheProvider(logger, cacheProvider)
		return nil, fmt.Errorf("failed to load content pages: %w", err)
	}

	var notifier contact.Notifier
	if cfg.ResendAPIKey != "" {
		resendNotifier, notifierErr := contact.NewResendNotifier(cfg.ResendAPIKey, cfg.ContactSender, cfg.ContactRecipient)
		if notifierErr != nil {
			authService.Close()
			closeSessionManager(logger, sessionManager)
			closeCacheProvider(logger, cacheProvider)
			return nil, fmt.Errorf("failed to initialize contact notifier: %w", notifierErr)
		}
		notifier = resendNotifier
	}

	contactService, err := contact.NewService(commerceClient, notifier, logger)
	if err != nil {
		authService.Close()
		closeSessionManager(logger, sessionManager)
		closeCacheProvider(logger, cacheProvider)
		return nil, fmt.Errorf("failed to initialize contact service: %w", err)
	}

	var checkout handlers.CheckoutService
	if cfg.StripeSecretKey != "" {
		stripeClient, stripeErr := payments.NewClient(cfg.StripeSecretKey, strings.TrimRight(cfg.BaseURL, "/"))
		if stripeErr != nil {
			authService.Close()
			closeSessionManager(logger, sessionManager)
			closeCacheProvider(logger, cacheProvider)
			return nil, fmt.Errorf("failed to initialize payments: %w", stripeErr)
		}
		checkout = stripeClient
	}

	h, err := handlers.New(handlers.Dependencies{
		Config:   cfg,
		Commerce: commerceClient,
		Catalog:  catalog.NewService(commerceClient, cacheProvider, logger.With("component", "catalog")),
		Content:  contentStore,
		Carts:    cart.NewManager(),
		Checkout: checkout,
		Contact:  contactService,
		Auth:     authService,
		Logger:   logger,
	})
	if err != nil {
		authService.Close()
		closeSessionManager(logger, sessionManager)
		closeCacheProvider(logger, cacheProvider)
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	stopContentWatch := make(chan struct{})
	go watchContentReloads(contentStore.Subscribe(), contentStore, logger, stopContentWatch)

	return &App{
		Config:         cfg,
		Logger:         logger,
		CacheProvider:  cacheProvider,
		SessionManager: sessionManager,
		AuthService:    authService,
		Handlers:       h,

		stopContentWatch: stopContentWatch,
	}, nil
}

// watchContentReloads surfaces content reloads in logs and metrics.
func watchContentReloads(reloads <-chan struct{}, store *content.Store, logger *slog.Logger, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-reloads:
			observability.ContentReloadsTotal.Inc()
			logger.Info("content pages reloaded", "version", store.Version())
		}
	}
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.stopContentWatch != nil {
		close(a.stopContentWatch)
	}
	if a.AuthService != nil {
		a.AuthService.Close()
	}
	if a.SessionManager != nil {
		closeSessionManager(a.Logger, a.SessionManager)
	}
	if a.CacheProvider != nil {
		closeCacheProvider(a.Logger, a.CacheProvider)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	format := strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	default:
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level: cfg.LogLevel,
		}))
	}
}

func closeSessionManager(logger *slog.Logger, manager *session.Manager) {
	if manager == nil {
		return
	}
	if err := manager.Close(); err != nil && logger != nil {
		logger.Warn("failed to close session manager", "error", err)
	}
}

func closeCacheProvider(logger *slog.Logger, provider cache.Provider) {
	if provider == nil {
		return
	}
	if err := provider.Close(); err != nil && logger != nil {
		logger.Warn("failed to close cache provider", "error", err)
	}
}
