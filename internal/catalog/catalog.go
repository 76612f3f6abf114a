// Package catalog serves product listings through the cache provider.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/maplewick/storefront/internal/cache"
	"github.com/maplewick/storefront/internal/commerce"
	"github.com/maplewick/storefront/internal/logging"
)

const productsTTL = 5 * time.Minute

// ProductAPI is the slice of the commerce client the catalog needs.
type ProductAPI interface {
	ListProducts(ctx context.Context) ([]commerce.Product, error)
}

type Service struct {
	api    ProductAPI
	cache  cache.Provider
	logger *slog.Logger
}

func NewService(api ProductAPI, cacheProvider cache.Provider, logger *slog.Logger) *Service {
	return &Service{
		api:    api,
		cache:  cacheProvider,
		logger: logger,
	}
}

// Products returns the catalog, serving from cache when fresh. Cache failures
// degrade to an upstream fetch, never to an error.
func (s *Service) Products(ctx context.Context) ([]commerce.Product, error) {
	logger := logging.FromContext(ctx, s.logger)
	key := cache.CatalogKey("products")

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var products []commerce.Product
		if unmarshalErr := json.Unmarshal([]byte(cached), &products); unmarshalErr == nil {
			return products, nil
		}
		logger.Warn("discarding unreadable cached catalog", "key", key)
		_ = s.cache.Delete(ctx, key)
	} else if !errors.Is(err, cache.ErrNotFound) {
		logger.Warn("catalog cache read failed", "error", err)
	}

	products, err := s.api.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(products); marshalErr == nil {
		if setErr := s.cache.Set(ctx, key, string(payload), productsTTL); setErr != nil {
			logger.Warn("catalog cache write failed", "error", setErr)
		}
	}

	return products, nil
}

// Invalidate drops the cached catalog, called after admin product mutations.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.CatalogKey("products")); err != nil {
		logging.FromContext(ctx, s.logger).Warn("catalog cache invalidation failed", "error", err)
	}
}
