package catalog

import (
	"context"
	"testing"

	"github.com/maplewick/storefront/internal/cache"
	"github.com/maplewick/storefront/internal/commerce"
)

type fakeProductAPI struct {
	calls    int
	products []commerce.Product
	err      error
}

func (f *fakeProductAPI) ListProducts(ctx context.Context) ([]commerce.Product, error) {
	f.calls++
	return f.products, f.err
}

func newTestCache(t *testing.T) cache.Provider {
	t.Helper()
	provider, err := cache.NewMemoryProvider()
	if err != nil {
		t.Fatalf("NewMemoryProvider() error = %v", err)
	}
	return provider
}

func TestProductsServedFromCache(t *testing.T) {
	t.Parallel()

	api := &fakeProductAPI{products: sampleProducts()}
	svc := NewService(api, newTestCache(t), nil)

	first, err := svc.Products(context.Background())
	if err != nil {
		t.Fatalf("Products() error = %v", err)
	}
	second, err := svc.Products(context.Background())
	if err != nil {
		t.Fatalf("Products() error = %v", err)
	}

	if api.calls != 1 {
		t.Fatalf("upstream called %d times, want 1", api.calls)
	}
	if len(first) != len(second) || len(first) != 4 {
		t.Fatalf("unexpected product counts: %d vs %d", len(first), len(second))
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	t.Parallel()

	api := &fakeProductAPI{products: sampleProducts()}
	svc := NewService(api, newTestCache(t), nil)

	if _, err := svc.Products(context.Background()); err != nil {
		t.Fatalf("Products() error = %v", err)
	}
	svc.Invalidate(context.Background())
	if _, err := svc.Products(context.Background()); err != nil {
		t.Fatalf("Products() error = %v", err)
	}

	if api.calls != 2 {
		t.Fatalf("upstream called %d times, want 2", api.calls)
	}
}

func TestProductsUpstreamErrorPropagates(t *testing.T) {
	t.Parallel()

	api := &fakeProductAPI{err: &commerce.APIError{StatusCode: 502, Message: "bad gateway"}}
	svc := NewService(api, newTestCache(t), nil)

	if _, err := svc.Products(context.Background()); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
