package handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/maplewick/storefront/internal/commerce"
)

type stubFetcher struct{}

func (stubFetcher) GetOrder(ctx context.Context, orderID string) (*commerce.Order, error) {
	return nil, &commerce.APIError{StatusCode: 404, Message: "order not found"}
}

func (stubFetcher) GetOrderTracking(ctx context.Context, orderID string) (*commerce.Tracking, error) {
	return nil, &commerce.APIError{StatusCode: 404, Message: "order not found"}
}

func TestTrackerRegistryReturnsSameTrackerPerVisitor(t *testing.T) {
	t.Parallel()

	registry, err := newTrackerRegistry(stubFetcher{}, nil)
	if err != nil {
		t.Fatalf("newTrackerRegistry() error = %v", err)
	}

	if registry.get("visitor-a") != registry.get("visitor-a") {
		t.Fatalf("expected the same tracker for repeated visitor id")
	}
	if registry.get("visitor-a") == registry.get("visitor-b") {
		t.Fatalf("expected distinct trackers for distinct visitors")
	}
}

func TestTrackerRegistryEvictsLeastRecentVisitors(t *testing.T) {
	t.Parallel()

	registry, err := newTrackerRegistry(stubFetcher{}, nil)
	if err != nil {
		t.Fatalf("newTrackerRegistry() error = %v", err)
	}

	// A cookie-stripping client can mint arbitrarily many visitor ids; the
	// registry must stay bounded instead of growing with them.
	for i := 0; i < maxTrackedVisitors+100; i++ {
		registry.get(fmt.Sprintf("visitor-%d", i))
	}

	if got := registry.trackers.Len(); got > maxTrackedVisitors {
		t.Fatalf("registry holds %d trackers, want at most %d", got, maxTrackedVisitors)
	}
	if _, ok := registry.trackers.Get("visitor-0"); ok {
		t.Fatalf("expected the oldest visitor to be evicted")
	}
}
