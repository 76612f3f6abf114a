package orders

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/maplewick/storefront/internal/commerce"
	"github.com/maplewick/storefront/internal/logging"
	"github.com/maplewick/storefront/internal/observability"
)

// ErrTrackInFlight is returned when TrackOrder is called while a previous
// lookup is still running. At most one logical tracking request may be in
// flight per tracker.
var ErrTrackInFlight = errors.New("a tracking request is already in flight")

// Fetcher is the slice of the commerce client the tracker needs.
type Fetcher interface {
	GetOrder(ctx context.Context, orderID string) (*commerce.Order, error)
	GetOrderTracking(ctx context.Context, orderID string) (*commerce.Tracking, error)
}

// Snapshot is the tracker's externally visible state. The terminal states:
// order set (found, possibly degraded), error message set, or both empty with
// HasSearched true after Reset-less not-found classification.
type Snapshot struct {
	Order        *Order `json:"order"`
	ErrorMessage string `json:"error,omitempty"`
	HasSearched  bool   `json:"hasSearched"`
	Loading      bool   `json:"loading"`
	Degraded     bool   `json:"degraded,omitempty"`
}

// Tracker resolves a customer-supplied order number into a renderable order.
// The full order endpoint is tried first; on any failure the reduced
// tracking-only endpoint is tried as a fallback, strictly sequentially. The
// tracking endpoint needs weaker authorization and stays available when the
// full endpoint does not, so falling back maximizes the chance of showing the
// customer some status.
type Tracker struct {
	fetcher Fetcher
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	snapshot Snapshot
	inFlight bool
}

func NewTracker(fetcher Fetcher, logger *slog.Logger) *Tracker {
	return &Tracker{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// TrackOrder runs the validate → full fetch → tracking fallback → classify
// pipeline and returns the resulting snapshot. A concurrent call fails fast
// with ErrTrackInFlight and leaves state untouched.
func (t *Tracker) TrackOrder(ctx context.Context, rawInput string) (Snapshot, error) {
	t.mu.Lock()
	if t.inFlight {
		t.mu.Unlock()
		return Snapshot{}, ErrTrackInFlight
	}
	t.inFlight = true
	t.snapshot = Snapshot{HasSearched: true, Loading: true}
	t.mu.Unlock()

	result := t.resolve(ctx, rawInput)

	t.mu.Lock()
	t.inFlight = false
	t.snapshot = result
	t.mu.Unlock()

	return result, nil
}

func (t *Tracker) resolve(ctx context.Context, rawInput string) Snapshot {
	logger := logging.FromContext(ctx, t.logger)

	orderID, err := ValidateOrderNumber(rawInput)
	if err != nil {
		observability.TrackingLookupsTotal.WithLabelValues("invalid_input").Inc()
		return Snapshot{HasSearched: true, ErrorMessage: err.Error()}
	}

	full, fullErr := t.fetcher.GetOrder(ctx, orderID)
	if fullErr == nil {
		observability.TrackingLookupsTotal.WithLabelValues("found").Inc()
		return Snapshot{Order: TransformOrder(full), HasSearched: true}
	}
	logger.Debug("full order fetch failed, trying tracking endpoint", "order_id", orderID, "error", fullErr)

	tracking, trackErr := t.fetcher.GetOrderTracking(ctx, orderID)
	if trackErr == nil {
		observability.TrackingLookupsTotal.WithLabelValues("degraded").Inc()
		return Snapshot{Order: t.degradedOrder(orderID, tracking), HasSearched: true, Degraded: true}
	}
	logger.Info("order tracking lookup failed", "order_id", orderID, "error", trackErr)

	if commerce.IsNotFound(trackErr) {
		observability.TrackingLookupsTotal.WithLabelValues("not_found").Inc()
	} else {
		observability.TrackingLookupsTotal.WithLabelValues("error").Inc()
	}
	return Snapshot{HasSearched: true, ErrorMessage: classifyTrackingError(trackErr)}
}

// degradedOrder builds a renderable order from tracking data alone: no items,
// zero totals, order date stamped now, empty addresses.
func (t *Tracker) degradedOrder(orderID string, tracking *commerce.Tracking) *Order {
	order := TransformTracking(tracking, orderID)
	if order == nil {
		order = &Order{ID: orderID, OrderNumber: orderID, Items: []Item{}}
	}
	order.OrderDate = t.now()
	return order
}

// Reset returns the tracker to its initial state, unconditionally. A lookup
// still in flight keeps running and publishes its result when it lands; it
// does not resurrect the cleared intermediate state.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshot = Snapshot{}
}

// ClearError drops the error message without touching the rest of the state.
func (t *Tracker) ClearError() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshot.ErrorMessage = ""
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot
}

// classifyTrackingError maps a failed lookup to a specific, actionable
// message. Raw backend error bodies never reach the customer.
func classifyTrackingError(err error) string {
	switch {
	case commerce.IsNotFound(err):
		return "Order not found. Please check your order number and try again."
	case commerce.IsUnauthorized(err):
		return "Authentication required to view this order."
	case commerce.IsForbidden(err):
		return "Access denied. You do not have permission to view this order."
	case commerce.IsServerError(err):
		return "Server error. Please try again in a few minutes."
	case commerce.IsNetworkError(err):
		return "Unable to reach the order service. Please check your connection and try again."
	default:
		if apiErr, ok := commerce.AsAPIError(err); ok && apiErr.Message != "" {
			return apiErr.Message
		}
		return "Something went wrong while tracking your order. Please try again."
	}
}
