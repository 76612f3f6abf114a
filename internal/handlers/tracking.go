package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/maplewick/storefront/internal/orders"
)

// Anyone can mint fresh visitor cookies, so tracker state is bounded: least
// recently used visitors are evicted once the cap is reached.
const maxTrackedVisitors = 10_000

// trackerRegistry hands each visitor their own tracker so the one-lookup-at-
// a-time rule applies per visitor, not across the whole storefront.
type trackerRegistry struct {
	fetcher orders.Fetcher
	logger  *slog.Logger

	mu       sync.Mutex
	trackers *lru.Cache[string, *orders.Tracker]
}

func newTrackerRegistry(fetcher orders.Fetcher, logger *slog.Logger) (*trackerRegistry, error) {
	trackers, err := lru.New[string, *orders.Tracker](maxTrackedVisitors)
	if err != nil {
		return nil, err
	}
	return &trackerRegistry{
		fetcher:  fetcher,
		logger:   logger,
		trackers: trackers,
	}, nil
}

func (r *trackerRegistry) get(visitorID string) *orders.Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tracker, ok := r.trackers.Get(visitorID); ok {
		return tracker
	}
	tracker := orders.NewTracker(r.fetcher, r.logger)
	r.trackers.Add(visitorID, tracker)
	return tracker
}

type trackOrderRequest struct {
	OrderNumber string `json:"orderNumber"`
}

// TrackOrder runs an order lookup for the visitor and returns the resulting
// tracker state. A lookup already in flight for the same visitor is rejected.
func (h *Handlers) TrackOrder(w http.ResponseWriter, r *http.Request) {
	var req trackOrderRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	tracker := h.trackers.get(h.visitorID(w, r))
	snapshot, err := tracker.TrackOrder(r.Context(), req.OrderNumber)
	if err != nil {
		if errors.Is(err, orders.ErrTrackInFlight) {
			h.respondError(w, r, http.StatusConflict, "A tracking request is already in progress. Please wait for it to finish.")
			return
		}
		h.respondError(w, r, http.StatusInternalServerError, "tracking failed")
		return
	}

	h.respondJSON(w, r, http.StatusOK, snapshot)
}

// TrackingState returns the visitor's current tracker state without starting
// a lookup.
func (h *Handlers) TrackingState(w http.ResponseWriter, r *http.Request) {
	tracker := h.trackers.get(h.visitorID(w, r))
	h.respondJSON(w, r, http.StatusOK, tracker.Snapshot())
}

// ResetTracking clears the visitor's tracker back to its initial state.
func (h *Handlers) ResetTracking(w http.ResponseWriter, r *http.Request) {
	tracker := h.trackers.get(h.visitorID(w, r))
	tracker.Reset()
	h.respondJSON(w, r, http.StatusOK, tracker.Snapshot())
}

// ClearTrackingError drops the tracker's error message, keeping any result.
func (h *Handlers) ClearTrackingError(w http.ResponseWriter, r *http.Request) {
	tracker := h.trackers.get(h.visitorID(w, r))
	tracker.ClearError()
	h.respondJSON(w, r, http.StatusOK, tracker.Snapshot())
}
