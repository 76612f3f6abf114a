package orders

import (
	"reflect"
	"testing"
	"time"

	"github.com/maplewick/storefront/internal/commerce"
)

func TestTransformTimelineEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    string
		index     int
		wantID    string
		wantTitle string
	}{
		{
			name:      "known status uses lookup table",
			status:    "Shipped",
			index:     2,
			wantID:    "shipped-2",
			wantTitle: "Out for Delivery",
		},
		{
			name:      "pending",
			status:    "pending",
			index:     0,
			wantID:    "pending-0",
			wantTitle: "Order Placed",
		},
		{
			name:      "unknown status gets generic title",
			status:    "weirdstate",
			index:     1,
			wantID:    "weirdstate-1",
			wantTitle: "Status: weirdstate",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			event := commerce.TimelineEvent{Status: tc.status, Timestamp: "2026-03-01T10:00:00Z"}
			got := TransformTimelineEvent(event, tc.index)
			if got.ID != tc.wantID {
				t.Fatalf("TransformTimelineEvent() id = %q, want %q", got.ID, tc.wantID)
			}
			if got.Title != tc.wantTitle {
				t.Fatalf("TransformTimelineEvent() title = %q, want %q", got.Title, tc.wantTitle)
			}
			if got.Timestamp != "2026-03-01T10:00:00Z" {
				t.Fatalf("TransformTimelineEvent() timestamp = %q", got.Timestamp)
			}
			if got.Description == "" || got.Icon == "" {
				t.Fatalf("TransformTimelineEvent() missing description or icon: %+v", got)
			}
		})
	}
}

func TestTransformTimelineEventIsIdempotent(t *testing.T) {
	t.Parallel()

	event := commerce.TimelineEvent{Status: "Processing", Timestamp: "2026-03-02T08:30:00Z"}
	first := TransformTimelineEvent(event, 3)
	second := TransformTimelineEvent(event, 3)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("TransformTimelineEvent() not idempotent: %+v vs %+v", first, second)
	}
}

func TestFormatAddress(t *testing.T) {
	t.Parallel()

	addr := &commerce.Address{
		Street:  "14 Birchwood Lane",
		City:    "Portland",
		State:   "OR",
		Zip:     "97209",
		Country: "USA",
	}
	want := "14 Birchwood Lane, Portland, OR 97209, USA"
	if got := FormatAddress(addr); got != want {
		t.Fatalf("FormatAddress() = %q, want %q", got, want)
	}

	if got := FormatAddress(nil); got != "" {
		t.Fatalf("FormatAddress(nil) = %q, want empty", got)
	}
}

func fullOrderFixture() *commerce.Order {
	return &commerce.Order{
		ID: "507f1f77bcf86cd799439011",
		Customer: commerce.Customer{
			Name:  "Dana Whitfield",
			Email: "dana@example.com",
		},
		Items: []commerce.OrderItem{
			{ProductID: "p1", Name: "Walnut Coffee Table", Price: 349.00, Quantity: 1},
			{ProductID: "p2", Name: "Linen Armchair", Price: 529.50, Quantity: 2},
		},
		ShippingAddress: &commerce.Address{Street: "14 Birchwood Lane", City: "Portland", State: "OR", Zip: "97209", Country: "USA"},
		BillingAddress:  &commerce.Address{Street: "1 Main St", City: "Salem", State: "OR", Zip: "97301", Country: "USA"},
		PaymentMethod:   "card",
		PaymentStatus:   "paid",
		Status:          "Shipped",
		Timeline: []commerce.TimelineEvent{
			{Status: "pending", Timestamp: "2026-02-26T09:00:00Z"},
			{Status: "confirmed", Timestamp: "2026-02-26T10:00:00Z"},
			{Status: "Shipped", Timestamp: "2026-02-28T16:00:00Z"},
		},
		TrackingNumber:    "MW123456789",
		EstimatedDelivery: "2026-03-05",
		Subtotal:          1408.00,
		DeliveryCost:      49.00,
		Total:             1457.00,
		CreatedAt:         "2026-02-26T09:00:00Z",
	}
}

func TestTransformOrder(t *testing.T) {
	t.Parallel()

	got := TransformOrder(fullOrderFixture())

	if got.Status != StatusShipped {
		t.Fatalf("TransformOrder() status = %q, want %q", got.Status, StatusShipped)
	}
	if got.OrderNumber != "507f1f77bcf86cd799439011" {
		t.Fatalf("TransformOrder() order number = %q", got.OrderNumber)
	}
	if got.ShippingAddress != "14 Birchwood Lane, Portland, OR 97209, USA" {
		t.Fatalf("TransformOrder() shipping address = %q", got.ShippingAddress)
	}
	if got.ShippingCost != 49.00 || got.Subtotal != 1408.00 || got.Total != 1457.00 {
		t.Fatalf("TransformOrder() totals = %v/%v/%v", got.Subtotal, got.ShippingCost, got.Total)
	}
	wantDate := time.Date(2026, 2, 26, 9, 0, 0, 0, time.UTC)
	if !got.OrderDate.Equal(wantDate) {
		t.Fatalf("TransformOrder() order date = %v, want %v", got.OrderDate, wantDate)
	}
}

func TestTransformOrderPreservesItems(t *testing.T) {
	t.Parallel()

	backend := fullOrderFixture()
	got := TransformOrder(backend)

	if len(got.Items) != len(backend.Items) {
		t.Fatalf("TransformOrder() items = %d, want %d", len(got.Items), len(backend.Items))
	}
	for i, item := range backend.Items {
		if got.Items[i].ProductID != item.ProductID || got.Items[i].Name != item.Name {
			t.Fatalf("item %d = %+v, want backend item %+v", i, got.Items[i], item)
		}
		if got.Items[i].Image != "" || got.Items[i].SKU != "" || got.Items[i].Category != "" {
			t.Fatalf("item %d has fields the order response does not carry: %+v", i, got.Items[i])
		}
	}
}

func TestTransformOrderPreservesTimelineOrder(t *testing.T) {
	t.Parallel()

	got := TransformOrder(fullOrderFixture())

	wantIDs := []string{"pending-0", "confirmed-1", "shipped-2"}
	if len(got.Timeline) != len(wantIDs) {
		t.Fatalf("timeline length = %d, want %d", len(got.Timeline), len(wantIDs))
	}
	for i, want := range wantIDs {
		if got.Timeline[i].ID != want {
			t.Fatalf("timeline[%d].ID = %q, want %q", i, got.Timeline[i].ID, want)
		}
	}
}

func TestTransformTracking(t *testing.T) {
	t.Parallel()

	tracking := &commerce.Tracking{
		Status:            "Processing",
		TrackingNumber:    "MW987",
		EstimatedDelivery: "2026-03-10",
		Timeline: []commerce.TimelineEvent{
			{Status: "pending", Timestamp: "2026-03-01T09:00:00Z"},
			{Status: "processing", Timestamp: "2026-03-02T09:00:00Z"},
		},
	}

	got := TransformTracking(tracking, "507f1f77bcf86cd799439011")

	if got.ID != "507f1f77bcf86cd799439011" {
		t.Fatalf("TransformTracking() id = %q", got.ID)
	}
	if got.Status != StatusProcessing {
		t.Fatalf("TransformTracking() status = %q, want %q", got.Status, StatusProcessing)
	}
	if len(got.Items) != 0 {
		t.Fatalf("TransformTracking() items = %d, want 0", len(got.Items))
	}
	if got.Total != 0 || got.Subtotal != 0 {
		t.Fatalf("TransformTracking() totals should be zero: %+v", got)
	}
	if len(got.Timeline) != 2 {
		t.Fatalf("TransformTracking() timeline = %d, want 2", len(got.Timeline))
	}
}
