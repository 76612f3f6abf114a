package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/maplewick/storefront/internal/commerce"
)

// The transforms below are total: malformed or missing optional fields degrade
// to zero values instead of failing.

func normalizeStatus(raw string) Status {
	return Status(strings.ToLower(strings.TrimSpace(raw)))
}

func TransformOrderItem(item commerce.OrderItem) Item {
	// The order response carries no image/sku/category; those stay empty.
	return Item{
		ProductID: item.ProductID,
		Name:      item.Name,
		Price:     item.Price,
		Quantity:  item.Quantity,
	}
}

func TransformTimelineEvent(event commerce.TimelineEvent, index int) TimelineEvent {
	status := normalizeStatus(event.Status)
	display := displayFor(status)
	return TimelineEvent{
		ID:          fmt.Sprintf("%s-%d", status, index),
		Status:      status,
		Title:       display.Title,
		Description: display.Description,
		Timestamp:   event.Timestamp,
		Icon:        display.Icon,
	}
}

func transformTimeline(events []commerce.TimelineEvent) []TimelineEvent {
	// Backend order is assumed chronological; preserved as-is, never re-sorted.
	timeline := make([]TimelineEvent, 0, len(events))
	for i, event := range events {
		timeline = append(timeline, TransformTimelineEvent(event, i))
	}
	return timeline
}

// TransformOrder maps the full order response onto the view model.
func TransformOrder(order *commerce.Order) *Order {
	if order == nil {
		return nil
	}

	items := make([]Item, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, TransformOrderItem(item))
	}

	return &Order{
		ID:                order.ID,
		OrderNumber:       order.ID,
		CustomerName:      order.Customer.Name,
		CustomerEmail:     order.Customer.Email,
		CustomerPhone:     order.Customer.Phone,
		Status:            normalizeStatus(order.Status),
		Items:             items,
		OrderDate:         parseOrderDate(order.CreatedAt),
		EstimatedDelivery: order.EstimatedDelivery,
		ShippingAddress:   FormatAddress(order.ShippingAddress),
		BillingAddress:    FormatAddress(order.BillingAddress),
		PaymentMethod:     order.PaymentMethod,
		PaymentStatus:     order.PaymentStatus,
		TrackingNumber:    order.TrackingNumber,
		Subtotal:          order.Subtotal,
		ShippingCost:      order.DeliveryCost,
		Total:             order.Total,
		Timeline:          transformTimeline(order.Timeline),
	}
}

// TransformTracking maps the reduced tracking response onto a partial view
// model: only id, status, tracking number, estimated delivery and timeline are
// populated.
func TransformTracking(tracking *commerce.Tracking, orderID string) *Order {
	if tracking == nil {
		return nil
	}
	return &Order{
		ID:                orderID,
		OrderNumber:       orderID,
		Status:            normalizeStatus(tracking.Status),
		Items:             []Item{},
		EstimatedDelivery: tracking.EstimatedDelivery,
		TrackingNumber:    tracking.TrackingNumber,
		Timeline:          transformTimeline(tracking.Timeline),
	}
}

func parseOrderDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
