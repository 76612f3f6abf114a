package commerce

import (
	"context"
	"fmt"
)

// GetOrder fetches the full order shape. Requires the order to be visible to
// the caller; the tracking endpoint below is the reduced-privilege fallback.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var envelope orderEnvelope
	if err := c.getJSON(ctx, "get_order", "/orders/"+orderID, "", &envelope); err != nil {
		return nil, err
	}
	return &envelope.Order, nil
}

// GetOrderTracking fetches the reduced, higher-availability tracking shape.
func (c *Client) GetOrderTracking(ctx context.Context, orderID string) (*Tracking, error) {
	var envelope trackingEnvelope
	if err := c.getJSON(ctx, "get_tracking", fmt.Sprintf("/orders/%s/track", orderID), "", &envelope); err != nil {
		return nil, err
	}
	return &envelope.Order, nil
}

func (c *Client) ListOrders(ctx context.Context, token string) ([]Order, error) {
	var envelope ordersEnvelope
	if err := c.getJSON(ctx, "admin_orders", "/admin/orders", token, &envelope); err != nil {
		return nil, err
	}
	return envelope.Orders, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, token, orderID, status string) (*Order, error) {
	body := map[string]string{"status": status}
	var envelope orderEnvelope
	if err := c.patchJSON(ctx, "admin_order_status", fmt.Sprintf("/admin/orders/%s/status", orderID), token, body, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Order, nil
}
