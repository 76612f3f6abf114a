// Package orders normalizes the commerce API's order and tracking shapes into
// a single view model for the storefront.
package orders

import "time"

// Status is lower-cased on transform. The constants cover the statuses the
// commerce API documents; unknown values pass through so they stay renderable.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

type Order struct {
	ID                string          `json:"id"`
	OrderNumber       string          `json:"orderNumber"`
	CustomerName      string          `json:"customerName,omitempty"`
	CustomerEmail     string          `json:"customerEmail,omitempty"`
	CustomerPhone     string          `json:"customerPhone,omitempty"`
	Status            Status          `json:"status"`
	Items             []Item          `json:"items"`
	OrderDate         time.Time       `json:"orderDate"`
	EstimatedDelivery string          `json:"estimatedDelivery,omitempty"`
	ShippingAddress   string          `json:"shippingAddress"`
	BillingAddress    string          `json:"billingAddress,omitempty"`
	PaymentMethod     string          `json:"paymentMethod,omitempty"`
	PaymentStatus     string          `json:"paymentStatus,omitempty"`
	TrackingNumber    string          `json:"trackingNumber,omitempty"`
	Subtotal          float64         `json:"subtotal"`
	ShippingCost      float64         `json:"shippingCost"`
	Total             float64         `json:"total"`
	Timeline          []TimelineEvent `json:"timeline"`
}

type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
	SKU       string  `json:"sku,omitempty"`
	Category  string  `json:"category,omitempty"`
}

// TimelineEvent is one step of the order history. ID is status plus position
// so repeated statuses stay unique without re-sorting backend order.
type TimelineEvent struct {
	ID          string `json:"id"`
	Status      Status `json:"status"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
	Icon        string `json:"icon,omitempty"`
}
