package commerce

// Response shapes of the remote commerce API. Field names mirror the wire
// format, which uses Mongo-style identifiers and snake_case keys.

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type OrderItem struct {
	ProductID string  `json:"product"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type TimelineEvent struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Note      string `json:"note,omitempty"`
}

// Order is the full order shape returned by GET /orders/{id}.
type Order struct {
	ID                string          `json:"_id"`
	Customer          Customer        `json:"customer"`
	Items             []OrderItem     `json:"items"`
	ShippingAddress   *Address        `json:"shipping_address"`
	BillingAddress    *Address        `json:"billing_address"`
	PaymentMethod     string          `json:"payment_method"`
	PaymentStatus     string          `json:"payment_status"`
	Status            string          `json:"status"`
	Timeline          []TimelineEvent `json:"timeline"`
	TrackingNumber    string          `json:"tracking_number,omitempty"`
	EstimatedDelivery string          `json:"estimated_delivery,omitempty"`
	Subtotal          float64         `json:"subtotal"`
	DeliveryCost      float64         `json:"delivery_cost"`
	Total             float64         `json:"total"`
	CreatedAt         string          `json:"created_at"`
	UpdatedAt         string          `json:"updated_at"`
}

// Tracking is the reduced shape returned by GET /orders/{id}/track.
type Tracking struct {
	Status            string          `json:"status"`
	Timeline          []TimelineEvent `json:"timeline"`
	TrackingNumber    string          `json:"tracking_number,omitempty"`
	EstimatedDelivery string          `json:"estimated_delivery,omitempty"`
}

type Admin struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
}

// LoginResult is returned by POST /admin/login. ExpiresIn is in seconds.
type LoginResult struct {
	Admin     Admin  `json:"admin"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

type Product struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Material    string   `json:"material,omitempty"`
	SKU         string   `json:"sku,omitempty"`
	Images      []string `json:"images,omitempty"`
	InStock     bool     `json:"in_stock"`
}

type ProductInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Material    string   `json:"material,omitempty"`
	SKU         string   `json:"sku,omitempty"`
	Images      []string `json:"images,omitempty"`
	InStock     bool     `json:"in_stock"`
}

type ContactSubmission struct {
	ID        string `json:"_id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at,omitempty"`
}

type orderEnvelope struct {
	Order Order `json:"order"`
}

type trackingEnvelope struct {
	Order Tracking `json:"order"`
}

type ordersEnvelope struct {
	Orders []Order `json:"orders"`
}

type productsEnvelope struct {
	Products []Product `json:"products"`
}

type productEnvelope struct {
	Product Product `json:"product"`
}

type submissionsEnvelope struct {
	Submissions []ContactSubmission `json:"submissions"`
}

type verifyEnvelope struct {
	Valid bool `json:"valid"`
}

type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
