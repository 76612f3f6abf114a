// Package payments creates Stripe checkout sessions for storefront carts.
package payments

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v84"

	"github.com/maplewick/storefront/internal/cart"
)

// ErrEmptyCart is returned when checkout is attempted on a cart with no lines.
var ErrEmptyCart = errors.New("payments: cart is empty")

const deliveryCents int64 = 9900

// Client wraps the Stripe API for checkout session creation.
type Client struct {
	client  *stripe.Client
	baseURL string
}

func NewClient(secretKey, baseURL string) (*Client, error) {
	if secretKey == "" {
		return nil, errors.New("payments: stripe secret key is required")
	}
	if baseURL == "" {
		return nil, errors.New("payments: base URL is required")
	}

	return &Client{
		client:  stripe.NewClient(secretKey),
		baseURL: baseURL,
	}, nil
}

// CheckoutInput describes the checkout being started.
type CheckoutInput struct {
	VisitorID     string
	CustomerEmail string
	Items         []cart.Item
}

// CheckoutResult carries the hosted payment page the visitor is sent to.
type CheckoutResult struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// CreateCheckoutSession builds a Stripe checkout session from the cart lines.
func (c *Client) CreateCheckoutSession(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is required")
	}
	if len(input.Items) == 0 {
		return nil, ErrEmptyCart
	}

	lineItems := make([]*stripe.CheckoutSessionCreateLineItemParams, 0, len(input.Items))
	for _, item := range input.Items {
		name := item.Name
		if finish, ok := item.Options["finish"]; ok && finish != "" {
			name = fmt.Sprintf("%s (%s)", name, finish)
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionCreateLineItemParams{
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency: stripe.String("usd"),
				ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
					Name: stripe.String(name),
				},
				UnitAmount: stripe.Int64(toCents(item.Price)),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}

	sessionParams := &stripe.CheckoutSessionCreateParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(c.baseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(c.baseURL + "/cart"),
		LineItems:          lineItems,
		ShippingOptions: []*stripe.CheckoutSessionCreateShippingOptionParams{
			{
				ShippingRateData: &stripe.CheckoutSessionCreateShippingOptionShippingRateDataParams{
					DisplayName: stripe.String("White-glove delivery"),
					Type:        stripe.String(string(stripe.ShippingRateTypeFixedAmount)),
					FixedAmount: &stripe.CheckoutSessionCreateShippingOptionShippingRateDataFixedAmountParams{
						Amount:   stripe.Int64(deliveryCents),
						Currency: stripe.String("usd"),
					},
				},
			},
		},
		ShippingAddressCollection: &stripe.CheckoutSessionCreateShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice([]string{"US"}),
		},
		CustomerEmail: stripe.String(input.CustomerEmail),
		Metadata: map[string]string{
			"visitor_id": input.VisitorID,
		},
	}

	if input.CustomerEmail == "" {
		sessionParams.CustomerEmail = nil
	}

	sess, err := c.client.V1CheckoutSessions.Create(ctx, sessionParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &CheckoutResult{SessionID: sess.ID, URL: sess.URL}, nil
}

func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}
