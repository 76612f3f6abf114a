package commerce

import (
	"context"
)

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var envelope productsEnvelope
	if err := c.getJSON(ctx, "list_products", "/products", "", &envelope); err != nil {
		return nil, err
	}
	return envelope.Products, nil
}

func (c *Client) CreateProduct(ctx context.Context, token string, input ProductInput) (*Product, error) {
	var envelope productEnvelope
	if err := c.postJSON(ctx, "admin_product_create", "/admin/products", token, input, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, token, productID string, input ProductInput) (*Product, error) {
	var envelope productEnvelope
	if err := c.putJSON(ctx, "admin_product_update", "/admin/products/"+productID, token, input, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, token, productID string) error {
	return c.delete(ctx, "admin_product_delete", "/admin/products/"+productID, token)
}

// SubmitContact forwards a storefront contact form submission.
func (c *Client) SubmitContact(ctx context.Context, submission ContactSubmission) error {
	return c.postJSON(ctx, "contact_submit", "/contact", "", submission, nil)
}

func (c *Client) ListContactSubmissions(ctx context.Context, token string) ([]ContactSubmission, error) {
	var envelope submissionsEnvelope
	if err := c.getJSON(ctx, "admin_contact", "/admin/contact", token, &envelope); err != nil {
		return nil, err
	}
	return envelope.Submissions, nil
}
