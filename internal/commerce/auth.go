package commerce

import (
	"context"
	"strings"
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges admin credentials for an opaque bearer token.
func (c *Client) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	var result LoginResult
	if err := c.postJSON(ctx, "admin_login", "/admin/login", "", input, &result); err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.Token) == "" {
		return nil, &APIError{Message: "login response missing token"}
	}
	return &result, nil
}

// Logout invalidates the token upstream. Best effort; callers clear local
// state regardless of the outcome.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.postJSON(ctx, "admin_logout", "/admin/logout", token, nil, nil)
}

// Verify reports whether the token is still accepted upstream. A false return
// with a nil error is an explicit rejection; an error return means the check
// itself failed and says nothing about the token.
func (c *Client) Verify(ctx context.Context, token string) (bool, error) {
	var envelope verifyEnvelope
	err := c.getJSON(ctx, "admin_verify", "/admin/verify", token, &envelope)
	if err != nil {
		if IsUnauthorized(err) || IsForbidden(err) {
			return false, nil
		}
		return false, err
	}
	return envelope.Valid, nil
}
