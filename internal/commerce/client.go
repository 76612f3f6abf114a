// Package commerce is the client for the remote order/catalog/auth API.
package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/maplewick/storefront/internal/observability"
)

// Client wraps the commerce API behind a circuit breaker. All data this
// service serves comes from here; there is no local persistence.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetTransport(observability.WrapRoundTripper(http.DefaultTransport)).
		SetHeader("Accept", "application/json")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "commerce-api",
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			state := float64(0)
			switch to {
			case gobreaker.StateOpen:
				state = 1
			case gobreaker.StateHalfOpen:
				state = 2
			case gobreaker.StateClosed:
				state = 0
			}
			observability.CircuitBreakerState.WithLabelValues(name).Set(state)

			if logger != nil {
				logger.Info("circuit breaker state changed", "circuit", name, "from", from.String(), "to", to.String())
			}
		},
	})
	observability.CircuitBreakerState.WithLabelValues("commerce-api").Set(0)

	return &Client{
		http:    httpClient,
		breaker: breaker,
		logger:  logger,
	}
}

func (c *Client) request(ctx context.Context, token string) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// execute runs a request through the circuit breaker. Only transport errors
// and 5xx responses count as breaker failures; 4xx responses are the caller's
// problem and must not trip the circuit.
func (c *Client) execute(endpoint string, send func() (*resty.Response, error)) (*resty.Response, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		resp, err := send()
		if err != nil {
			return nil, &APIError{Message: err.Error()}
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return nil, &APIError{StatusCode: resp.StatusCode(), Message: errorMessage(resp)}
		}
		return resp, nil
	})
	if err != nil {
		observability.UpstreamRequestsTotal.WithLabelValues(endpoint, outcomeLabel(err)).Inc()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &APIError{Message: "commerce API temporarily unavailable"}
		}
		return nil, err
	}

	resp := result.(*resty.Response)
	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode(), Message: errorMessage(resp)}
		observability.UpstreamRequestsTotal.WithLabelValues(endpoint, "client_error").Inc()
		return nil, apiErr
	}

	observability.UpstreamRequestsTotal.WithLabelValues(endpoint, "success").Inc()
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path, token string, out any) error {
	resp, err := c.execute(endpoint, func() (*resty.Response, error) {
		return c.request(ctx, token).Get(path)
	})
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func (c *Client) postJSON(ctx context.Context, endpoint, path, token string, body, out any) error {
	resp, err := c.execute(endpoint, func() (*resty.Response, error) {
		req := c.request(ctx, token).SetHeader("Content-Type", "application/json")
		if body != nil {
			req.SetBody(body)
		}
		return req.Post(path)
	})
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func (c *Client) putJSON(ctx context.Context, endpoint, path, token string, body, out any) error {
	resp, err := c.execute(endpoint, func() (*resty.Response, error) {
		return c.request(ctx, token).SetHeader("Content-Type", "application/json").SetBody(body).Put(path)
	})
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func (c *Client) patchJSON(ctx context.Context, endpoint, path, token string, body, out any) error {
	resp, err := c.execute(endpoint, func() (*resty.Response, error) {
		return c.request(ctx, token).SetHeader("Content-Type", "application/json").SetBody(body).Patch(path)
	})
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func (c *Client) delete(ctx context.Context, endpoint, path, token string) error {
	_, err := c.execute(endpoint, func() (*resty.Response, error) {
		return c.request(ctx, token).Delete(path)
	})
	return err
}

func decode(resp *resty.Response, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &APIError{StatusCode: resp.StatusCode(), Message: "invalid response body"}
	}
	return nil
}

func errorMessage(resp *resty.Response) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err == nil {
		if msg := strings.TrimSpace(envelope.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(envelope.Error); msg != "" {
			return msg
		}
	}
	return http.StatusText(resp.StatusCode())
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case IsServerError(err):
		return "server_error"
	default:
		return "network_error"
	}
}
