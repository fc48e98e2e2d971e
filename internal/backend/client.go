// Package backend is the storefront's client for the hosted REST backend.
// Catalog data is read from row endpoints (one per table, PostgREST-style
// filters in the query string) and orders are written to the orders table.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/helakart/storefront/internal/domain"
	"github.com/helakart/storefront/pkg/httpclient"
)

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client talks to the hosted backend's REST surface.
type Client struct {
	http    HTTPDoer
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

// New creates a backend client. baseURL is the backend root without a
// trailing slash; apiKey is sent on every request.
func New(doer HTTPDoer, baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		http:    doer,
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
	}
}

// ListActiveProducts returns all active products, newest first.
func (c *Client) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	params := url.Values{}
	params.Set("active", "eq.true")
	params.Set("order", "created_at.desc")

	var products []domain.Product
	if err := c.getRows(ctx, "products", params, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListActiveCategories returns all active categories ordered by name.
func (c *Client) ListActiveCategories(ctx context.Context) ([]domain.Category, error) {
	params := url.Values{}
	params.Set("active", "eq.true")
	params.Set("order", "name.asc")

	var categories []domain.Category
	if err := c.getRows(ctx, "categories", params, &categories); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ListActivePaymentMethods returns all active payment methods in display order.
func (c *Client) ListActivePaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	params := url.Values{}
	params.Set("active", "eq.true")
	params.Set("order", "display_order.asc")

	var methods []domain.PaymentMethod
	if err := c.getRows(ctx, "payment_methods", params, &methods); err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	return methods, nil
}

// ListDeliveryCharges returns the per-district delivery charges. An empty
// result means the caller should use the default charge for every district.
func (c *Client) ListDeliveryCharges(ctx context.Context) ([]domain.DeliveryCharge, error) {
	params := url.Values{}
	params.Set("select", "district,charge")

	var charges []domain.DeliveryCharge
	if err := c.getRows(ctx, "delivery_charges", params, &charges); err != nil {
		return nil, fmt.Errorf("list delivery charges: %w", err)
	}
	return charges, nil
}

// CreateOrder inserts the order snapshot and returns the backend-assigned
// order id.
func (c *Client) CreateOrder(ctx context.Context, order *domain.OrderSnapshot) (int64, error) {
	body, err := json.Marshal([]*domain.OrderSnapshot{order})
	if err != nil {
		return 0, fmt.Errorf("marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rowsURL("orders", nil), bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create order request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("call backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return 0, httpclient.ParseResponseError(resp, "backend")
	}

	var rows []struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return 0, fmt.Errorf("decode order response: %w", err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("backend returned no order row")
	}

	c.logger.InfoContext(ctx, "order created",
		slog.Int64("order_id", rows[0].ID),
		slog.String("total", order.Total.StringFixed(2)),
	)

	return rows[0].ID, nil
}

// Ping checks backend reachability with a minimal read, for health checks.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("select", "id")
	params.Set("limit", "1")

	var rows []struct {
		ID int64 `json:"id"`
	}
	return c.getRows(ctx, "payment_methods", params, &rows)
}

// getRows fetches rows from a table endpoint and decodes them into dst.
func (c *Client) getRows(ctx context.Context, table string, params url.Values, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.rowsURL(table, params), http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, "backend")
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s rows: %w", table, err)
	}
	return nil
}

func (c *Client) rowsURL(table string, params url.Values) string {
	u := c.baseURL + "/rest/v1/" + table
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")
}
