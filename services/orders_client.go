package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OrdersClient calls the order JSON API of a running server. It implements
// OrderBackend so the operation selector can drive a remote instance.
type OrdersClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOrdersClient returns a client for the server at baseURL. A nil
// httpClient falls back to one with a 30 second timeout.
func NewOrdersClient(baseURL string, httpClient *http.Client) *OrdersClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &OrdersClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// ListOrders fetches GET /orders/list.
func (c *OrdersClient) ListOrders(ctx context.Context) ([]OrderRef, error) {
	var orders []OrderRef
	if err := c.do(ctx, http.MethodGet, "/orders/list", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Scale posts to /orders/scale.
func (c *OrdersClient) Scale(ctx context.Context, req ScaleRequest) (OperationResult, error) {
	var res OperationResult
	err := c.do(ctx, http.MethodPost, "/orders/scale", req, &res)
	return res, err
}

// Merge posts to /orders/merge.
func (c *OrdersClient) Merge(ctx context.Context, req MergeRequest) (OperationResult, error) {
	var res OperationResult
	err := c.do(ctx, http.MethodPost, "/orders/merge", req, &res)
	return res, err
}

// Subtract posts to /orders/subtract.
func (c *OrdersClient) Subtract(ctx context.Context, req SubtractRequest) (OperationResult, error) {
	var res OperationResult
	err := c.do(ctx, http.MethodPost, "/orders/subtract", req, &res)
	return res, err
}

func (c *OrdersClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Endpoint: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", path, err)
	}
	return nil
}
