package pnlapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client talks to the Polymarket user-pnl API.
type Client struct {
	host       string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pnl-api error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host string) *Client {
	if host == "" {
		host = "https://user-pnl-api.polymarket.com"
	}
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		httpClient: httpClient,
	}
}

// Point is one sample of a wallet's cumulative PnL curve.
type Point struct {
	T int64   `json:"t"`
	P float64 `json:"p"`
}

// UserPnL fetches the PnL history curve for a wallet.
func (c *Client) UserPnL(ctx context.Context, address, interval, fidelity string) ([]Point, error) {
	if address == "" {
		return nil, fmt.Errorf("address is required")
	}
	query := url.Values{}
	query.Set("user_address", address)
	if interval != "" {
		query.Set("interval", interval)
	}
	if fidelity != "" {
		query.Set("fidelity", fidelity)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/user-pnl?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	var points []Point
	if err := json.Unmarshal(body, &points); err != nil {
		return nil, fmt.Errorf("failed to decode pnl history: %w", err)
	}
	return points, nil
}
