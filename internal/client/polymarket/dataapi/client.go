package dataapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"traderlens/internal/analysis"
)

// Client talks to the Polymarket data-api (activity feed and holdings).
type Client struct {
	host       string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("data-api error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host string) *Client {
	if host == "" {
		host = "https://data-api.polymarket.com"
	}
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		httpClient: httpClient,
	}
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.host + path
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
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
	return body, nil
}

// Activity fetches one page of a wallet's activity feed. The response is a
// raw array with no envelope.
func (c *Client) Activity(ctx context.Context, user string, limit, offset int) ([]analysis.ActivityRecord, error) {
	if user == "" {
		return nil, fmt.Errorf("user is required")
	}
	query := url.Values{}
	query.Set("user", user)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}
	body, err := c.doRequest(ctx, "/activity", query)
	if err != nil {
		return nil, err
	}
	var records []analysis.ActivityRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to decode activity: %w", err)
	}
	return records, nil
}

// PortfolioValue is the current USDC value of a wallet's holdings.
type PortfolioValue struct {
	User  string          `json:"user"`
	Value analysis.Amount `json:"value"`
}

// Value fetches a wallet's current portfolio value.
func (c *Client) Value(ctx context.Context, user string) (*PortfolioValue, error) {
	if user == "" {
		return nil, fmt.Errorf("user is required")
	}
	query := url.Values{}
	query.Set("user", user)
	body, err := c.doRequest(ctx, "/value", query)
	if err != nil {
		return nil, err
	}
	// The endpoint answers either a bare object or a one-element array.
	var list []PortfolioValue
	if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 {
		return &list[0], nil
	}
	var one PortfolioValue
	if err := json.Unmarshal(body, &one); err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}
	return &one, nil
}

// TradedValue is a wallet's lifetime traded volume.
type TradedValue struct {
	User   string          `json:"user"`
	Traded analysis.Amount `json:"traded"`
}

// Traded fetches a wallet's lifetime traded volume.
func (c *Client) Traded(ctx context.Context, user string) (*TradedValue, error) {
	if user == "" {
		return nil, fmt.Errorf("user is required")
	}
	query := url.Values{}
	query.Set("user", user)
	body, err := c.doRequest(ctx, "/traded", query)
	if err != nil {
		return nil, err
	}
	var one TradedValue
	if err := json.Unmarshal(body, &one); err != nil {
		return nil, fmt.Errorf("failed to decode traded: %w", err)
	}
	return &one, nil
}
