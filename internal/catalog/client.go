package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client fetches the read-only catalog collections over HTTPS.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Films(ctx context.Context) ([]Film, error) {
	var films []Film
	if err := c.getJSON(ctx, "/films", &films); err != nil {
		return nil, err
	}
	return films, nil
}

func (c *Client) People(ctx context.Context) ([]Person, error) {
	var people []Person
	if err := c.getJSON(ctx, "/people", &people); err != nil {
		return nil, err
	}
	return people, nil
}

func (c *Client) Locations(ctx context.Context) ([]Location, error) {
	var locations []Location
	if err := c.getJSON(ctx, "/locations", &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("catalog: build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog: GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("catalog: GET %s returned HTTP %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("catalog: decode %s response: %w", endpoint, err)
	}
	return nil
}
