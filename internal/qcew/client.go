package qcew

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the BLS open-data endpoint for annual area CSV slices.
	BaseURL = "https://data.bls.gov/cew/data/api"

	// requestInterval spaces out requests; the endpoint throttles bursty
	// clients without a documented quota.
	requestInterval = 500 * time.Millisecond
)

// Client fetches annual area extracts from the upstream open-data API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a rate-limited client for the open-data API.
func NewClient() *Client {
	return &Client{
		baseURL: BaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(requestInterval), 1),
	}
}

// FetchAreaYear downloads and parses one area's annual extract.
func (c *Client) FetchAreaYear(ctx context.Context, year int, areaFIPS string) ([]Observation, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%d/a/area/%s.csv", c.baseURL, year, areaFIPS)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	obs, err := Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return obs, nil
}

// FetchAreas downloads extracts for several areas across a year range.
func (c *Client) FetchAreas(ctx context.Context, firstYear, lastYear int, areas []string) ([]Observation, error) {
	var all []Observation
	for year := firstYear; year <= lastYear; year++ {
		for _, area := range areas {
			obs, err := c.FetchAreaYear(ctx, year, area)
			if err != nil {
				return nil, err
			}
			all = append(all, obs...)
		}
	}
	return all, nil
}

// HealthCheck verifies the endpoint is reachable with a minimal request.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.FetchAreaYear(ctx, 2018, "01001")
	return err
}
