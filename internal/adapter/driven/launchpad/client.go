// Package launchpad implements the BugTracker port against the Launchpad
// REST API. Lookups are read-only and used solely to enrich log output.
package launchpad

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/recheckhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.BugTracker = (*Client)(nil)

const defaultBaseURL = "https://api.launchpad.net/1.0"

// Client implements the BugTracker port using the public (unauthenticated)
// Launchpad API. Responses are cached with ETag-based conditional requests;
// bug titles change rarely, so the cache absorbs repeat lookups across
// interval-mode cycles.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Launchpad API client with an in-memory caching transport.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: httpcache.NewMemoryCacheTransport(),
			Timeout:   10 * time.Second,
		},
		baseURL: defaultBaseURL,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base
// URL. This constructor is intended for testing, allowing injection of an
// httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// bugResponse is the subset of the Launchpad bug entry this client reads.
type bugResponse struct {
	Title string `json:"title"`
}

// FetchBugTitle returns the title of the given bug.
func (c *Client) FetchBugTitle(ctx context.Context, bugNumber int64) (string, error) {
	url := c.baseURL + "/bugs/" + strconv.FormatInt(bugNumber, 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build bug request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch bug %d: %w", bugNumber, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch bug %d: unexpected status %d", bugNumber, resp.StatusCode)
	}

	var bug bugResponse
	if err := json.NewDecoder(resp.Body).Decode(&bug); err != nil {
		return "", fmt.Errorf("decode bug %d: %w", bugNumber, err)
	}
	return bug.Title, nil
}
