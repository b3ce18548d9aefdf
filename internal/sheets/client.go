package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/marocz/scoreboard/internal/config"
)

// maxBodyBytes caps how much of a values response is read.
const maxBodyBytes = 8 << 20

// Fetcher reads one range from the tabular data source. Implementations must
// return promptly once ctx is cancelled; the poll loop waits for in-flight
// fetches on shutdown.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (*ValueRange, error)
}

// Client fetches ranges from the Google Sheets v4 values endpoint.
// It builds the HTTP client once and reuses it across fetches.
type Client struct {
	src    config.SourceConfig
	client *http.Client
}

// New returns a Client for the given source configuration.
func New(src config.SourceConfig) (*Client, error) {
	if src.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id is required")
	}
	if _, err := url.Parse(src.BaseURL); err != nil {
		return nil, fmt.Errorf("sheets: parse base url: %w", err)
	}
	return &Client{src: src, client: buildHTTPClient(src)}, nil
}

// Fetch performs a GET for the given A1 range and decodes the response.
// A response without a values array is not an error; the returned
// ValueRange simply has no rows.
func (c *Client) Fetch(ctx context.Context, locator string) (*ValueRange, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.valuesURL(locator), nil)
	if err != nil {
		return nil, fmt.Errorf("sheets: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheets: http get %q: %w", locator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheets: range %q: unexpected status %d", locator, resp.StatusCode)
	}
	return decodeValueRange(io.LimitReader(resp.Body, maxBodyBytes))
}

// valuesURL builds {base}/v4/spreadsheets/{id}/values/{range}.
func (c *Client) valuesURL(locator string) string {
	return strings.TrimRight(c.src.BaseURL, "/") +
		"/v4/spreadsheets/" + url.PathEscape(c.src.SpreadsheetID) +
		"/values/" + url.PathEscape(locator)
}

// authRoundTripper injects credentials into every outgoing request.
type authRoundTripper struct {
	base http.RoundTripper
	auth config.AuthConfig
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	switch t.auth.Mode {
	case "apikey":
		req = req.Clone(req.Context())
		q := req.URL.Query()
		q.Set("key", t.auth.Key())
		req.URL.RawQuery = q.Encode()
	case "bearer":
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.auth.Token())
	}
	return t.base.RoundTrip(req)
}

// buildHTTPClient constructs an http.Client for the source's auth settings.
func buildHTTPClient(src config.SourceConfig) *http.Client {
	return &http.Client{
		Transport: &authRoundTripper{
			base: http.DefaultTransport,
			auth: src.Auth,
		},
		Timeout: src.Timeout,
	}
}

// decodeValueRange parses a values response body.
func decodeValueRange(r io.Reader) (*ValueRange, error) {
	var vr ValueRange
	if err := json.NewDecoder(r).Decode(&vr); err != nil {
		return nil, fmt.Errorf("sheets: decode values: %w", err)
	}
	return &vr, nil
}
