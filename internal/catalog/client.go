package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"gfontapi/internal/services"
)

var (
	// ErrStatus marks a catalog response with a non-200 status.
	ErrStatus = errors.New("unexpected catalog status")
	// ErrNoFamily marks a response that carried no family record.
	ErrNoFamily = errors.New("no font family in catalog response")
)

// StatusError carries the HTTP status of a rejected catalog request.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("catalog returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("catalog returned %d %s", e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// Family describes one font family record.
type Family struct {
	Name     string            `json:"family"`
	Category string            `json:"category"`
	Subsets  []string          `json:"subsets"`
	Variants []string          `json:"variants"`
	Files    map[string]string `json:"files"`
}

// VariantKeys returns the keys of Files in sorted order.
func (f *Family) VariantKeys() []string {
	keys := make([]string, 0, len(f.Files))
	for key := range f.Files {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

type response struct {
	Items *[]Family `json:"items"`
}

type errorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Fetcher resolves family names against the catalog.
type Fetcher interface {
	Fetch(ctx context.Context, family string) (*Family, error)
}

// Client talks to the catalog endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// New creates a catalog client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "new client", "api key required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "new client", "base url required", nil)
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Fetch looks up family and returns the first record of the response.
func (c *Client) Fetch(ctx context.Context, family string) (*Family, error) {
	family = strings.TrimSpace(family)
	if family == "" {
		return nil, services.Wrap(services.ErrValidation, "catalog", "fetch", "family name must not be empty", nil)
	}
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "fetch", "parse base url", err)
	}
	params := endpoint.Query()
	params.Set("key", c.apiKey)
	params.Set("family", family)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, services.Wrap(services.ErrCatalog, "catalog", "fetch", "build request", c.redact(err))
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, services.Wrap(services.ErrCatalog, "catalog", "fetch",
			fmt.Sprintf("request %q (latency=%v)", family, latency.Round(time.Millisecond)), c.redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		statusErr := &StatusError{Code: resp.StatusCode, Message: c.errorMessage(resp.Body)}
		return nil, services.Wrap(services.ErrCatalog, "catalog", "fetch", fmt.Sprintf("lookup %q", family), statusErr)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrCatalog, "catalog", "fetch", "decode response", err)
	}
	if payload.Items == nil || len(*payload.Items) == 0 {
		return nil, services.Wrap(services.ErrCatalog, "catalog", "fetch", fmt.Sprintf("lookup %q", family), ErrNoFamily)
	}
	first := (*payload.Items)[0]
	if first.Files == nil {
		first.Files = map[string]string{}
	}
	return &first, nil
}

func (c *Client) errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var parsed errorBody
	if err := json.Unmarshal(data, &parsed); err != nil {
		return ""
	}
	return c.redactString(strings.TrimSpace(parsed.Error.Message))
}

// redact strips the request URL (and with it the API key) from transport
// errors while keeping the underlying cause.
func (c *Client) redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s %s: %w", urlErr.Op, c.redactString(urlErr.URL), urlErr.Err)
	}
	return err
}

func (c *Client) redactString(value string) string {
	if c.apiKey == "" {
		return value
	}
	value = strings.ReplaceAll(value, url.QueryEscape(c.apiKey), "REDACTED")
	return strings.ReplaceAll(value, c.apiKey, "REDACTED")
}
