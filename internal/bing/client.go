package bing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"harvester/internal/logging"
)

const (
	defaultEndpoint    = "https://api.bing.microsoft.com/v7.0/images/search"
	defaultHTTPTimeout = 30 * time.Second
	defaultMaxRetries  = 3
	defaultCount       = 50
	defaultMarket      = "en-US"
	defaultSafeSearch  = "Moderate"
	defaultMaxImages   = 100

	// maxCountPerRequest is the hard per-page ceiling the provider enforces.
	maxCountPerRequest = 150
)

// Config describes the search client configuration.
type Config struct {
	APIKey string
	// Endpoint defaults to the published v7 images search endpoint.
	Endpoint string
	// RequestDelay is the minimum gap between outbound requests. Zero
	// disables the gate.
	RequestDelay time.Duration
	// MaxRetries is the number of attempts per request (default 3).
	MaxRetries int
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client wraps the Bing Image Search v7 API.
//
// A Client issues one request at a time: the rate-limit gate and retry
// sleeps are blocking, and lastRequest is read and written without locking.
// Driving one instance from multiple goroutines requires external mutual
// exclusion.
type Client struct {
	apiKey       string
	endpoint     *url.URL
	requestDelay time.Duration
	maxRetries   int
	httpClient   *http.Client
	logger       *slog.Logger

	retryBaseDelay time.Duration
	sleeper        func(time.Duration)

	lastRequest time.Time
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSleeper overrides how rate-limit and retry sleeps are performed
// (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// WithRetryBackoff overrides the base unit of the exponential backoff
// sequence (defaults to one second).
func WithRetryBackoff(base time.Duration) Option {
	return func(c *Client) {
		if base > 0 {
			c.retryBaseDelay = base
		}
	}
}

// New creates a search client from the supplied configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("bing: api key is required")
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("bing: parse endpoint: %w", err)
	}
	delay := cfg.RequestDelay
	if delay < 0 {
		delay = 0
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	client := &Client{
		apiKey:         apiKey,
		endpoint:       parsed,
		requestDelay:   delay,
		maxRetries:     retries,
		httpClient:     httpClient,
		logger:         logger,
		retryBaseDelay: time.Second,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Param is one extra query parameter. Extras are applied after the built-in
// parameters in slice order, so callers can override any field by name.
type Param struct {
	Key   string
	Value string
}

// SearchOptions contains the optional parameters for Search.
type SearchOptions struct {
	// Count is the requested page size (default 50, clamped to 150).
	Count int
	// Offset is the provider pagination cursor.
	Offset int
	// Market defaults to en-US.
	Market string
	// SafeSearch defaults to Moderate.
	SafeSearch string
	ImageType  string
	Filter     string
	Extra      []Param
}

// statusError is the transport-level form of a non-2xx response. The search
// flow surfaces it as-is after retries; it is not a classified API error.
// Callers that want classification decode the body and call Classify.
type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("bing: search returned %d: %s", e.StatusCode, e.Body)
}

// Search runs a single image search request and maps the response.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("bing: query must not be empty")
	}

	if err := c.awaitRateLimit(ctx); err != nil {
		return nil, err
	}

	count := opts.Count
	if count <= 0 {
		count = defaultCount
	}
	if count > maxCountPerRequest {
		count = maxCountPerRequest
	}
	market := opts.Market
	if market == "" {
		market = defaultMarket
	}
	safeSearch := opts.SafeSearch
	if safeSearch == "" {
		safeSearch = defaultSafeSearch
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(count))
	params.Set("offset", strconv.Itoa(opts.Offset))
	params.Set("mkt", market)
	params.Set("safeSearch", safeSearch)
	if opts.ImageType != "" {
		params.Set("imageType", opts.ImageType)
	}
	if opts.Filter != "" {
		params.Set("$filter", opts.Filter)
	}
	// Extras land last: later entries win, including over built-ins.
	for _, extra := range opts.Extra {
		params.Set(extra.Key, extra.Value)
	}

	body, err := c.fetchWithRetries(ctx, params)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("bing: decode response: %w", err)
	}

	result := ResultFromResponse(query, payload, c.logger)
	c.logger.Info("image search completed",
		logging.Args(logging.String(logging.FieldQuery, query), logging.Int("images", len(result.Images)))...)
	return result, nil
}

// SearchAll pages through results until maxImages images are collected or
// the provider reports no further pages. Count and Offset in opts are
// ignored; SearchAll manages both. The combined result's
// TotalEstimatedMatches reflects only the last page fetched.
func (c *Client) SearchAll(ctx context.Context, query string, maxImages int, opts SearchOptions) (*SearchResult, error) {
	if maxImages <= 0 {
		maxImages = defaultMaxImages
	}
	perRequest := maxImages
	if perRequest > maxCountPerRequest {
		perRequest = maxCountPerRequest
	}

	images := make([]ImageMetadata, 0, maxImages)
	offset := 0
	var last *SearchResult

	for len(images) < maxImages {
		count := maxImages - len(images)
		if count > perRequest {
			count = perRequest
		}

		pageOpts := opts
		pageOpts.Count = count
		pageOpts.Offset = offset

		c.logger.Info("fetching result page",
			logging.Args(logging.String(logging.FieldQuery, query), logging.Int("count", count), logging.Int("offset", offset))...)
		result, err := c.Search(ctx, query, pageOpts)
		if err != nil {
			return nil, err
		}
		last = result
		images = append(images, result.Images...)

		if result.NextOffset == nil || len(result.Images) == 0 {
			c.logger.Info("no more results available",
				logging.Args(logging.String(logging.FieldQuery, query), logging.Int("collected", len(images)))...)
			break
		}
		offset = *result.NextOffset
		c.logger.Info("retrieved images",
			logging.Args(logging.Int("collected", len(images)), logging.Int("requested", maxImages))...)
	}

	if len(images) > maxImages {
		images = images[:maxImages]
	}
	combined := &SearchResult{Query: query, Images: images}
	if last != nil {
		combined.TotalEstimatedMatches = last.TotalEstimatedMatches
	}
	c.logger.Info("image harvest completed",
		logging.Args(logging.String(logging.FieldQuery, query), logging.Int("images", len(combined.Images)))...)
	return combined, nil
}

// awaitRateLimit blocks until the configured gap since the previous request
// has elapsed. The last-request time is restamped after the check whether or
// not a wait occurred.
func (c *Client) awaitRateLimit(ctx context.Context) error {
	if c.requestDelay > 0 {
		elapsed := time.Since(c.lastRequest)
		if wait := c.requestDelay - elapsed; wait > 0 {
			c.logger.Debug("rate limiting", logging.Args(logging.Duration("wait", wait))...)
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}
		}
	}
	c.lastRequest = time.Now()
	return nil
}

func (c *Client) fetchWithRetries(ctx context.Context, params url.Values) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		c.logger.Debug("issuing search request",
			logging.Args(logging.Int("attempt", attempt), logging.Int("max_attempts", c.maxRetries))...)

		body, err := c.fetchOnce(ctx, params)
		if err == nil {
			return body, nil
		}
		lastErr = err
		c.logger.Warn("search request failed",
			logging.Args(logging.Int("attempt", attempt), logging.Int("max_attempts", c.maxRetries), logging.Error(err))...)

		if attempt < c.maxRetries {
			delay := c.backoffDelay(attempt)
			c.logger.Info("retrying search request", logging.Args(logging.Duration("delay", delay))...)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}
	}
	c.logger.Error("search request attempts exhausted", logging.Args(logging.Int("attempts", c.maxRetries))...)
	return nil, lastErr
}

func (c *Client) fetchOnce(ctx context.Context, params url.Values) ([]byte, error) {
	endpoint := *c.endpoint
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("bing: build request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bing: execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("bing: read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &statusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

// backoffDelay returns the deterministic base*2^(attempt-1) sequence:
// 1s, 2s, 4s, ... with the default base. No jitter.
func (c *Client) backoffDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return c.retryBaseDelay * time.Duration(1<<(attempt-1))
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	if ctx == nil {
		<-timer.C
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
