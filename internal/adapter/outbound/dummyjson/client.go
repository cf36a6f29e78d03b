// Package dummyjson is the outbound adapter for the dummyjson.com demo
// REST API: the identity endpoints backing the session store and the
// product endpoints backing the catalog store.
package dummyjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Store-Desk/Storedesk/internal/domain/catalog"
	"github.com/Store-Desk/Storedesk/internal/domain/session"
)

const (
	// DefaultBaseURL is the public demo API.
	DefaultBaseURL = "https://dummyjson.com"

	// maxResponseBodySize bounds response bodies read from the remote.
	// Prevents OOM from an unbounded response.
	maxResponseBodySize = 10 * 1024 * 1024 // 10MB
)

// TokenProvider supplies the current bearer token for privileged
// requests, or the empty string when anonymous. Implementations:
// localstore.Store (prod), fakes (test).
type TokenProvider interface {
	Token() string
}

// Client talks to the demo catalog API. It implements session.AuthAPI and
// catalog.API. Product endpoints are unauthenticated; only the profile
// endpoint carries the bearer token, injected from the TokenProvider.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	tokens     TokenProvider
	logger     *slog.Logger
	metrics    *Metrics

	// Read-cache fields. Only product-detail and category responses are
	// cached; identity, list, and search requests always hit the remote.
	cache        sync.Map
	cacheTTL     time.Duration
	cacheMaxSize int
	cacheCount   int64
	cacheMu      sync.Mutex
}

// NewClient creates a client for the demo catalog API.
// It reads defaults from STORE_DESK_* environment variables; options
// override them.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:      envOrDefault("STORE_DESK_API_URL", DefaultBaseURL),
		timeout:      parseDurationEnv("STORE_DESK_API_TIMEOUT", 15*time.Second),
		cacheTTL:     parseDurationEnv("STORE_DESK_CACHE_TTL", 30*time.Second),
		cacheMaxSize: 500,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// Login exchanges credentials at the identity endpoint.
// A 400/401 response maps to ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, username, password string) (*session.LoginResult, error) {
	body := map[string]string{"username": username, "password": password}

	var resp struct {
		session.Profile
		AccessToken string `json:"accessToken"`
	}
	err := c.doRequest(ctx, http.MethodPost, "login", "/auth/login", body, &resp, false)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == 400 || apiErr.Status == 401) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return &session.LoginResult{User: resp.Profile, Token: resp.AccessToken}, nil
}

// Me fetches the extended profile for the current bearer token.
func (c *Client) Me(ctx context.Context) (*session.Profile, error) {
	var profile session.Profile
	if err := c.doRequest(ctx, http.MethodGet, "me", "/auth/me", nil, &profile, true); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Products fetches one page of the full catalog.
func (c *Client) Products(ctx context.Context, limit, skip int) (*catalog.Page, error) {
	path := fmt.Sprintf("/products?limit=%d&skip=%d", limit, skip)

	var page catalog.Page
	if err := c.doRequest(ctx, http.MethodGet, "products", path, nil, &page, false); err != nil {
		return nil, err
	}
	return &page, nil
}

// SearchProducts queries the catalog search endpoint.
func (c *Client) SearchProducts(ctx context.Context, query string) (*catalog.Page, error) {
	path := "/products/search?q=" + url.QueryEscape(query)

	var page catalog.Page
	if err := c.doRequest(ctx, http.MethodGet, "search", path, nil, &page, false); err != nil {
		return nil, err
	}
	return &page, nil
}

// Product fetches a single product by id. Recently fetched records may be
// served from the read cache.
func (c *Client) Product(ctx context.Context, id int) (*catalog.Product, error) {
	path := fmt.Sprintf("/products/%d", id)

	key := cacheKey(path)
	if cached, ok := c.getFromCache(key); ok {
		c.metrics.cacheHit()
		p := *(cached.(*catalog.Product))
		return &p, nil
	}

	var product catalog.Product
	if err := c.doRequest(ctx, http.MethodGet, "product", path, nil, &product, false); err != nil {
		return nil, err
	}

	stored := product
	c.putInCache(key, &stored)
	return &product, nil
}

// Categories fetches the catalog category index. The index changes rarely
// and may be served from the read cache.
func (c *Client) Categories(ctx context.Context) ([]catalog.Category, error) {
	const path = "/products/categories"

	key := cacheKey(path)
	if cached, ok := c.getFromCache(key); ok {
		c.metrics.cacheHit()
		cats := cached.([]catalog.Category)
		out := make([]catalog.Category, len(cats))
		copy(out, cats)
		return out, nil
	}

	var cats []catalog.Category
	if err := c.doRequest(ctx, http.MethodGet, "categories", path, nil, &cats, false); err != nil {
		return nil, err
	}

	c.putInCache(key, cats)
	return cats, nil
}

// doRequest performs one HTTP request against the remote API. endpoint is
// the logical name used for metrics and logging. authorized requests
// carry the bearer token from the TokenProvider when one is available.
func (c *Client) doRequest(ctx context.Context, method, endpoint, path string, body, result any, authorized bool) error {
	start := time.Now()
	requestID := uuid.New().String()

	err := c.do(ctx, method, path, body, result, authorized, requestID)

	status := "ok"
	if err != nil {
		status = "error"
	}
	c.metrics.observe(endpoint, status, time.Since(start).Seconds())
	c.logger.Debug("api request",
		"endpoint", endpoint, "method", method, "path", path,
		"request_id", requestID, "status", status,
		"duration_ms", time.Since(start).Milliseconds())
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, result any, authorized bool, requestID string) error {
	reqURL := strings.TrimRight(c.baseURL, "/") + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("X-Request-ID", requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if authorized && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBodySize))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return &APIError{
			Code:   fmt.Sprintf("HTTP_%d", httpResp.StatusCode),
			Status: httpResp.StatusCode,
			Err:    fmt.Errorf("server returned %d: %s", httpResp.StatusCode, excerpt(respBody)),
		}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// excerpt truncates a response body for error messages.
func excerpt(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// Helper functions for env var parsing.

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func parseDurationEnv(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return defaultVal
}
