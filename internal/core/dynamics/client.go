package dynamics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/CFITire/nexus-sub001/internal/core/config"
	"github.com/CFITire/nexus-sub001/internal/core/logger"

	"go.uber.org/zap"
)

// defaultBaseURL is the Business Central public cloud API root.
const defaultBaseURL = "https://api.businesscentral.dynamics.com"

// queryRetries is the number of additional attempts for an idempotent GET
// after a transport error or 5xx response. The token POST is never retried.
const queryRetries = 1

// retryBackoff is the pause before a retry attempt.
const retryBackoff = 250 * time.Millisecond

// QueryOptions narrows an OData resource query. The upstream cannot OR
// filters across different fields, so callers needing that issue one query
// per field and merge client-side.
type QueryOptions struct {
	// Filter is the raw $filter expression.
	Filter string
	// OrderBy is the raw $orderby expression.
	OrderBy string
	// Top caps the number of returned rows. Zero means no cap.
	Top int
}

// Client executes OData queries against a Business Central company. It owns
// its TokenCache so test doubles and multi-tenant setups can run isolated
// instances.
type Client struct {
	cfg    config.ERPConfig
	client *http.Client
	tokens *TokenCache
	logger *zap.Logger
}

// NewClient creates a Client using the given HTTP client for both the token
// exchange and resource queries.
func NewClient(cfg config.ERPConfig, httpClient *http.Client) *Client {
	return &Client{
		cfg:    cfg,
		client: httpClient,
		tokens: NewTokenCache(cfg, httpClient),
		logger: logger.Get(),
	}
}

// HealthCheck verifies that credentials are valid by forcing a token fetch.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.tokens.Token(ctx); err != nil {
		return fmt.Errorf("erp health check failed: %w", err)
	}
	return nil
}

// Query executes a field-limited OData query against the given resource and
// returns the raw rows from the response envelope. Transport errors and 5xx
// responses are retried once with a short backoff.
func (c *Client) Query(ctx context.Context, resource string, opts QueryOptions) ([]json.RawMessage, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	reqURL := c.resourceURL(resource, opts)

	var lastErr error
	for attempt := 0; attempt <= queryRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBackoff):
			}
			c.logger.Debug("Retrying ERP query",
				zap.String("resource", resource),
				zap.Int("attempt", attempt+1),
			)
		}

		rows, retryable, err := c.doQuery(ctx, reqURL, token)
		if err == nil {
			return rows, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}

	return nil, lastErr
}

// doQuery performs one GET attempt. The second return value reports whether
// the failure is worth retrying.
func (c *Client) doQuery(ctx context.Context, reqURL, token string) ([]json.RawMessage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, resp.StatusCode >= http.StatusInternalServerError, &UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var envelope struct {
		Value []json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, false, fmt.Errorf("failed to decode response: %w", err)
	}

	return envelope.Value, false, nil
}

// resourceURL builds the company-scoped OData URL for a resource.
func (c *Client) resourceURL(resource string, opts QueryOptions) string {
	base := c.cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}

	u := fmt.Sprintf("%s/v2.0/%s/%s/ODataV4/Company('%s')/%s",
		base, c.cfg.TenantID, c.cfg.Environment, url.PathEscape(c.cfg.Company), resource)

	q := url.Values{}
	if opts.Filter != "" {
		q.Set("$filter", opts.Filter)
	}
	if opts.OrderBy != "" {
		q.Set("$orderby", opts.OrderBy)
	}
	if opts.Top > 0 {
		q.Set("$top", strconv.Itoa(opts.Top))
	}
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}

	return u
}

// EscapeFilterValue doubles single quotes per OData string literal rules.
func EscapeFilterValue(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
