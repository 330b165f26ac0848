// Package ddapi is the single choke point for outbound calls to the Datadog
// API. Every request carries the credential headers, runs at most once (no
// retries, no caching), and maps failures to a typed Error.
package ddapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pupmcp/pup/internal/logging"
	"github.com/pupmcp/pup/internal/metrics"
	"github.com/pupmcp/pup/internal/observability"
)

// RequestTimeout bounds every API call.
const RequestTimeout = 30 * time.Second

// Config holds the immutable connection settings for a Client.
type Config struct {
	APIKey string
	AppKey string
	Site   string // e.g. datadoghq.com, datadoghq.eu, us3.datadoghq.com
}

// Client issues authenticated requests against one Datadog site. It is safe
// for concurrent use; the configuration never changes after construction.
type Client struct {
	cfg     Config
	baseURL string
	httpc   *http.Client
}

// New creates a Client. Credentials must be present; the site selects the
// regional API host.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" || cfg.AppKey == "" {
		return nil, fmt.Errorf("ddapi: API key and application key are required")
	}
	if cfg.Site == "" {
		return nil, fmt.Errorf("ddapi: site must not be empty")
	}
	return &Client{
		cfg:     cfg,
		baseURL: "https://api." + cfg.Site,
		httpc:   &http.Client{Timeout: RequestTimeout},
	}, nil
}

// BaseURL returns the resolved API host, e.g. "https://api.datadoghq.com".
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do issues one request to /api/<version>/<endpoint> and decodes the JSON
// response. Empty query values must already be excluded (see Params). A 204
// or empty body decodes to an empty map.
func (c *Client) Do(ctx context.Context, method, version, endpoint string, query url.Values, body any) (any, error) {
	path := fmt.Sprintf("/api/%s/%s", version, endpoint)
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ddapi: marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	ctx, span := observability.StartClientSpan(ctx, "datadog.api.request",
		observability.AttrHTTPMethod.String(method),
		observability.AttrAPIPath.String(path),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ddapi: build request: %w", err)
	}
	req.Header.Set("DD-API-KEY", c.cfg.APIKey)
	req.Header.Set("DD-APPLICATION-KEY", c.cfg.AppKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	logging.Op().Debug("datadog api request", "method", method, "path", path)

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.RecordAPIRequest(method, 0, time.Since(start))
		apiErr := &Error{Kind: KindTransport, Message: err.Error()}
		observability.SetSpanError(span, apiErr)
		return nil, apiErr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordAPIRequest(method, 0, time.Since(start))
		apiErr := &Error{Kind: KindTransport, Message: "read response: " + err.Error()}
		observability.SetSpanError(span, apiErr)
		return nil, apiErr
	}

	metrics.RecordAPIRequest(method, resp.StatusCode, time.Since(start))
	span.SetAttributes(observability.AttrHTTPStatus.Int(resp.StatusCode))

	if resp.StatusCode >= 400 {
		apiErr := &Error{
			Kind:    KindHTTP,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("%s %s failed", method, path),
			Body:    excerpt(respBody),
		}
		observability.SetSpanError(span, apiErr)
		return nil, apiErr
	}

	observability.SetSpanOK(span)

	if resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return map[string]any{}, nil
	}

	var decoded any
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, &Error{Kind: KindDecode, Message: err.Error()}
	}
	return decoded, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, version, endpoint string, query url.Values) (any, error) {
	return c.Do(ctx, http.MethodGet, version, endpoint, query, nil)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, version, endpoint string, body any) (any, error) {
	return c.Do(ctx, http.MethodPost, version, endpoint, nil, body)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, version, endpoint string, body any) (any, error) {
	return c.Do(ctx, http.MethodPut, version, endpoint, nil, body)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, version, endpoint string, body any) (any, error) {
	return c.Do(ctx, http.MethodPatch, version, endpoint, nil, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, version, endpoint string) (any, error) {
	return c.Do(ctx, http.MethodDelete, version, endpoint, nil, nil)
}
