// Package gitlab implements the GitLab REST v4 client the executor
// searches through. Every request passes through a client-owned counting
// semaphore, list and search endpoints follow Link-header pagination
// transparently, and non-2xx responses surface as *APIError.
package gitlab

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/klauspost/compress/gzip"

	"gls/internal/logging"
	"gls/internal/version"
)

const (
	// DefaultMaxRequests bounds concurrent API requests when no
	// --max-requests override is given.
	DefaultMaxRequests = 15

	perPage     = 100
	maxBodySize = 64 << 20
)

// Options configures a Client.
type Options struct {
	BaseURL     string
	Token       string
	IgnoreCert  bool
	MaxRequests int
	Logger      *slog.Logger
}

// Client is a GitLab API client safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	sem     *semaphore
	logger  *slog.Logger
}

// NewClient creates a client for the API at opts.BaseURL.
func NewClient(opts Options) *Client {
	transport := cleanhttp.DefaultPooledTransport()
	// Gzip is requested and decoded explicitly in get, so the transport
	// must not negotiate it behind our back.
	transport.DisableCompression = true
	if opts.IgnoreCert {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	maxRequests := opts.MaxRequests
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewDiscard()
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		httpc:   &http.Client{Transport: transport},
		sem:     newSemaphore(maxRequests),
		logger:  logger,
	}
}

// get performs one GET under the request ceiling and returns the body and
// response headers. A non-2xx status yields an *APIError.
func (c *Client) get(ctx context.Context, fullURL string) ([]byte, http.Header, error) {
	if err := c.sem.Acquire(ctx); err != nil {
		return nil, nil, err
	}
	defer c.sem.Release()

	reqID := uuid.NewString()[:8]
	c.logger.Debug("gitlab request", "id", reqID, "url", fullURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", "gls/"+version.Version)
	if c.token != "" {
		req.Header.Set("PRIVATE-TOKEN", c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var reader io.Reader = io.LimitReader(resp.Body, maxBodySize)
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode gzip body: %w", err)
		}
		defer func() { _ = gz.Close() }()
		reader = gz
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("gitlab response", "id", reqID, "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    apiMessage(body),
			URL:        fullURL,
		}
	}
	return body, resp.Header, nil
}

// apiMessage extracts GitLab's error message field when present.
func apiMessage(body []byte) string {
	var payload struct {
		Message any `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != nil {
			return fmt.Sprintf("%v", payload.Message)
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

// getPaginated follows Link rel="next" until the listing is exhausted,
// decoding every page into a []T. path is relative to the base URL;
// continuation URLs from the Link header are absolute.
func getPaginated[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	u := c.baseURL + path
	var out []T
	for u != "" {
		body, header, err := c.get(ctx, u)
		if err != nil {
			return nil, err
		}
		var page []T
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to decode page: %w", err)
		}
		out = append(out, page...)
		u = nextPageURL(header)
	}
	return out, nil
}

// getJSON fetches a single object.
func getJSON[T any](ctx context.Context, c *Client, path string) (*T, error) {
	body, _, err := c.get(ctx, c.baseURL+path)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// archivedParam maps the --archived filter onto the listing API's
// archived query parameter. Filtering happens at the API, never as a
// client-side post-filter.
func archivedParam(filter string) string {
	switch filter {
	case "only":
		return "&archived=true"
	case "exclude":
		return "&archived=false"
	}
	return ""
}
