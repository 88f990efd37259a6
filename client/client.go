// Package client provides a typed HTTP client for the content server's
// management API.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultAPIPrefix is prepended to request paths that do not already
// carry it.
const DefaultAPIPrefix = "/pulp/api"

// Client provides HTTP communication with the content server. Calls are
// JSON in both directions; authentication is either HTTP basic or a TLS
// client certificate.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiPrefix  string
	username   string
	password   string
	logger     zerolog.Logger
	observe    func(resource string, status int)
}

// Config configures the client.
type Config struct {
	// BaseURL is the server root, e.g. "https://content.example.com".
	BaseURL string
	// APIPrefix overrides DefaultAPIPrefix when set.
	APIPrefix string
	// Username and Password enable basic auth.
	Username string
	Password string
	// CertFile and KeyFile enable TLS client certificate auth.
	CertFile string
	KeyFile  string
	Timeout  time.Duration
	Logger   zerolog.Logger
	// Observe, when set, is called once per completed request with the
	// resource family and response status. Used for metrics.
	Observe func(resource string, status int)
}

// New creates a client. A configured certificate pair takes effect even
// when basic credentials are also present; the server decides which to
// honor.
func New(cfg Config) (*Client, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	httpClient := &http.Client{Timeout: timeout}
	if cfg.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{Certificates: []tls.Certificate{cert}},
		}
	}

	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = DefaultAPIPrefix
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiPrefix:  prefix,
		username:   cfg.Username,
		password:   cfg.Password,
		logger:     cfg.Logger,
		observe:    cfg.Observe,
	}, nil
}

// APIError represents a non-success response from the server.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether the error carries a 404 status. The client
// itself maps 404 to an empty result, so this only matters for errors
// produced elsewhere.
func IsNotFound(err error) bool {
	if ae, ok := err.(*APIError); ok {
		return ae.StatusCode == http.StatusNotFound
	}
	return false
}

// do sends a request and decodes the JSON response into result when one is
// present. It reports found=false without an error on 404, mirroring the
// lookup semantics of the server: absent is an answer, not a failure.
func (c *Client) do(ctx context.Context, method, path string, body, result any) (found bool, err error) {
	handler := path
	if !strings.HasPrefix(handler, c.apiPrefix) {
		handler = c.apiPrefix + "/" + strings.TrimPrefix(handler, "/")
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+handler, bodyReader)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	c.logger.Debug().Str("method", method).Str("path", handler).Msg("api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if c.observe != nil {
		c.observe(resourceFamily(path), resp.StatusCode)
	}

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent:
	default:
		data, _ := io.ReadAll(resp.Body)
		return false, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if result == nil {
		return true, nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}
	if len(data) == 0 {
		return true, nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return true, nil
}

func (c *Client) get(ctx context.Context, path string, result any) (bool, error) {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) (bool, error) {
	return c.do(ctx, http.MethodPost, path, body, result)
}

func (c *Client) put(ctx context.Context, path string, body, result any) (bool, error) {
	return c.do(ctx, http.MethodPut, path, body, result)
}

func (c *Client) del(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// resourceFamily extracts the first path segment after the API prefix,
// e.g. "repositories" from "/repositories/zoo/sync/".
func resourceFamily(path string) string {
	trimmed := strings.Trim(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}
