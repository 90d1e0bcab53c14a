// Package remote talks to a gameshelf server: it fetches the active theme and
// forwards backend commands over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/gameshelf/internal/ports"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL     string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d from %s: %s", e.Status, e.URL, e.Message)
	}
	return fmt.Sprintf("HTTP %d from %s", e.Status, e.URL)
}

// Client is a ports.ThemeFetcher and ports.Backend backed by a server.
type Client struct {
	endpoint string
	client   *http.Client
	logger   ports.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.client = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger ports.Logger) Option {
	return func(cl *Client) {
		if logger != nil {
			cl.logger = logger
		}
	}
}

// New creates a client for the server at endpoint, e.g. "http://127.0.0.1:7420".
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint %q must use http or https", endpoint)
	}

	c := &Client{
		endpoint: strings.TrimRight(u.String(), "/"),
		client:   &http.Client{Timeout: DefaultTimeout},
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "remote", "layer", "infrastructure")
	return c, nil
}

// Endpoint returns the server base URL.
func (c *Client) Endpoint() string { return c.endpoint }

// FetchTheme downloads the server's active theme. A body that does not parse
// yields a parse error, which callers do not retry.
func (c *Client) FetchTheme(ctx context.Context) (*theme.Document, error) {
	target := c.endpoint + "/api/theme"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	c.setCorrelation(ctx, req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(target, resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	if n := resp.Header.Get("X-Theme-Issues"); n != "" && n != "0" {
		c.logger.Warn(ctx, "server reported theme issues", "count", n)
	}
	return theme.ParseDocument(target+".json", data)
}

type invokeResponse struct {
	Result interface{} `json:"result"`
	Error  string      `json:"error"`
}

// Invoke runs a backend command on the server.
func (c *Client) Invoke(ctx context.Context, command string, args map[string]interface{}) (interface{}, error) {
	if strings.TrimSpace(command) == "" {
		return nil, errors.New("command is required")
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	body, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("marshal args: %w", err)
	}

	target := c.endpoint + "/api/invoke/" + url.PathEscape(command)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setCorrelation(ctx, req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", target, err)
	}
	defer resp.Body.Close()

	var out invokeResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: target, Status: resp.StatusCode, Message: out.Error}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}
	c.logger.Debug(ctx, "backend command completed", "command", command)
	return out.Result, nil
}

func (c *Client) setCorrelation(ctx context.Context, req *http.Request) {
	if id := ports.GetCorrelationID(ctx); id != "" {
		req.Header.Set("X-Request-Id", id)
	}
}

func checkStatus(target string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	var out invokeResponse
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &out) == nil && out.Error != "" {
		msg = out.Error
	}
	return &StatusError{URL: target, Status: resp.StatusCode, Message: msg}
}
