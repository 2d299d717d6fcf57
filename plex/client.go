package plex

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client represents a Plex Media Server API client
type Client struct {
	baseURL          string
	token            string
	userAgent        string
	clientIdentifier string
	httpClient       *http.Client
	logger           zerolog.Logger
}

var _ API = (*Client)(nil)

// NewClient creates a new Plex client. The server is not contacted; use
// Ping to verify the URL and token.
func NewClient(baseURL, token string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: plex URL is required", ErrInvalidConfig)
	}
	if token == "" {
		return nil, fmt.Errorf("%w: plex token is required", ErrInvalidConfig)
	}

	options := &clientOptions{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	return &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		token:            token,
		userAgent:        options.userAgent,
		clientIdentifier: options.clientIdentifier,
		httpClient:       httpClient,
		logger:           logger,
	}, nil
}

// get performs an authenticated GET and returns the body of a 2xx response
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, &TransportError{Op: "build", URL: c.baseURL + endpoint, Err: err}
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			q[k] = vs
		}
		u.RawQuery = q.Encode()
	}
	target := u.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Op: "build", URL: target, Err: err}
	}

	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.clientIdentifier != "" {
		req.Header.Set("X-Plex-Client-Identifier", c.clientIdentifier)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: http.MethodGet, URL: target, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read", URL: target, Err: err}
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("Plex API request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: target, Body: string(body)}
	}

	return body, nil
}

// fetch performs a GET and decodes the MediaContainer payload
func fetch[T any](ctx context.Context, c *Client, endpoint string, params url.Values) (*T, error) {
	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	payload, err := Unwrap[T](body)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// Ping checks that the server is reachable and accepts the token
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ServerInformation(ctx)
	return err
}

// ServerInformation retrieves the server root descriptor
func (c *Client) ServerInformation(ctx context.Context) (*ServerInfo, error) {
	return fetch[ServerInfo](ctx, c, "", nil)
}

// LibrarySections retrieves the top-level library sections
func (c *Client) LibrarySections(ctx context.Context) (*LibrarySections, error) {
	return fetch[LibrarySections](ctx, c, "/library/sections", nil)
}

// LibrarySection retrieves one section or nested node. The key is appended
// to the sections path as given, so a compound key like "1/all" addresses a
// nested node.
func (c *Client) LibrarySection(ctx context.Context, key string) (*LibrarySection, error) {
	return fetch[LibrarySection](ctx, c, "/library/sections/"+key, nil)
}

// Search runs a free-text search across all libraries
func (c *Client) Search(ctx context.Context, query string) (*SearchResults, error) {
	params := url.Values{}
	params.Set("query", query)
	return fetch[SearchResults](ctx, c, "/search", params)
}
