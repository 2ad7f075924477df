package authsdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// Client talks to the studyden auth service. All methods are safe for
// concurrent use; the zero number of refreshes wasted on a thundering herd
// is the whole point.
type Client struct {
	baseURL string
	http    *http.Client
	guard   refreshGuard
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A cookie jar is
// attached if the given client has none, since the credentials live there.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("authsdk: cookie jar: %w", err)
		}
		c.http.Jar = jar
	}

	return c, nil
}

// Do performs a call with transparent refresh. On a refresh-eligible 401 it
// coordinates one refresh through the guard and replays the call exactly
// once. A refresh-eligible 401 on the replay is surfaced as an error rather
// than retried; there is no recursion here.
func (c *Client) Do(ctx context.Context, call Call, out any) error {
	err := c.attempt(ctx, call, out)
	if err == nil || call.SkipAuth || !refreshEligible(err) {
		return err
	}

	if refreshErr := c.guard.await(ctx, func() error { return c.doRefresh(ctx) }); refreshErr != nil {
		return refreshErr
	}

	err = c.attempt(ctx, call, out)
	if err != nil && refreshEligible(err) {
		return fmt.Errorf("authsdk: request unauthorized after refresh: %w", err)
	}
	return err
}

// doRefresh is the leader's one network refresh. The refresh credential
// rides the cookie jar; a rejection ends the session for the whole wave.
func (c *Client) doRefresh(ctx context.Context) error {
	err := c.attempt(ctx, Call{
		Method:   http.MethodPost,
		Path:     "/v1/session/refresh",
		SkipAuth: true,
	}, nil)
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %w", ErrSessionExpired, apiErr)
	}
	return err
}
