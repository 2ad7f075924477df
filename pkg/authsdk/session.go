package authsdk

import (
	"context"
	"net/http"
)

// Login starts a session with contact and password. On success both
// credential cookies land in the jar.
func (c *Client) Login(ctx context.Context, contact, password string) (Identity, error) {
	var resp SessionResponse
	err := c.Do(ctx, Call{
		Method:   http.MethodPost,
		Path:     "/v1/session/login",
		Body:     LoginRequest{Contact: contact, Password: password},
		SkipAuth: true,
	}, &resp)
	return resp.Identity, err
}

// Register creates an account and starts a session for it.
func (c *Client) Register(ctx context.Context, contact, password, displayName string) (Identity, error) {
	var resp SessionResponse
	err := c.Do(ctx, Call{
		Method:   http.MethodPost,
		Path:     "/v1/session/register",
		Body:     RegisterRequest{Contact: contact, Password: password, DisplayName: displayName},
		SkipAuth: true,
	}, &resp)
	return resp.Identity, err
}

// GuestLogin starts an anonymous guest session.
func (c *Client) GuestLogin(ctx context.Context) (Identity, error) {
	var resp SessionResponse
	err := c.Do(ctx, Call{
		Method:   http.MethodPost,
		Path:     "/v1/session/guest",
		SkipAuth: true,
	}, &resp)
	return resp.Identity, err
}

// Refresh forces a session refresh through the same single-flight guard the
// transparent path uses. Rarely needed directly.
func (c *Client) Refresh(ctx context.Context) error {
	return c.guard.await(ctx, func() error { return c.doRefresh(ctx) })
}

// Logout ends the session. Idempotent; safe without a session.
func (c *Client) Logout(ctx context.Context) error {
	return c.Do(ctx, Call{
		Method:   http.MethodPost,
		Path:     "/v1/session/logout",
		SkipAuth: true,
	}, nil)
}

// Me returns the authenticated identity.
func (c *Client) Me(ctx context.Context) (Identity, error) {
	var id Identity
	err := c.Do(ctx, Call{Method: http.MethodGet, Path: "/v1/user"}, &id)
	return id, err
}

// UpdateDisplayName changes the authenticated user's display name.
func (c *Client) UpdateDisplayName(ctx context.Context, displayName string) (Identity, error) {
	var id Identity
	err := c.Do(ctx, Call{
		Method: http.MethodPatch,
		Path:   "/v1/user",
		Body:   UpdateUserRequest{DisplayName: displayName},
	}, &id)
	return id, err
}

// DeleteAccount removes the authenticated user's account and ends the
// session.
func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.Do(ctx, Call{Method: http.MethodDelete, Path: "/v1/user"}, nil)
}

// Livez reports service liveness.
func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var resp HealthResponse
	err := c.Do(ctx, Call{
		Method:   http.MethodGet,
		Path:     "/livez",
		SkipAuth: true,
	}, &resp)
	return resp, err
}
