package authsdk

// Wire types shared by the server handlers and this client, so the two
// sides cannot drift apart silently.

// Identity is the public summary of the authenticated user.
type Identity struct {
	ID          string `json:"id"`
	Contact     string `json:"contact,omitempty"`
	DisplayName string `json:"display_name"`
	Guest       bool   `json:"guest"`
}

// SessionResponse is returned by login, register and guest. The credentials
// themselves travel as cookies, never in the body.
type SessionResponse struct {
	Identity Identity `json:"identity"`
}

// StatusResponse is the minimal success body for refresh and logout.
type StatusResponse struct {
	Status string `json:"status"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string            `json:"status"`
	Uptime  string            `json:"uptime"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// LoginRequest is the body for POST /v1/session/login.
type LoginRequest struct {
	Contact  string `json:"contact"`
	Password string `json:"password"`
}

// RegisterRequest is the body for POST /v1/session/register.
type RegisterRequest struct {
	Contact     string `json:"contact"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

// UpdateUserRequest is the body for PATCH /v1/user.
type UpdateUserRequest struct {
	DisplayName string `json:"display_name"`
}
