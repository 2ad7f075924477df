package httpx

import (
	"net/http"
	"time"
)

// CredentialTransport names and scopes the two credential cookies. Keeping
// this an explicit value rather than assuming browser storage means a
// non-browser client can carry the same two credentials via headers while
// the server contract stays identical.
type CredentialTransport struct {
	// AccessCookie carries the short-lived access credential on every
	// request. Path "/".
	AccessCookie string

	// RefreshCookie carries the long-lived refresh credential. Scoped to
	// RefreshPath so it is only ever sent to the refresh endpoint and stays
	// out of every other code path.
	RefreshCookie string
	RefreshPath   string

	// Secure marks cookies Secure; off only in dev over plain HTTP.
	Secure bool
}

// DefaultTransport returns the production cookie layout.
func DefaultTransport(secure bool) CredentialTransport {
	return CredentialTransport{
		AccessCookie:  "studyden_access",
		RefreshCookie: "studyden_refresh",
		RefreshPath:   "/v1/session/refresh",
		Secure:        secure,
	}
}

// SetAccess writes the access credential cookie with a fresh TTL window.
func (t CredentialTransport) SetAccess(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     t.AccessCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   t.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// SetRefresh writes the refresh credential cookie, scoped to the refresh
// endpoint.
func (t CredentialTransport) SetRefresh(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     t.RefreshCookie,
		Value:    token,
		Path:     t.RefreshPath,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   t.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear expires both cookies. Safe to call whether or not they exist, which
// keeps logout idempotent.
func (t CredentialTransport) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     t.AccessCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   t.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     t.RefreshCookie,
		Value:    "",
		Path:     t.RefreshPath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   t.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Access returns the access credential from the request cookie, or "".
func (t CredentialTransport) Access(r *http.Request) string {
	c, err := r.Cookie(t.AccessCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// Refresh returns the refresh credential from the request cookie, or "".
// This is the only sanctioned read path for the long-lived credential; it
// is never accepted from a header.
func (t CredentialTransport) Refresh(r *http.Request) string {
	c, err := r.Cookie(t.RefreshCookie)
	if err != nil {
		return ""
	}
	return c.Value
}
