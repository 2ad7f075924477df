package httpx

import "net/http"

// Error codes returned in the "error" field of failure responses. The first
// two are the only refresh-eligible classifications: a client holding a
// refresh credential may answer them with exactly one refresh attempt.
// Everything else is terminal for the request that received it.
const (
	// CodeMissingToken means no access credential was presented.
	CodeMissingToken = "missing_token"

	// CodeTokenExpired means the access credential verified but its expiry
	// has passed.
	CodeTokenExpired = "token_expired"

	// CodeInvalidToken means the credential is malformed, mis-signed, or of
	// the wrong kind. Never refreshable: this is tampering, not staleness.
	CodeInvalidToken = "invalid_token"

	// CodeRefreshRejected means the refresh credential itself was invalid
	// or expired. Terminal: the session is over.
	CodeRefreshRejected = "refresh_rejected"

	// CodeForbidden is for ownership/entitlement failures in the business
	// layer. 403-class, must never be confused with the 401 codes above.
	CodeForbidden = "forbidden"

	CodeInvalidRequest     = "invalid_request"
	CodeInvalidCredentials = "invalid_credentials"
	CodeContactTaken       = "contact_taken"
	CodeRateLimited        = "rate_limit_exceeded"
	CodeServerError        = "server_error"
)

// RefreshableCode reports whether a failure code may be answered with a
// refresh attempt.
func RefreshableCode(code string) bool {
	return code == CodeMissingToken || code == CodeTokenExpired
}

// ErrorBody is the JSON shape of every failure response.
type ErrorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// WriteError writes a classified failure response. 401 responses also carry
// an RFC 6750 WWW-Authenticate header naming the error code.
func WriteError(w http.ResponseWriter, status int, code, desc string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer error="`+code+`", error_description="`+desc+`"`)
	}
	WriteJSON(w, status, ErrorBody{Error: code, ErrorDescription: desc})
}

// WriteForbidden is the helper the business layer uses for ownership
// failures. Kept here so nothing downstream invents a 401 for them.
func WriteForbidden(w http.ResponseWriter, desc string) {
	WriteError(w, http.StatusForbidden, CodeForbidden, desc)
}
