package authsdk

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/studyden/studyden/pkg/httpx"
)

// ErrSessionExpired means the session could not be refreshed and is over.
// The caller decides what happens next (usually: send the user to login).
// The client itself performs no navigation or storage side effects.
var ErrSessionExpired = errors.New("authsdk: session expired")

// APIError is a classified failure response from the service.
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g. "token_expired").
	Code string `json:"error"`

	// Description is the human-readable description.
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// refreshEligible reports whether err is a 401 whose code may be answered
// with a refresh attempt. invalid_token and friends are deliberately not
// eligible: tampering is terminal, staleness is not.
func refreshEligible(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized && httpx.RefreshableCode(apiErr.Code)
}
