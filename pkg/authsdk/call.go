package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Call describes one replayable request. The body is held as a value and
// re-marshalled per attempt, so a replay after refresh sends exactly the
// same request as the original.
type Call struct {
	Method string
	Path   string

	// Body is JSON-encoded when non-nil.
	Body any

	// SkipAuth marks calls that must never trigger a refresh attempt:
	// login, register, guest, refresh itself, logout. This is an explicit
	// capability of the call site, not something inferred from the URL.
	SkipAuth bool
}

// attempt performs a single HTTP round trip for the call and decodes a 2xx
// response into out (when out is non-nil). Non-2xx responses come back as
// *APIError.
func (c *Client) attempt(ctx context.Context, call Call, out any) error {
	var body io.Reader
	if call.Body != nil {
		buf, err := json.Marshal(call.Body)
		if err != nil {
			return fmt.Errorf("authsdk: encode request body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, c.baseURL+call.Path, body)
	if err != nil {
		return fmt.Errorf("authsdk: build request: %w", err)
	}
	if call.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("authsdk: send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("authsdk: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(raw, apiErr); jsonErr != nil || apiErr.Code == "" {
			apiErr.Code = "server_error"
			apiErr.Description = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("authsdk: decode response: %w", err)
	}
	return nil
}
