package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/studyden/studyden/pkg/jwtx"
	"github.com/studyden/studyden/pkg/metricsx"
	"github.com/studyden/studyden/pkg/slogx"
)

// AuthnMiddleware is the request gate: it extracts an access credential,
// verifies it, and either attaches the authenticated identity to the
// request context or rejects with a classified 401.
//
// The credential may arrive as an Authorization bearer header or as the
// access cookie. The header wins when both are present.
//
// Rejection codes:
//   - missing_token: nothing presented (refreshable)
//   - token_expired: verified signature, expiry passed (refreshable)
//   - invalid_token: malformed, mis-signed, or wrong kind (terminal)
func AuthnMiddleware(codec *jwtx.Codec, transport CredentialTransport) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := BearerFromHeader(r)
			if raw == "" {
				raw = transport.Access(r)
			}
			if raw == "" {
				metricsx.GateRejected(CodeMissingToken)
				WriteError(w, http.StatusUnauthorized, CodeMissingToken, "no access credential presented")
				return
			}

			claims, err := codec.Verify(jwtx.KindAccess, raw)
			if err != nil {
				if errors.Is(err, jwtx.ErrExpired) {
					metricsx.GateRejected(CodeTokenExpired)
					WriteError(w, http.StatusUnauthorized, CodeTokenExpired, "access credential expired")
					return
				}

				// Anything else is garbage input, not staleness. Fail closed.
				metricsx.GateRejected(CodeInvalidToken)
				log.Warn("credential verification failed", "err", err)
				WriteError(w, http.StatusUnauthorized, CodeInvalidToken, "access credential rejected")
				return
			}

			ctx = ContextWithIdentity(ctx, Identity{
				ID:          claims.Subject,
				Contact:     claims.Contact,
				DisplayName: claims.DisplayName,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerFromHeader returns the bearer token from the Authorization header,
// or "" when absent or not a bearer scheme.
func BearerFromHeader(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
}
