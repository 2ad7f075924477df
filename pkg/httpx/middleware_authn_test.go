package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/studyden/studyden/pkg/httpx"
	"github.com/studyden/studyden/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newGateCodec(t *testing.T, opts ...jwtx.CodecOption) *jwtx.Codec {
	t.Helper()

	access, err := jwtx.GenerateKeyPair("gate-access")
	require.NoError(t, err)
	refresh, err := jwtx.GenerateKeyPair("gate-refresh")
	require.NoError(t, err)

	codec, err := jwtx.NewCodec("studyden-auth", access, refresh, opts...)
	require.NoError(t, err)
	return codec
}

// gatedEcho is a protected handler that reports the identity the gate
// attached, so tests can see what came through.
func gatedEcho(t *testing.T, codec *jwtx.Codec) http.Handler {
	t.Helper()

	transport := httpx.DefaultTransport(false)
	return httpx.Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := httpx.IdentityFromContext(r.Context())
			require.True(t, ok, "handler reached without identity")
			httpx.WriteJSON(w, http.StatusOK, map[string]string{"id": id.ID, "contact": id.Contact})
		}),
		httpx.AuthnMiddleware(codec, transport),
	)
}

func gateErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body httpx.ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestGateRejectsMissingCredential(t *testing.T) {
	t.Parallel()

	codec := newGateCodec(t)
	h := gatedEcho(t, codec)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/user", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, httpx.CodeMissingToken, gateErrorCode(t, rec))
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "missing_token")
}

func TestGateAcceptsCookieCredential(t *testing.T) {
	t.Parallel()

	codec := newGateCodec(t)
	h := gatedEcho(t, codec)

	token, err := codec.Issue(jwtx.KindAccess, "user-1", jwtx.Profile{Contact: "a@example.com"}, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/user", nil)
	req.AddCookie(&http.Cookie{Name: "studyden_access", Value: token})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Equal(t, "user-1", got["id"])
	require.Equal(t, "a@example.com", got["contact"])
}

func TestGateHeaderTakesPrecedenceOverCookie(t *testing.T) {
	t.Parallel()

	codec := newGateCodec(t)
	h := gatedEcho(t, codec)

	headerToken, err := codec.Issue(jwtx.KindAccess, "header-user", jwtx.Profile{}, time.Minute)
	require.NoError(t, err)
	cookieToken, err := codec.Issue(jwtx.KindAccess, "cookie-user", jwtx.Profile{}, time.Minute)
	require.NoError(t, err)

	t.Run("valid header wins over valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/user", nil)
		req.Header.Set("Authorization", "Bearer "+headerToken)
		req.AddCookie(&http.Cookie{Name: "studyden_access", Value: cookieToken})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var got map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		require.Equal(t, "header-user", got["id"])
	})

	t.Run("garbage header rejects despite valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/user", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		req.AddCookie(&http.Cookie{Name: "studyden_access", Value: cookieToken})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, httpx.CodeInvalidToken, gateErrorCode(t, rec))
	})
}

func TestGateClassifiesExpiredCredential(t *testing.T) {
	t.Parallel()

	now := time.Now()
	clock := func() time.Time { return now }
	codec := newGateCodec(t, jwtx.WithClock(func() time.Time { return clock() }))
	h := gatedEcho(t, codec)

	token, err := codec.Issue(jwtx.KindAccess, "user-1", jwtx.Profile{}, time.Second)
	require.NoError(t, err)

	clock = func() time.Time { return now.Add(2 * time.Second) }

	req := httptest.NewRequest(http.MethodGet, "/v1/user", nil)
	req.AddCookie(&http.Cookie{Name: "studyden_access", Value: token})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, httpx.CodeTokenExpired, gateErrorCode(t, rec))
}

func TestGateRejectsWrongKindAsInvalid(t *testing.T) {
	t.Parallel()

	codec := newGateCodec(t)
	h := gatedEcho(t, codec)

	// A refresh credential presented as an access credential is tampering
	// territory, never a refresh trigger.
	refreshToken, err := codec.Issue(jwtx.KindRefresh, "user-1", jwtx.Profile{}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/user", nil)
	req.Header.Set("Authorization", "Bearer "+refreshToken)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, httpx.CodeInvalidToken, gateErrorCode(t, rec))
}

func TestRefreshableCodeClassification(t *testing.T) {
	t.Parallel()

	require.True(t, httpx.RefreshableCode(httpx.CodeMissingToken))
	require.True(t, httpx.RefreshableCode(httpx.CodeTokenExpired))
	require.False(t, httpx.RefreshableCode(httpx.CodeInvalidToken))
	require.False(t, httpx.RefreshableCode(httpx.CodeRefreshRejected))
	require.False(t, httpx.RefreshableCode(httpx.CodeForbidden))
}
