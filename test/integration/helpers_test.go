package integration

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	httpapi "github.com/studyden/studyden/internal/auth/http"
	"github.com/studyden/studyden/internal/auth/service"
	"github.com/studyden/studyden/internal/auth/store/drivers/sqlite"
	"github.com/studyden/studyden/pkg/authsdk"
	"github.com/studyden/studyden/pkg/httpx"
	"github.com/studyden/studyden/pkg/jwtx"
	"github.com/studyden/studyden/pkg/slogx"
	"github.com/stretchr/testify/require"
)

// env is a full in-process deployment: sqlite store, codec, router, HTTP
// server, plus counters on the wire so tests can assert how many refreshes
// actually crossed the network.
type env struct {
	server *httptest.Server
	jar    *cookiejar.Jar
	client *authsdk.Client

	refreshCalls atomic.Int32
}

// newEnv starts the service with the given access TTL. Refresh TTL stays
// long; these tests age the access credential only.
func newEnv(t *testing.T, accessTTL time.Duration, rotate bool) *env {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	accessKey, err := jwtx.GenerateKeyPair("it-access")
	require.NoError(t, err)
	refreshKey, err := jwtx.GenerateKeyPair("it-refresh")
	require.NoError(t, err)

	codec, err := jwtx.NewCodec("studyden-it", accessKey, refreshKey)
	require.NoError(t, err)

	logger := slogx.New(slogx.Config{Service: "studyden-it", Env: "dev", Level: "error", Format: "text"})

	transport := httpx.DefaultTransport(false)
	router := httpapi.NewRouter(codec, transport, "test", st, logger)
	router.SessionService = service.NewSessionService(st, codec, service.SessionConfig{
		AccessTTL:     accessTTL,
		RotateRefresh: rotate,
	})
	router.UserService = service.NewUserService(st)
	router.ApplyRoutes()

	e := &env{}

	counted := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == transport.RefreshPath {
			e.refreshCalls.Add(1)
			// Hold the refresh open long enough for every concurrent
			// detector to join the in-flight wave instead of starting
			// its own.
			time.Sleep(150 * time.Millisecond)
		}
		router.ServeHTTP(w, r)
	})

	e.server = httptest.NewServer(counted)
	t.Cleanup(e.server.Close)

	e.jar, err = cookiejar.New(nil)
	require.NoError(t, err)

	e.client, err = authsdk.NewClient(e.server.URL,
		authsdk.WithHTTPClient(&http.Client{Jar: e.jar, Timeout: 10 * time.Second}),
	)
	require.NoError(t, err)

	return e
}

// rawGet performs a bare request with the client's cookies but without the
// guard, to observe the server's classification directly.
func (e *env) rawGet(t *testing.T, path string) (*http.Response, httpx.ErrorBody) {
	t.Helper()

	hc := &http.Client{Jar: e.jar, Timeout: 10 * time.Second}
	resp, err := hc.Get(e.server.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var body httpx.ErrorBody
	if resp.StatusCode >= 400 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp, body
}

// corruptRefreshCookie replaces the refresh credential in the jar with
// garbage, simulating server-side invalidation of the session.
func (e *env) corruptRefreshCookie(t *testing.T) {
	t.Helper()

	u, err := url.Parse(e.server.URL)
	require.NoError(t, err)

	e.jar.SetCookies(u, []*http.Cookie{{
		Name:  "studyden_refresh",
		Value: "tampered.refresh.credential",
		Path:  "/v1/session/refresh",
	}})
}
