package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/studyden/studyden/internal/auth/service"
	"github.com/studyden/studyden/internal/auth/store"
	"github.com/studyden/studyden/pkg/httpx"
	"github.com/studyden/studyden/pkg/jwtx"
	"github.com/studyden/studyden/pkg/metricsx"
	"github.com/studyden/studyden/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec        *jwtx.Codec
	transport    httpx.CredentialTransport
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	SessionService *service.SessionService
	UserService    *service.UserService
}

func NewRouter(
	codec *jwtx.Codec,
	transport httpx.CredentialTransport,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		transport:    transport,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Outermost chain, applied to every route.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		metricsx.HTTPMiddleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerUser()
	r.registerSystem()
}

// ServeHTTP lets the Router be mounted directly on an http.Server.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSession() {
	h := &SessionHandler{Sessions: r.SessionService, Transport: r.transport}

	// Credential endpoints take the strict profile: they are the ones worth
	// brute-forcing.
	r.Mux.Handle("POST /v1/session/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/session/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/session/guest",
		httpx.Chain(http.HandlerFunc(h.HandleGuest),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/session/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/session/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerUser() {
	h := &UserHandler{Users: r.UserService, Transport: r.transport}

	gate := httpx.AuthnMiddleware(r.codec, r.transport)

	r.Mux.Handle("GET /v1/user",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			gate,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PATCH /v1/user",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			gate,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/user",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			gate,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
	r.Mux.Handle("GET /metrics", metricsx.Handler())
}
