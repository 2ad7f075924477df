package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/studyden/studyden/internal/auth/domain"
	"github.com/studyden/studyden/internal/auth/service"
	"github.com/studyden/studyden/pkg/authsdk"
	"github.com/studyden/studyden/pkg/httpx"
	"github.com/studyden/studyden/pkg/metricsx"
	"github.com/studyden/studyden/pkg/slogx"
)

// SessionHandler owns the /v1/session/* endpoints.
type SessionHandler struct {
	Sessions  *service.SessionService
	Transport httpx.CredentialTransport
}

func toIdentity(u domain.User) authsdk.Identity {
	return authsdk.Identity{
		ID:          u.ID,
		Contact:     u.Contact,
		DisplayName: u.DisplayName,
		Guest:       u.Guest,
	}
}

// setSession writes both credential cookies and the identity body.
func (h *SessionHandler) setSession(w http.ResponseWriter, status int, user domain.User, pair service.TokenPair) {
	h.Transport.SetAccess(w, pair.Access, pair.AccessTTL)
	if pair.Refresh != "" {
		h.Transport.SetRefresh(w, pair.Refresh, pair.RefreshTTL)
	}
	httpx.WriteJSON(w, status, authsdk.SessionResponse{Identity: toIdentity(user)})
}

// HandleLogin starts a session for an existing account.
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeInvalidRequest, "request body must be JSON")
		return
	}

	user, pair, err := h.Sessions.Login(ctx, req.Contact, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeInvalidCredentials, "contact or password incorrect")
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeServerError, "internal error")
		return
	}

	h.setSession(w, http.StatusOK, user, pair)
}

// HandleRegister creates an account and starts a session.
func (h *SessionHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeInvalidRequest, "request body must be JSON")
		return
	}

	user, pair, err := h.Sessions.Register(ctx, req.Contact, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeInvalidRequest, err.Error())
		case errors.Is(err, service.ErrContactTaken):
			httpx.WriteError(w, http.StatusConflict, httpx.CodeContactTaken, "contact already registered")
		default:
			log.Error("register failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeServerError, "internal error")
		}
		return
	}

	h.setSession(w, http.StatusCreated, user, pair)
}

// HandleGuest starts an anonymous guest session.
func (h *SessionHandler) HandleGuest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, pair, err := h.Sessions.GuestLogin(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("guest login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeServerError, "internal error")
		return
	}

	h.setSession(w, http.StatusCreated, user, pair)
}

// HandleRefresh exchanges the refresh cookie for a fresh access cookie. The
// refresh credential is read from its dedicated cookie only; it is never
// accepted from a header.
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := h.Transport.Refresh(r)
	if token == "" {
		metricsx.RefreshOutcome("rejected")
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeRefreshRejected, "no refresh credential presented")
		return
	}

	user, pair, err := h.Sessions.Refresh(ctx, token)
	if err != nil {
		if errors.Is(err, service.ErrRefreshRejected) {
			metricsx.RefreshOutcome("rejected")
			httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeRefreshRejected, "refresh credential rejected")
			return
		}
		log.Error("refresh failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeServerError, "internal error")
		return
	}

	metricsx.RefreshOutcome("success")
	h.Transport.SetAccess(w, pair.Access, pair.AccessTTL)
	if pair.Refresh != "" {
		// rotation: both cookies move in the same response or not at all
		h.Transport.SetRefresh(w, pair.Refresh, pair.RefreshTTL)
	}
	log.Debug("session refreshed", "user_id", user.ID)
	httpx.WriteJSON(w, http.StatusOK, authsdk.StatusResponse{Status: "refreshed"})
}

// HandleLogout clears both credential cookies. Idempotent: logging out
// twice is fine.
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Transport.Clear(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.StatusResponse{Status: "logged_out"})
}
