package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/studyden/studyden/internal/auth/service"
	"github.com/studyden/studyden/pkg/authsdk"
	"github.com/studyden/studyden/pkg/httpx"
	"github.com/studyden/studyden/pkg/slogx"
)

// UserHandler owns the gated /v1/user endpoints. All of them run behind the
// auth gate, so the identity is always present in the context.
type UserHandler struct {
	Users     *service.UserService
	Transport httpx.CredentialTransport
}

// HandleGet returns the authenticated user's identity summary, read from
// the store rather than echoed from the credential so a stale token cannot
// present deleted or renamed state.
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, _ := httpx.IdentityFromContext(ctx)

	user, err := h.Users.Get(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, service.ErrUnknownUser) {
			httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeInvalidToken, "account no longer exists")
			return
		}
		slogx.FromContext(ctx).Error("user lookup failed", "user_id", identity.ID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeServerError, "internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toIdentity(user))
}

// HandleUpdate changes the display name.
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, _ := httpx.IdentityFromContext(ctx)

	var req authsdk.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeInvalidRequest, "request body must be JSON")
		return
	}

	user, err := h.Users.UpdateDisplayName(ctx, identity.ID, req.DisplayName)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeInvalidRequest, err.Error())
			return
		}
		slogx.FromContext(ctx).Error("user update failed", "user_id", identity.ID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeServerError, "internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toIdentity(user))
}

// HandleDelete removes the account and ends the session in one move.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, _ := httpx.IdentityFromContext(ctx)

	if err := h.Users.Delete(ctx, identity.ID); err != nil {
		slogx.FromContext(ctx).Error("user delete failed", "user_id", identity.ID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeServerError, "internal error")
		return
	}

	h.Transport.Clear(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.StatusResponse{Status: "deleted"})
}
