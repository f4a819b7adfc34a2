package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/tendant/simple-ads/pkg/login"
	"github.com/tendant/simple-ads/pkg/verification"
)

type Handle struct {
	verificationService *verification.Service
}

func NewHandle(verificationService *verification.Service) Handle {
	return Handle{verificationService: verificationService}
}

// Routes mounts the public verification endpoint.
func Routes(r chi.Router, handle Handle) {
	r.Get("/verify-account", handle.VerifyAccount)
}

// AuthRoutes mounts the endpoints that require an authenticated session.
func AuthRoutes(r chi.Router, handle Handle) {
	r.Get("/ask_verification", handle.AskVerification)
}

// VerifyAccount consumes the token from the emailed link. When the request
// carries a session for an already-verified account the conflict is reported
// before any token lookup, so the response never reveals whether the token
// string itself was stale.
func (h Handle) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	if userID, ok := sessionUserID(r); ok {
		verified, err := h.verificationService.IsVerified(r.Context(), userID)
		if err == nil && verified {
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, MessageResponse{Message: "account already verified"})
			return
		}
	}

	token := r.URL.Query().Get("token")

	u, err := h.verificationService.Verify(r.Context(), token)
	if err != nil {
		if errors.Is(err, verification.ErrTokenNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, MessageResponse{Message: "verification token not found"})
			return
		}
		slog.Error("Failed to verify account", "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, MessageResponse{Message: "failed to verify account"})
		return
	}

	slog.Info("Account verified", "user", u.ID)
	render.JSON(w, r, MessageResponse{Message: "account verified"})
}

// AskVerification re-issues a verification email for the logged-in user. The
// verified check reads current state, not the session's cached claims.
func (h Handle) AskVerification(w http.ResponseWriter, r *http.Request) {
	authUser, ok := login.AuthUserFromContext(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, MessageResponse{Message: "not authenticated"})
		return
	}

	_, err := h.verificationService.RequestVerification(r.Context(), authUser.UserUuid)
	if err != nil {
		switch {
		case errors.Is(err, verification.ErrAlreadyVerified):
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, MessageResponse{Message: "account already verified"})
		case errors.Is(err, verification.ErrUserNotFound):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, MessageResponse{Message: "user not found"})
		default:
			slog.Error("Failed to request verification", "user", authUser.UserUuid, "err", err)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, MessageResponse{Message: "failed to request verification"})
		}
		return
	}

	render.JSON(w, r, MessageResponse{Message: "verification email sent"})
}

// sessionUserID extracts the user id from an optional session. The endpoint
// stays public, so a missing or invalid token is simply "no session".
func sessionUserID(r *http.Request) (uuid.UUID, bool) {
	if authUser, ok := login.AuthUserFromContext(r.Context()); ok {
		return authUser.UserUuid, true
	}

	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		return uuid.Nil, false
	}
	customClaims, ok := claims["custom_claims"].(map[string]interface{})
	if !ok {
		return uuid.Nil, false
	}
	var authUser login.AuthUser
	if err := login.LoadFromMap(customClaims, &authUser); err != nil {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(authUser.UserID)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}
