package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/tendant/simple-ads/pkg/auth"
	"github.com/tendant/simple-ads/pkg/login"
	"github.com/tendant/simple-ads/pkg/user"
	"github.com/tendant/simple-ads/pkg/verification"
)

type Handle struct {
	loginService        *login.Service
	verificationService *verification.Service
	jwtService          *auth.Jwt
}

func NewHandle(loginService *login.Service, verificationService *verification.Service, jwtService *auth.Jwt) Handle {
	return Handle{
		loginService:        loginService,
		verificationService: verificationService,
		jwtService:          jwtService,
	}
}

func Routes(r chi.Router, handle Handle) {
	r.Post("/register", handle.Register)
	r.Post("/login", handle.Login)
	r.Post("/token/refresh", handle.Refresh)
	r.Post("/logout", handle.Logout)
}

func toUserResponse(u user.User) UserResponse {
	var resp UserResponse
	if err := copier.Copy(&resp, &u); err != nil {
		slog.Error("Failed to map user response", "err", err)
	}
	return resp
}

// Register creates an unverified account and kicks off the verification
// email. A delivery problem never fails the registration.
func (h Handle) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, MessageResponse{Message: "invalid request body"})
		return
	}

	created, err := h.loginService.Register(r.Context(), login.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, login.ErrInvalidRegistration):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, MessageResponse{Message: err.Error()})
		case errors.Is(err, user.ErrUserExists):
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, MessageResponse{Message: "username or email already registered"})
		default:
			slog.Error("Failed to register user", "err", err)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, MessageResponse{Message: "failed to register user"})
		}
		return
	}

	if _, err := h.verificationService.Issue(r.Context(), created); err != nil {
		slog.Error("Failed to issue verification token", "user", created.ID, "err", err)
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toUserResponse(created))
}

func (h Handle) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, MessageResponse{Message: "invalid request body"})
		return
	}

	u, err := h.loginService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, login.ErrAccountDisabled):
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, MessageResponse{Message: "account disabled"})
		default:
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, MessageResponse{Message: "invalid username or password"})
		}
		return
	}

	if err := h.issueSessionCookies(w, authClaims(u)); err != nil {
		slog.Error("Failed to create session tokens", "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, MessageResponse{Message: "failed to create session"})
		return
	}

	render.JSON(w, r, LoginResponse{Status: "success", User: toUserResponse(u)})
}

// Refresh rotates both session cookies from a valid refresh token. The
// account is re-read so the new claims carry current flags.
func (h Handle) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(login.RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, MessageResponse{Message: "missing refresh token"})
		return
	}

	token, err := h.jwtService.ParseTokenStr(cookie.Value)
	if err != nil {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, MessageResponse{Message: "invalid refresh token"})
		return
	}

	userID, err := refreshTokenUserID(token)
	if err != nil {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, MessageResponse{Message: "invalid refresh token"})
		return
	}

	u, err := h.loginService.Refresh(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, login.ErrAccountDisabled):
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, MessageResponse{Message: "account disabled"})
		default:
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, MessageResponse{Message: "invalid refresh token"})
		}
		return
	}

	if err := h.issueSessionCookies(w, authClaims(u)); err != nil {
		slog.Error("Failed to create session tokens", "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, MessageResponse{Message: "failed to create session"})
		return
	}

	render.JSON(w, r, LoginResponse{Status: "success", User: toUserResponse(u)})
}

func refreshTokenUserID(token *jwt.Token) (uuid.UUID, error) {
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("unexpected claims type")
	}
	customClaims, ok := mapClaims["custom_claims"].(map[string]interface{})
	if !ok {
		return uuid.Nil, errors.New("missing custom claims")
	}
	authUser := new(login.AuthUser)
	if err := login.LoadFromMap(customClaims, authUser); err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(authUser.UserID)
}

func authClaims(u user.User) login.AuthUser {
	return login.AuthUser{
		UserID:    u.ID.String(),
		Username:  u.Username,
		Verified:  u.IsVerified,
		Superuser: u.IsSuperuser,
	}
}

func (h Handle) issueSessionCookies(w http.ResponseWriter, claims login.AuthUser) error {
	accessToken, err := h.jwtService.CreateAccessToken(claims)
	if err != nil {
		return err
	}
	refreshToken, err := h.jwtService.CreateRefreshToken(claims)
	if err != nil {
		return err
	}
	h.setTokenCookie(w, login.AccessTokenCookie, accessToken)
	h.setTokenCookie(w, login.RefreshTokenCookie, refreshToken)
	return nil
}

func (h Handle) Logout(w http.ResponseWriter, r *http.Request) {
	logoutToken, err := h.jwtService.CreateLogoutToken(nil)
	if err != nil {
		slog.Error("Failed to create logout token", "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, MessageResponse{Message: "failed to log out"})
		return
	}

	h.setTokenCookie(w, login.AccessTokenCookie, logoutToken)
	h.setTokenCookie(w, login.RefreshTokenCookie, logoutToken)

	render.JSON(w, r, MessageResponse{Message: "logged out"})
}

func (h Handle) setTokenCookie(w http.ResponseWriter, name string, token auth.AuthToken) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token.Token,
		Path:     "/",
		Expires:  token.Expiry,
		HttpOnly: h.jwtService.CookieHttpOnly,
		Secure:   h.jwtService.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
