package admin

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"github.com/tendant/simple-ads/pkg/advertisement"
	"github.com/tendant/simple-ads/pkg/user"
)

const SessionCookie = "adminSession"

type Handle struct {
	service  *Service
	userRepo user.UserRepository
	adRepo   advertisement.AdvertisementRepository
}

func NewHandle(service *Service, userRepo user.UserRepository, adRepo advertisement.AdvertisementRepository) Handle {
	return Handle{service: service, userRepo: userRepo, adRepo: adRepo}
}

func Routes(r chi.Router, handle Handle) {
	r.Post("/login", handle.Login)
	r.Post("/logout", handle.Logout)

	r.Group(func(r chi.Router) {
		r.Use(handle.RequireSession)
		r.Get("/users", handle.ListUsers)
		r.Delete("/users/{id}", handle.DeleteUser)
		r.Get("/advertisements", handle.ListAdvertisements)
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	IsVerified  bool      `json:"is_verified"`
}

func (h Handle) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, messageResponse{Message: "invalid request body"})
		return
	}

	token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, messageResponse{Message: "invalid credentials"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/admin",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	render.JSON(w, r, messageResponse{Message: "logged in"})
}

func (h Handle) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		h.service.Logout(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   SessionCookie,
		Value:  "",
		Path:   "/admin",
		MaxAge: -1,
	})
	render.JSON(w, r, messageResponse{Message: "logged out"})
}

// RequireSession rejects requests without a live admin session.
func (h Handle) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil || !h.service.Validate(cookie.Value) {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, messageResponse{Message: "admin session required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h Handle) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.FindAll(r.Context())
	if err != nil {
		slog.Error("Failed to list users", "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, messageResponse{Message: "failed to list users"})
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, userResponse{
			ID:          u.ID,
			Username:    u.Username,
			Email:       u.Email,
			IsActive:    u.IsActive,
			IsSuperuser: u.IsSuperuser,
			IsVerified:  u.IsVerified,
		})
	}
	render.JSON(w, r, resp)
}

func (h Handle) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, messageResponse{Message: "invalid user id"})
		return
	}

	if err := h.userRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, messageResponse{Message: "user not found"})
			return
		}
		slog.Error("Failed to delete user", "user", id, "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, messageResponse{Message: "failed to delete user"})
		return
	}
	render.JSON(w, r, messageResponse{Message: "user deleted"})
}

func (h Handle) ListAdvertisements(w http.ResponseWriter, r *http.Request) {
	ads, err := h.adRepo.FindAll(r.Context())
	if err != nil {
		slog.Error("Failed to list advertisements", "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, messageResponse{Message: "failed to list advertisements"})
		return
	}
	render.JSON(w, r, ads)
}
