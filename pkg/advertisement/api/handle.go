package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jinzhu/copier"

	"github.com/tendant/simple-ads/pkg/advertisement"
)

type Handle struct {
	service *advertisement.Service
}

func NewHandle(service *advertisement.Service) Handle {
	return Handle{service: service}
}

// Routes registers the read-only advertisement endpoints. They are public.
func Routes(r chi.Router, handle Handle) {
	r.Get("/", handle.List)
	r.Get("/{id}", handle.Get)
}

// AuthRoutes registers the mutating endpoints. Mount them behind a
// verified session.
func AuthRoutes(r chi.Router, handle Handle) {
	r.Post("/", handle.Create)
	r.Put("/", handle.Update)
	r.Delete("/{id}", handle.Delete)
}

func toResponse(ad advertisement.Advertisement) AdvertisementResponse {
	var resp AdvertisementResponse
	if err := copier.Copy(&resp, &ad); err != nil {
		slog.Error("Failed to map advertisement response", "err", err)
	}
	return resp
}

func idFromURL(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h Handle) List(w http.ResponseWriter, r *http.Request) {
	ads, err := h.service.List(r.Context())
	if err != nil {
		slog.Error("Failed to list advertisements", "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, MessageResponse{Message: "failed to list advertisements"})
		return
	}

	resp := make([]AdvertisementResponse, 0, len(ads))
	for _, ad := range ads {
		resp = append(resp, toResponse(ad))
	}
	render.JSON(w, r, resp)
}

func (h Handle) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, MessageResponse{Message: "invalid advertisement id"})
		return
	}

	ad, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err, "failed to get advertisement")
		return
	}
	render.JSON(w, r, toResponse(ad))
}

func (h Handle) Create(w http.ResponseWriter, r *http.Request) {
	var req AdvertisementRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, MessageResponse{Message: "invalid request body"})
		return
	}

	ad, err := h.service.Create(r.Context(), advertisement.CreateAdvertisementParams{
		Title:      req.Title,
		Author:     req.Author,
		ViewsCount: req.ViewsCount,
		Position:   req.Position,
	})
	if err != nil {
		h.renderError(w, r, err, "failed to create advertisement")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toResponse(ad))
}

func (h Handle) Update(w http.ResponseWriter, r *http.Request) {
	var req AdvertisementRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, MessageResponse{Message: "invalid request body"})
		return
	}

	ad, err := h.service.Update(r.Context(), advertisement.UpdateAdvertisementParams{
		ID:         req.ID,
		Title:      req.Title,
		Author:     req.Author,
		ViewsCount: req.ViewsCount,
		Position:   req.Position,
	})
	if err != nil {
		h.renderError(w, r, err, "failed to update advertisement")
		return
	}
	render.JSON(w, r, toResponse(ad))
}

func (h Handle) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, MessageResponse{Message: "invalid advertisement id"})
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.renderError(w, r, err, "failed to delete advertisement")
		return
	}
	render.JSON(w, r, MessageResponse{Message: "advertisement deleted"})
}

func (h Handle) renderError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, advertisement.ErrAdvertisementNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, MessageResponse{Message: "advertisement not found"})
	case errors.Is(err, advertisement.ErrInvalidAdvertisement):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, MessageResponse{Message: err.Error()})
	default:
		slog.Error("Advertisement request failed", "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, MessageResponse{Message: fallback})
	}
}
