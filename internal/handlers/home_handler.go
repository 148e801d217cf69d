package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
)

// HomeHandler serves the landing page and drives the hero carousel
type HomeHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewHomeHandler creates a new home handler
func NewHomeHandler(service *service.CatalogService, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		service: service,
		logger:  logger,
	}
}

// GetHome handles GET /api/home?tab=
func (h *HomeHandler) GetHome(w http.ResponseWriter, r *http.Request) {
	tab := r.URL.Query().Get("tab")

	home, err := h.service.Home(r.Context(), tab)
	if err != nil {
		writeServiceError(w, r, err, nil, h.logger, "failed to build home page", "tab", tab)
		return
	}

	WriteJSON(w, http.StatusOK, home, h.logger)
}

// NextSlide handles POST /api/home/hero/next
func (h *HomeHandler) NextSlide(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.service.NextSlide(), h.logger)
}

// PrevSlide handles POST /api/home/hero/prev
func (h *HomeHandler) PrevSlide(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.service.PrevSlide(), h.logger)
}

// SelectSlide handles POST /api/home/hero/{index}
func (h *HomeHandler) SelectSlide(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid slide index", h.logger)
		return
	}

	state, err := h.service.SelectSlide(index)
	if err != nil {
		writeServiceError(w, r, err, nil, h.logger, "failed to select slide", "index", index)
		return
	}

	WriteJSON(w, http.StatusOK, state, h.logger)
}
