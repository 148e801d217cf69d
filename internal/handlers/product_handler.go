package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/catalog"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
)

// ProductHandler handles catalog browsing requests
type ProductHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /api/products
// Optional filters: category (slug), featured (bool), q (name search)
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := catalog.Filter{
		Category: models.CategorySlug(query.Get("category")),
		Query:    query.Get("q"),
	}
	if filter.Category != "" && !filter.Category.Valid() {
		WriteError(w, http.StatusBadRequest, "Unknown category", h.logger)
		return
	}
	if raw := query.Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid featured flag", h.logger)
			return
		}
		filter.FeaturedOnly = featured
	}

	cards, err := h.service.ProductCards(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err, nil, h.logger, "failed to list products")
		return
	}

	WriteJSON(w, http.StatusOK, cards, h.logger)
}

// GetProduct handles GET /api/products/{productId}
// - 200: product detail with the selected (or first) variant priced
// - 400: unknown variant
// - 404: Product not found
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	variant := r.URL.Query().Get("variant")

	detail, err := h.service.ProductDetail(r.Context(), productID, variant)
	if err != nil {
		writeServiceError(w, r, err, nil, h.logger, "failed to get product", "productId", productID, "variant", variant)
		return
	}

	WriteJSON(w, http.StatusOK, detail, h.logger)
}

// Quote handles GET /api/products/{productId}/quote?variant=&quantity=
func (h *ProductHandler) Quote(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	quantity, err := queryInt(r, "quantity", 1)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid quantity", h.logger)
		return
	}

	quote, err := h.service.Quote(r.Context(), productID, r.URL.Query().Get("variant"), quantity)
	if err != nil {
		writeServiceError(w, r, err, nil, h.logger, "failed to quote product", "productId", productID)
		return
	}

	WriteJSON(w, http.StatusOK, quote, h.logger)
}

// StepperRequest is one press of the quantity stepper
type StepperRequest struct {
	Quantity int `json:"quantity"`
	Delta    int `json:"delta"`
}

// Stepper handles POST /api/products/{productId}/stepper
func (h *ProductHandler) Stepper(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var req StepperRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, nil, h.logger, "failed to decode stepper request")
		return
	}
	if req.Delta != 1 && req.Delta != -1 {
		WriteError(w, http.StatusBadRequest, "Delta must be 1 or -1", h.logger)
		return
	}

	c := notify.NewCollector()
	res, err := h.service.Stepper(r.Context(), productID, req.Quantity, req.Delta, c)
	if err != nil {
		writeServiceError(w, r, err, c, h.logger, "failed to step quantity", "productId", productID)
		return
	}

	WriteEnvelope(w, http.StatusOK, res, c, h.logger)
}

// ListCategories handles GET /api/categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeServiceError(w, r, err, nil, h.logger, "failed to list categories")
		return
	}

	WriteJSON(w, http.StatusOK, categories, h.logger)
}

// GetCategory handles GET /api/categories/{slug}
func (h *ProductHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	slug := strings.ToLower(chi.URLParam(r, "slug"))

	page, err := h.service.CategoryPage(r.Context(), slug)
	if err != nil {
		writeServiceError(w, r, err, nil, h.logger, "failed to get category", "slug", slug)
		return
	}

	WriteJSON(w, http.StatusOK, page, h.logger)
}
