package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/middleware"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
)

// CartHandler handles cart-related HTTP requests
type CartHandler struct {
	cartService *service.CartService
	log         *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService, log *slog.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		log:         log,
	}
}

// UpdateLineRequest changes the quantity of one cart line
type UpdateLineRequest struct {
	Variant  string `json:"variant"`
	Quantity int    `json:"quantity"`
}

// WishlistRequest names the product to add to the wishlist
type WishlistRequest struct {
	ProductID string `json:"productId"`
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	view, err := h.cartService.View(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, r, err, nil, h.log, "failed to load cart", "session_id", sessionID)
		return
	}

	WriteJSON(w, http.StatusOK, view, h.log)
}

// AddLine handles POST /api/cart/lines
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	var req service.AddLineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, nil, h.log, "failed to decode add-to-cart request")
		return
	}

	c := notify.NewCollector()
	view, err := h.cartService.AddLine(r.Context(), sessionID, req, c)
	if err != nil {
		writeServiceError(w, r, err, c, h.log, "failed to add to cart", "session_id", sessionID, "productId", req.ProductID)
		return
	}

	WriteEnvelope(w, http.StatusOK, view, c, h.log)
	h.log.Debug("cart line added", "session_id", sessionID, "productId", req.ProductID, "lines", len(view.Totals.Lines))
}

// UpdateLine handles PATCH /api/cart/lines/{productId}
func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())
	productID := chi.URLParam(r, "productId")

	var req UpdateLineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, nil, h.log, "failed to decode cart update")
		return
	}

	view, err := h.cartService.SetQuantity(r.Context(), sessionID, productID, req.Variant, req.Quantity)
	if err != nil {
		writeServiceError(w, r, err, nil, h.log, "failed to update cart line", "session_id", sessionID, "productId", productID)
		return
	}

	WriteJSON(w, http.StatusOK, view, h.log)
}

// RemoveLine handles DELETE /api/cart/lines/{productId}?variant=
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())
	productID := chi.URLParam(r, "productId")

	c := notify.NewCollector()
	view, err := h.cartService.RemoveLine(r.Context(), sessionID, productID, r.URL.Query().Get("variant"), c)
	if err != nil {
		writeServiceError(w, r, err, c, h.log, "failed to remove cart line", "session_id", sessionID, "productId", productID)
		return
	}

	WriteEnvelope(w, http.StatusOK, view, c, h.log)
}

// Checkout handles POST /api/cart/checkout
// Checkout is not available; the response asks the shopper to log in.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	c := notify.NewCollector()
	view, err := h.cartService.Checkout(r.Context(), sessionID, c)
	if err != nil {
		writeServiceError(w, r, err, c, h.log, "failed to check out", "session_id", sessionID)
		return
	}

	WriteEnvelope(w, http.StatusOK, view, c, h.log)
}

// AddToWishlist handles POST /api/wishlist
func (h *CartHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req WishlistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, nil, h.log, "failed to decode wishlist request")
		return
	}

	c := notify.NewCollector()
	if err := h.cartService.AddToWishlist(r.Context(), req.ProductID, c); err != nil {
		writeServiceError(w, r, err, c, h.log, "failed to add to wishlist", "productId", req.ProductID)
		return
	}

	WriteEnvelope(w, http.StatusOK, req, c, h.log)
}
