package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/middleware"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/promo"
)

// promoChecker is the slice of the cart service the promo endpoints use
type promoChecker interface {
	ApplyPromo(ctx context.Context, sessionID, code string, d notify.Dispatcher) (promo.Result, error)
	PromoStats() map[string]interface{}
}

// PromoHandler handles HTTP requests for promo codes
type PromoHandler struct {
	checker promoChecker
	logger  *slog.Logger
}

// NewPromoHandler creates a new PromoHandler
func NewPromoHandler(checker promoChecker, logger *slog.Logger) *PromoHandler {
	return &PromoHandler{
		checker: checker,
		logger:  logger,
	}
}

// PromoRequest carries the code typed into the cart's promo field
type PromoRequest struct {
	Code string `json:"code"`
}

// ApplyPromo handles POST /api/cart/promo
// An empty code is rejected with 400. Any other code is checked and
// answered with 200; the result and its notification say whether it applied.
func (h *PromoHandler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	var req PromoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, nil, h.logger, "failed to decode promo request")
		return
	}

	c := notify.NewCollector()
	result, err := h.checker.ApplyPromo(r.Context(), sessionID, req.Code, c)
	if err != nil {
		writeServiceError(w, r, err, c, h.logger, "promo code rejected", "session_id", sessionID)
		return
	}

	WriteEnvelope(w, http.StatusOK, result, c, h.logger)
}

// GetStats handles GET /api/promo/stats (for debugging/monitoring)
func (h *PromoHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.checker.PromoStats(), h.logger)
}
