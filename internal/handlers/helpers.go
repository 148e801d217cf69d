package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/auth"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/catalog"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/promo"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/session"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/showcase"
)

var errInvalidBody = errors.New("invalid request body")

// bodyError reports a malformed request. It matches errInvalidBody and
// unwraps to the decode error.
type bodyError struct {
	err error
}

func (e *bodyError) Error() string { return errInvalidBody.Error() + ": " + e.err.Error() }

func (e *bodyError) Unwrap() error { return e.err }

func (e *bodyError) Is(target error) bool { return target == errInvalidBody }

// errorStatus maps a service error to the status code and message sent to
// the client
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, "Invalid request body"
	case errors.Is(err, catalog.ErrProductNotFound):
		return http.StatusNotFound, "Product not found"
	case errors.Is(err, catalog.ErrCategoryNotFound):
		return http.StatusNotFound, "Category not found"
	case errors.Is(err, cart.ErrLineNotFound):
		return http.StatusNotFound, "Cart item not found"
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "Session not found"
	case errors.Is(err, showcase.ErrSlideOutOfRange):
		return http.StatusNotFound, "Slide not found"
	case errors.Is(err, service.ErrUnknownVariant):
		return http.StatusBadRequest, "Unknown variant"
	case errors.Is(err, service.ErrInvalidQuantity), errors.Is(err, cart.ErrInvalidQuantity):
		return http.StatusBadRequest, "Quantity must be between 1 and 9999"
	case errors.Is(err, cart.ErrInvalidProduct):
		return http.StatusBadRequest, "Invalid product"
	case errors.Is(err, service.ErrOutOfStock):
		return http.StatusConflict, "Product is out of stock"
	case errors.Is(err, showcase.ErrUnknownTab):
		return http.StatusBadRequest, "Unknown tab"
	case errors.Is(err, promo.ErrEmptyCode):
		return http.StatusBadRequest, promo.MsgEmptyCode
	case errors.Is(err, auth.ErrMissingFields):
		return http.StatusBadRequest, "Required fields are missing"
	case errors.Is(err, auth.ErrTermsNotAccepted):
		return http.StatusBadRequest, auth.MsgAcceptTerms
	case errors.Is(err, auth.ErrUnknownProvider):
		return http.StatusNotFound, "Unknown provider"
	case errors.Is(err, auth.ErrUnknownMode):
		return http.StatusBadRequest, "Unknown mode"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "Request timed out"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// writeServiceError logs err and writes the mapped error response. When c
// is non-nil its notifications are included.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, c *notify.Collector, logger *slog.Logger, msg string, attrs ...any) {
	status, message := errorStatus(err)

	attrs = append(attrs, "error", err, "status", status)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), msg, attrs...)
	} else {
		logger.InfoContext(r.Context(), msg, attrs...)
	}

	if c == nil {
		WriteError(w, status, message, logger)
		return
	}
	WriteFailure(w, status, message, c, logger)
}

// decodeJSON reads the request body into v
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &bodyError{err: err}
	}
	return nil
}

// queryInt parses an integer query parameter, returning def when absent
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &bodyError{err: errors.Wrap(err, key)}
	}
	return v, nil
}
