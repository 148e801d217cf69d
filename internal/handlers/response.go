package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
)

// Envelope wraps the result of a shopper action together with the
// notifications it raised
type Envelope struct {
	Data          interface{}           `json:"data,omitempty"`
	Error         string                `json:"error,omitempty"`
	Notifications []notify.Notification `json:"notifications"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, map[string]string{"error": message}, logger)
}

// WriteEnvelope writes data with the notifications collected by c
func WriteEnvelope(w http.ResponseWriter, status int, data interface{}, c *notify.Collector, logger *slog.Logger) {
	WriteJSON(w, status, Envelope{Data: data, Notifications: c.Notifications()}, logger)
}

// WriteFailure writes an error response that still carries the
// notifications collected by c, so a rejected form shows its message
func WriteFailure(w http.ResponseWriter, status int, message string, c *notify.Collector, logger *slog.Logger) {
	WriteJSON(w, status, Envelope{Error: message, Notifications: c.Notifications()}, logger)
}
