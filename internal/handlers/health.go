package handlers

import (
	"log/slog"
	"net/http"
	"time"
)

// sessionCounter reports how many shopper sessions are live
type sessionCounter interface {
	Len() int
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	sessions sessionCounter
	started  time.Time
	logger   *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(sessions sessionCounter, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		sessions: sessions,
		started:  time.Now(),
		logger:   logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Sessions  int       `json:"sessions"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Sessions:  h.sessions.Len(),
	}

	WriteJSON(w, http.StatusOK, response, h.logger)
}
