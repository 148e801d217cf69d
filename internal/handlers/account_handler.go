package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/auth"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/middleware"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
)

// AccountHandler handles the session, login and registration endpoints
type AccountHandler struct {
	accounts *service.AccountService
	log      *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts *service.AccountService, log *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		log:      log,
	}
}

// GetSession handles GET /api/session
func (h *AccountHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	snap, err := h.accounts.Session(sessionID)
	if err != nil {
		writeServiceError(w, r, err, nil, h.log, "failed to load session", "session_id", sessionID)
		return
	}

	WriteJSON(w, http.StatusOK, snap, h.log)
}

// Login handles POST /api/auth/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	var form auth.LoginForm
	if err := decodeJSON(r, &form); err != nil {
		writeServiceError(w, r, err, nil, h.log, "failed to decode login form")
		return
	}

	c := notify.NewCollector()
	user, err := h.accounts.Login(r.Context(), sessionID, form, c)
	if err != nil {
		writeServiceError(w, r, err, c, h.log, "login failed", "session_id", sessionID)
		return
	}

	WriteEnvelope(w, http.StatusOK, user, c, h.log)
}

// Register handles POST /api/auth/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	var form auth.RegisterForm
	if err := decodeJSON(r, &form); err != nil {
		writeServiceError(w, r, err, nil, h.log, "failed to decode registration form")
		return
	}

	c := notify.NewCollector()
	user, err := h.accounts.Register(r.Context(), sessionID, form, c)
	if err != nil {
		writeServiceError(w, r, err, c, h.log, "registration failed", "session_id", sessionID)
		return
	}

	WriteEnvelope(w, http.StatusCreated, user, c, h.log)
}

// Social handles POST /api/auth/social/{provider}?mode=login|register
func (h *AccountHandler) Social(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())
	provider := chi.URLParam(r, "provider")
	mode := auth.Mode(r.URL.Query().Get("mode"))

	c := notify.NewCollector()
	user, err := h.accounts.Social(r.Context(), sessionID, provider, mode, c)
	if err != nil {
		writeServiceError(w, r, err, c, h.log, "social sign-in failed", "session_id", sessionID, "provider", provider)
		return
	}

	WriteEnvelope(w, http.StatusOK, user, c, h.log)
}
