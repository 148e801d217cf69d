package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/auth"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/catalog"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/middleware"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/promo"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/session"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/showcase"
)

// testEnv is a router wired the way cmd/server wires it, with no simulated
// latency and a demo-seeded session store
type testEnv struct {
	router   chi.Router
	sessions *session.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := catalog.MustNewInMemoryRepository()
	slides, err := repo.HeroSlides(context.Background())
	if err != nil {
		t.Fatalf("HeroSlides() error = %v", err)
	}

	sessions := session.NewStore(session.WithDemoCart(true))
	catalogSvc := service.NewCatalogService(repo, showcase.NewCarousel(slides, time.Hour))
	cartSvc := service.NewCartService(sessions, repo, cart.DefaultPolicy(), promo.NewChecker(0))
	accountSvc := service.NewAccountService(sessions, auth.NewService(0))

	products := NewProductHandler(catalogSvc, log)
	home := NewHomeHandler(catalogSvc, log)
	carts := NewCartHandler(cartSvc, log)
	promos := NewPromoHandler(cartSvc, log)
	accounts := NewAccountHandler(accountSvc, log)

	r := chi.NewRouter()
	r.Method(http.MethodGet, "/health", NewHealthHandler(sessions, log))
	r.Route("/api", func(r chi.Router) {
		r.Get("/home", home.GetHome)
		r.Post("/home/hero/next", home.NextSlide)
		r.Post("/home/hero/prev", home.PrevSlide)
		r.Post("/home/hero/{index}", home.SelectSlide)
		r.Get("/categories", products.ListCategories)
		r.Get("/categories/{slug}", products.GetCategory)
		r.Get("/products", products.ListProducts)
		r.Get("/products/{productId}", products.GetProduct)
		r.Get("/products/{productId}/quote", products.Quote)
		r.Post("/products/{productId}/stepper", products.Stepper)
		r.Get("/promo/stats", promos.GetStats)
		r.Post("/wishlist", carts.AddToWishlist)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(sessions))
			r.Get("/cart", carts.GetCart)
			r.Post("/cart/lines", carts.AddLine)
			r.Patch("/cart/lines/{productId}", carts.UpdateLine)
			r.Delete("/cart/lines/{productId}", carts.RemoveLine)
			r.Post("/cart/promo", promos.ApplyPromo)
			r.Post("/cart/checkout", carts.Checkout)
			r.Get("/session", accounts.GetSession)
			r.Post("/auth/login", accounts.Login)
			r.Post("/auth/register", accounts.Register)
			r.Post("/auth/social/{provider}", accounts.Social)
		})
	})

	return &testEnv{router: r, sessions: sessions}
}

// do sends a request, optionally with a JSON body and a session id
func (e *testEnv) do(t *testing.T, method, target, sessionID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			buf, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("failed to marshal request body: %v", err)
			}
			reader = bytes.NewBuffer(buf)
		}
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// envelopeOf decodes an Envelope whose data is decoded into data
func envelopeOf(t *testing.T, w *httptest.ResponseRecorder, data interface{}) []notify.Notification {
	t.Helper()

	var env struct {
		Data          json.RawMessage       `json:"data"`
		Error         string                `json:"error"`
		Notifications []notify.Notification `json:"notifications"`
	}
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("failed to decode envelope data: %v", err)
		}
	}
	return env.Notifications
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}
