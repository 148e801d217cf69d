package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/auth"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/catalog"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/handlers"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/middleware"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/promo"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/session"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/showcase"
	"github.com/Lixing-Zhang/kart-challenge/storefront/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting storefront api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	// Server lifetime context, cancelled on shutdown
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize catalog from the embedded dataset
	repo, err := catalog.NewInMemoryRepository()
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	slides, err := repo.HeroSlides(ctx)
	if err != nil {
		log.Error("failed to load hero slides", "error", err)
		os.Exit(1)
	}
	log.Info("catalog loaded", "products", len(repo.ProductIDs()), "hero_slides", len(slides))

	// Hero carousel auto-advances for the lifetime of the server
	carousel := showcase.NewCarousel(slides, cfg.Storefront.HeroInterval)
	go carousel.Run(ctx)

	// Initialize state and services
	sessions := session.NewStore(
		session.WithDemoCart(cfg.Cart.SeedDemo),
		session.WithTTL(cfg.Session.TTL),
		session.WithMaxStates(cfg.Session.MaxStates),
	)
	go sessions.Run(ctx, time.Minute, func(removed int) {
		log.Debug("expired sessions swept", "removed", removed, "sessions", sessions.Len())
	})
	policy := cart.Policy{
		FreeShippingThreshold: cfg.Cart.FreeShippingThreshold,
		ShippingFee:           cfg.Cart.ShippingFee,
	}

	catalogService := service.NewCatalogService(repo, carousel)
	cartService := service.NewCartService(sessions, repo, policy, promo.NewChecker(cfg.Storefront.SimulatedLatency))
	accountService := service.NewAccountService(sessions, auth.NewService(cfg.Storefront.SimulatedLatency))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(sessions, log)
	productHandler := handlers.NewProductHandler(catalogService, log)
	homeHandler := handlers.NewHomeHandler(catalogService, log)
	cartHandler := handlers.NewCartHandler(cartService, log)
	promoHandler := handlers.NewPromoHandler(cartService, log)
	accountHandler := handlers.NewAccountHandler(accountService, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token", middleware.SessionHeader},
		ExposedHeaders:   []string{middleware.SessionHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Home page and hero carousel
		r.Get("/home", homeHandler.GetHome)
		r.Post("/home/hero/next", homeHandler.NextSlide)
		r.Post("/home/hero/prev", homeHandler.PrevSlide)
		r.Post("/home/hero/{index}", homeHandler.SelectSlide)

		// Catalog endpoints
		r.Get("/categories", productHandler.ListCategories)
		r.Get("/categories/{slug}", productHandler.GetCategory)
		r.Get("/products", productHandler.ListProducts)
		r.Get("/products/{productId}", productHandler.GetProduct)
		r.Get("/products/{productId}/quote", productHandler.Quote)
		r.Post("/products/{productId}/stepper", productHandler.Stepper)

		r.Get("/promo/stats", promoHandler.GetStats)
		r.Post("/wishlist", cartHandler.AddToWishlist)

		// Endpoints bound to the shopper's session
		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(sessions))

			r.Get("/session", accountHandler.GetSession)

			r.Get("/cart", cartHandler.GetCart)
			r.Post("/cart/lines", cartHandler.AddLine)
			r.Patch("/cart/lines/{productId}", cartHandler.UpdateLine)
			r.Delete("/cart/lines/{productId}", cartHandler.RemoveLine)
			r.Post("/cart/promo", promoHandler.ApplyPromo)
			r.Post("/cart/checkout", cartHandler.Checkout)

			r.Post("/auth/login", accountHandler.Login)
			r.Post("/auth/register", accountHandler.Register)
			r.Post("/auth/social/{provider}", accountHandler.Social)
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stop()

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully", "sessions", sessions.Len())
}
