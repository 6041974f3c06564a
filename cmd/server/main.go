package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/config"
	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/events"
	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/handlers"
	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/identity"
	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/metrics"
	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/store"
	"github.com/gorilla/sessions"
)

func main() {
	// Configure slog to output DEBUG level messages
	// This should be done as early as possible in main
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	// Using TextHandler for console readability; for production JSONHandler might be preferred.
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Init DB
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	if err := db.InitSchema(); err != nil {
		slog.Error("Failed to init schema", "error", err)
		os.Exit(1)
	}

	// Run Migrations
	if err := db.Migrate("migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 3. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure // Configurable for production
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	resolver := &identity.Resolver{Sessions: sessionStore}
	bus := events.NewBus()
	serverMetrics := metrics.NewServerMetrics("clicktoeat_api")

	// 4. Setup Handlers
	authHandler := &handlers.AuthHandler{Store: db, Identity: resolver}
	menuHandler := &handlers.MenuHandler{Store: db}
	cartHandler := &handlers.CartHandler{Store: db, Identity: resolver, Bus: bus}
	orderHandler := &handlers.OrderHandler{Store: db, Identity: resolver, Bus: bus}
	favoritesHandler := &handlers.FavoritesHandler{Store: db, Identity: resolver}
	partnerHandler := &handlers.PartnerHandler{Store: db, Auth: authHandler, Metrics: serverMetrics}
	adminHandler := &handlers.AdminHandler{Store: db}

	mux := http.NewServeMux()

	// Rate limiter guards the account creation endpoint
	rateLimiter := handlers.NewRateLimiter(10 * time.Second)

	// Auth
	mux.HandleFunc("POST /api/auth/signup", rateLimiter.Middleware(authHandler.Signup))
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/check", authHandler.Check)

	// Menu & partner directory
	mux.HandleFunc("GET /api/menu", menuHandler.List)
	mux.HandleFunc("GET /api/menu/{id}", menuHandler.Get)
	mux.HandleFunc("GET /api/partners", menuHandler.Partners)
	mux.HandleFunc("GET /api/partners/{name}/menu", menuHandler.PartnerMenu)

	// Cart
	mux.HandleFunc("GET /api/cart", cartHandler.Get)
	mux.HandleFunc("POST /api/cart/add", cartHandler.Add)
	mux.HandleFunc("PUT /api/cart/update/{id}", cartHandler.Update)
	mux.HandleFunc("DELETE /api/cart/remove/{id}", cartHandler.Remove)

	// Favorites
	mux.HandleFunc("GET /api/favorites", favoritesHandler.List)
	mux.HandleFunc("GET /api/favorites/ids", favoritesHandler.IDs)
	mux.HandleFunc("POST /api/favorites/add", favoritesHandler.Add)
	mux.HandleFunc("DELETE /api/favorites/remove/{id}", favoritesHandler.Remove)

	// Orders
	mux.HandleFunc("POST /api/orders/create", orderHandler.Create)
	mux.HandleFunc("POST /api/orders/cancel/{id}", orderHandler.Cancel)
	mux.HandleFunc("GET /api/orders", orderHandler.List)

	// Partner staff console
	mux.HandleFunc("GET /api/partner/orders", partnerHandler.Orders)
	mux.HandleFunc("PATCH /api/partner/orders/{id}/status", partnerHandler.UpdateStatus)

	// Admin (read-only order overview)
	mux.HandleFunc("GET /api/admin/orders", authHandler.RequireRole("admin", adminHandler.ListOrders))

	// Ops
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Wrap the router with middleware chain
	// Chain: Logger -> Security Headers -> Metrics -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			handlers.MetricsMiddleware(serverMetrics, mux),
		),
	)

	// 5. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
