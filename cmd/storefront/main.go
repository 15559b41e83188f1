package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/storefront/docs"
	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/apiclient"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/checkout"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/health"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/payment"
	"github.com/aaravmahajanofficial/storefront/internal/pricing"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	"github.com/aaravmahajanofficial/storefront/internal/store"
	"github.com/aaravmahajanofficial/storefront/internal/telemetry"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/pkg/sendgrid"
	"github.com/aaravmahajanofficial/storefront/pkg/stripe"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//	@title			Storefront Session Gateway API
//	@version		1.0
//	@description	Session-scoped storefront state, checkout and payment orchestration in front of the store backend.
//	@BasePath		/api/v1
func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Tracing
	shutdownTracing, err := telemetry.Setup(ctx, cfg.Otel, cfg.Env)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Ledger database
	repo, attempts, err := repository.New(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repo.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisConnect)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	redisCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	defer redisCache.Close()

	validate := utils.NewValidator()
	backend := apiclient.New(cfg.Backend, validate)

	var notifier checkout.Notifier
	if cfg.SendGrid.APIKey != "" {
		notifier = sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	} else {
		slog.Warn("⚠️ SendGrid API key not set, order confirmations are disabled")
	}

	broker := payment.NewBroker(cfg.Payment.WidgetTimeout)

	var (
		stripeClient stripe.Client
		headless     payment.Widget
	)

	if cfg.Payment.Provider == handlers.ProviderStripe {
		stripeClient = stripe.NewStripeClient(cfg.Payment.Stripe.APIKey)
		headless = stripe.NewWidget(stripeClient, cfg.Payment.Stripe.PaymentMethod)
	}

	sessions := session.NewManager(cfg.Session, session.Deps{
		API: func(tokens apiclient.TokenSource) store.API {
			return backend.WithTokens(tokens)
		},
		Tokens:   cache.NewTokenStore(redisCache),
		TokenTTL: cfg.Cache.DefaultTTL,
		Checkout: checkout.Dependencies{
			Ledger:   attempts,
			Notifier: notifier,
			Policy:   pricing.NewPolicy(cfg.Pricing),
			Payment:  cfg.Payment,
			Validate: validate,
		},
		Logger: logger,
	})

	go sessions.Run(ctx)

	healthEndpoints := &health.Endpoints{}
	if stripeClient != nil {
		healthEndpoints.Stripe = stripeClient
	}

	healthChecker, err := health.NewHealthHandler(cfg, healthEndpoints)
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	authHandler := handlers.NewAuthHandler(validate)
	profileHandler := handlers.NewProfileHandler(validate)
	productHandler := handlers.NewProductHandler()
	cartHandler := handlers.NewCartHandler(validate)
	checkoutHandler := handlers.NewCheckoutHandler(validate, cfg.Payment.Provider, broker, headless, attempts)
	orderHandler := handlers.NewOrderHandler()
	wishlistHandler := handlers.NewWishlistHandler()
	adminHandler := handlers.NewAdminHandler(validate)
	sessionMiddleware := middleware.NewSessionMiddleware(sessions)

	docs.SwaggerInfo.Host = cfg.Addr

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", health.Version))

	// Route wrappers
	public := func(h http.HandlerFunc) http.HandlerFunc { return sessionMiddleware.Attach(h) }
	private := func(h http.HandlerFunc) http.HandlerFunc { return sessionMiddleware.RequireAuth(h) }
	admin := func(h http.HandlerFunc) http.HandlerFunc { return sessionMiddleware.RequireAdmin(h) }

	// Setup router
	routerMux := http.NewServeMux()

	routerMux.HandleFunc("POST /api/v1/auth/signup", public(authHandler.Signup()))
	routerMux.HandleFunc("POST /api/v1/auth/login", public(authHandler.Login()))
	routerMux.HandleFunc("POST /api/v1/auth/logout", public(authHandler.Logout()))
	routerMux.HandleFunc("GET /api/v1/auth/me", public(authHandler.Me()))
	routerMux.HandleFunc("GET /api/v1/state", public(authHandler.State()))

	routerMux.HandleFunc("GET /api/v1/profile", private(profileHandler.GetProfile()))
	routerMux.HandleFunc("PUT /api/v1/profile", private(profileHandler.UpdateProfile()))
	routerMux.HandleFunc("POST /api/v1/profile/addresses", private(profileHandler.AddAddress()))
	routerMux.HandleFunc("PUT /api/v1/profile/addresses/default", private(profileHandler.SetDefaultAddress()))
	routerMux.HandleFunc("PUT /api/v1/profile/addresses/{id}", private(profileHandler.UpdateAddress()))
	routerMux.HandleFunc("DELETE /api/v1/profile/addresses/{id}", private(profileHandler.DeleteAddress()))

	routerMux.HandleFunc("GET /api/v1/products", public(productHandler.ListProducts()))
	routerMux.HandleFunc("GET /api/v1/products/search", public(productHandler.SearchProducts()))
	routerMux.HandleFunc("GET /api/v1/products/filter", public(productHandler.FilterProducts()))
	routerMux.HandleFunc("PUT /api/v1/products/filters", public(productHandler.SetFilters()))
	routerMux.HandleFunc("DELETE /api/v1/products/filters", public(productHandler.ClearFilters()))
	routerMux.HandleFunc("DELETE /api/v1/products/selected", public(productHandler.ClearSelected()))
	routerMux.HandleFunc("GET /api/v1/products/{id}", public(productHandler.GetProduct()))

	routerMux.HandleFunc("GET /api/v1/cart", private(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/cart/items", private(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/cart/items/{itemId}", private(cartHandler.UpdateItem()))
	routerMux.HandleFunc("PATCH /api/v1/cart/items/{itemId}", private(cartHandler.ChangeQuantity()))
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{itemId}", private(cartHandler.RemoveItem()))
	routerMux.HandleFunc("DELETE /api/v1/cart", private(cartHandler.ClearCart()))

	routerMux.HandleFunc("GET /api/v1/checkout", private(checkoutHandler.State()))
	routerMux.HandleFunc("POST /api/v1/checkout", private(checkoutHandler.Enter()))
	routerMux.HandleFunc("POST /api/v1/checkout/address", private(checkoutHandler.SelectAddress()))
	routerMux.HandleFunc("POST /api/v1/checkout/address/new/start", private(checkoutHandler.StartNewAddress()))
	routerMux.HandleFunc("POST /api/v1/checkout/address/new/cancel", private(checkoutHandler.CancelNewAddress()))
	routerMux.HandleFunc("POST /api/v1/checkout/address/new", private(checkoutHandler.SubmitNewAddress()))
	routerMux.HandleFunc("POST /api/v1/checkout/next", private(checkoutHandler.Next()))
	routerMux.HandleFunc("POST /api/v1/checkout/back", private(checkoutHandler.Back()))
	routerMux.HandleFunc("POST /api/v1/checkout/pay", private(checkoutHandler.Pay()))
	routerMux.HandleFunc("POST /api/v1/checkout/payment/callback", private(checkoutHandler.PaymentCallback()))
	routerMux.HandleFunc("GET /api/v1/checkout/result", private(checkoutHandler.Result()))
	routerMux.HandleFunc("POST /api/v1/checkout/retry", private(checkoutHandler.Retry()))
	routerMux.HandleFunc("DELETE /api/v1/checkout", private(checkoutHandler.Abandon()))

	routerMux.HandleFunc("GET /api/v1/orders", private(orderHandler.ListOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", private(orderHandler.GetOrder()))
	routerMux.HandleFunc("POST /api/v1/orders/{id}/cancel", private(orderHandler.CancelOrder()))

	routerMux.HandleFunc("GET /api/v1/wishlist", private(wishlistHandler.GetWishlist()))
	routerMux.HandleFunc("POST /api/v1/wishlist/{productId}", private(wishlistHandler.ToggleWishlist()))

	routerMux.HandleFunc("GET /api/v1/admin/dashboard", admin(adminHandler.Dashboard()))
	routerMux.HandleFunc("GET /api/v1/admin/users", admin(adminHandler.ListUsers()))
	routerMux.HandleFunc("GET /api/v1/admin/products", admin(adminHandler.ListProducts()))
	routerMux.HandleFunc("POST /api/v1/admin/products", admin(adminHandler.CreateProduct()))
	routerMux.HandleFunc("PUT /api/v1/admin/products/{id}", admin(adminHandler.UpdateProduct()))
	routerMux.HandleFunc("DELETE /api/v1/admin/products/{id}", admin(adminHandler.DeleteProduct()))
	routerMux.HandleFunc("GET /api/v1/admin/orders", admin(adminHandler.ListOrders()))
	routerMux.HandleFunc("PUT /api/v1/admin/orders/{id}/status", admin(adminHandler.UpdateOrderStatus()))

	routerMux.Handle("GET /health", healthChecker.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "storefront")

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr), slog.String("payment_provider", cfg.Payment.Provider))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// stops the session sweeper
	stop()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Trace exporter shutdown failed", slog.String("error", err.Error()))
	}
}
