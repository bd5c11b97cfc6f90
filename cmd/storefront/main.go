package main

import (
	"context"
	"encoding/hex"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopmart/storefront/config"
	"github.com/shopmart/storefront/internal/auth"
	"github.com/shopmart/storefront/internal/broadcast"
	"github.com/shopmart/storefront/internal/gateway/paypal"
	stripegw "github.com/shopmart/storefront/internal/gateway/stripe"
	handler "github.com/shopmart/storefront/internal/handler/http"
	"github.com/shopmart/storefront/internal/logger"
	"github.com/shopmart/storefront/internal/middleware"
	"github.com/shopmart/storefront/internal/notify"
	"github.com/shopmart/storefront/internal/repository"
	"github.com/shopmart/storefront/internal/repository/postgres"
	"github.com/shopmart/storefront/internal/service"
	"github.com/shopmart/storefront/internal/worker"
	"go.uber.org/zap"
)

const defaultAuthTokenKey = "f53ac685bbceebd75043e6be2e06ee07"

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	authTokenKey := cfg.AuthTokenKey
	if authTokenKey == "" {
		authTokenKey = defaultAuthTokenKey
	}
	tokenKey, err := hex.DecodeString(authTokenKey)
	if err != nil {
		logger.Log.Fatal("Error extracting token key", zap.Error(err))
	}
	token := auth.NewAuthToken(tokenKey)

	// event broadcast falls back to a no-op without a redis address
	var broadcaster service.Broadcaster = broadcast.NopBroadcaster{}
	if cfg.RedisAddr != "" {
		broadcaster = broadcast.NewRedisBroadcaster(cfg.RedisAddr)
	}

	notifier := notify.NewDispatcher(notify.LogSender{})

	stripeGateway := stripegw.New(cfg.StripeAPIKey, cfg.StripeWebhookSecret)
	paypalGateway := paypal.NewClient(cfg.PayPalBaseURL, cfg.PayPalClientID, cfg.PayPalClientSecret, cfg.GatewayTimeout)

	// dependency injection
	// user
	userRepo := repository.NewUserRepository(db)
	userService := service.NewUserService(userRepo)
	userHandler := handler.NewUserHandler(userService, token)

	// auth
	authService := service.NewAuthService(userRepo, token)
	authHandler := handler.NewAuthHandler(authService)

	// catalog
	productRepo := repository.NewProductRepository(db)
	catalogService := service.NewCatalogService(productRepo)
	productHandler := handler.NewProductHandler(catalogService)

	// cart
	cartRepo := repository.NewCartRepository(db)
	cartService := service.NewCartService(cartRepo, productRepo)
	cartHandler := handler.NewCartHandler(cartService)

	// orders
	orderRepo := repository.NewOrderRepository(db)
	orderService := service.NewOrderService(orderRepo, broadcaster, notifier)
	orderHandler := handler.NewOrderHandler(orderService)
	adminOrderHandler := handler.NewAdminOrderHandler(orderService)

	// checkout
	checkoutService := service.NewCheckoutService(cartRepo, orderRepo)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)

	// payments
	paymentRepo := repository.NewPaymentRepository(db)
	paymentService := service.NewPaymentService(paymentRepo, orderService, stripeGateway, paypalGateway, cfg.BaseURL, cfg.GatewayTimeout)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	// reconciliation worker
	reconciler := worker.NewReconciler(paymentService)
	go reconciler.Run(ctx)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger.Log))

	router.Post("/api/user/register", userHandler.RegisterUser())
	router.Post("/api/user/login", authHandler.LoginUser())
	router.Get("/api/products", productHandler.ListProducts())
	router.Get("/api/products/{id}", productHandler.GetProduct())

	// provider callbacks carry no auth token
	router.Get("/api/payments/paypal/success", paymentHandler.PayPalSuccess())
	router.Get("/api/payments/paypal/cancel", paymentHandler.PayPalCancel())
	router.Post("/api/webhooks/stripe", paymentHandler.StripeWebhook())

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(handler.AuthMiddleware(token))
		group.Get("/api/cart", cartHandler.GetCart())
		group.Post("/api/cart", cartHandler.AddToCart())
		group.Patch("/api/cart/item/{itemID}", cartHandler.UpdateCartItem())
		group.Delete("/api/cart/item/{itemID}", cartHandler.RemoveCartItem())
		group.Post("/api/cart/clear", cartHandler.ClearCart())
		group.Post("/api/checkout", checkoutHandler.Checkout())
		group.Get("/api/orders", orderHandler.ListOrders())
		group.Get("/api/orders/{orderID}", orderHandler.GetOrder())
		group.Post("/api/orders/{orderID}/payments", paymentHandler.CreatePayment())
	})

	// routes that require the admin role
	router.Group(func(group chi.Router) {
		group.Use(handler.AuthMiddleware(token))
		group.Use(handler.AdminOnly)
		group.Get("/api/admin/orders", adminOrderHandler.ListOrders())
		group.Get("/api/admin/orders/{orderID}", adminOrderHandler.GetOrder())
		group.Patch("/api/admin/orders/{orderID}/status", adminOrderHandler.UpdateStatus())
		group.Post("/api/admin/orders/{orderID}/cancel", adminOrderHandler.Cancel())
		group.Post("/api/admin/products", productHandler.CreateProduct())
		group.Put("/api/admin/products/{id}", productHandler.UpdateProduct())
	})

	logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Log.Fatal("Error starting server", zap.Error(err))
	}
}
