package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/neevdiamonds/storefront-backend/api/routes"
	"github.com/neevdiamonds/storefront-backend/internal/adminauth"
	"github.com/neevdiamonds/storefront-backend/internal/cart"
	"github.com/neevdiamonds/storefront-backend/internal/catalog"
	"github.com/neevdiamonds/storefront-backend/internal/checkout"
	"github.com/neevdiamonds/storefront-backend/internal/orders"
	razorpaywebhook "github.com/neevdiamonds/storefront-backend/internal/webhooks/razorpay"
	"github.com/neevdiamonds/storefront-backend/pkg/auth/adminsession"
	"github.com/neevdiamonds/storefront-backend/pkg/config"
	"github.com/neevdiamonds/storefront-backend/pkg/db"
	"github.com/neevdiamonds/storefront-backend/pkg/gateway/razorpay"
	"github.com/neevdiamonds/storefront-backend/pkg/logger"
	"github.com/neevdiamonds/storefront-backend/pkg/metrics"
	"github.com/neevdiamonds/storefront-backend/pkg/migrate"
	"github.com/neevdiamonds/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	surcharge, err := decimal.NewFromString(cfg.Cart.PremiumSurcharge)
	if err != nil {
		logg.Error(context.Background(), "invalid premium surcharge", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	if cfg.App.SeedCatalog {
		seeded, err := catalog.SeedIfEmpty(context.Background(), catalogRepo)
		if err != nil {
			logg.Error(context.Background(), "failed to seed catalog", err)
			os.Exit(1)
		}
		if seeded > 0 {
			ctx := logg.WithField(context.Background(), "count", seeded)
			logg.Info(ctx, "seeded starter catalog")
		}
	}

	cartStore, err := cart.NewStore(redisClient, cfg.Session.CartTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartStore, catalogRepo, surcharge)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(ordersRepo, catalogRepo, dbClient, logg, surcharge)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	gatewayClient := razorpay.NewClient(cfg.Gateway)
	checkoutService, err := checkout.NewService(cartService, ordersService, gatewayClient, logg, cfg.Gateway, cfg.UPI)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	sessions, err := adminsession.NewManager(cfg.Session)
	if err != nil {
		logg.Error(context.Background(), "failed to create admin session manager", err)
		os.Exit(1)
	}

	adminRepo := adminauth.NewRepository(dbClient.DB())
	adminService, err := adminauth.NewService(adminRepo, redisClient, sessions, logg, cfg.Admin)
	if err != nil {
		logg.Error(context.Background(), "failed to create admin auth service", err)
		os.Exit(1)
	}
	if err := adminService.EnsureSeed(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to seed admin credentials", err)
		os.Exit(1)
	}

	webhookService, err := razorpaywebhook.NewService(ordersService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"gateway": cfg.Gateway.Configured(),
	})
	logg.Info(ctx, "starting storefront api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			httpMetrics,
			dbClient,
			redisClient,
			sessions,
			catalogService,
			cartService,
			ordersService,
			checkoutService,
			adminService,
			webhookService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
