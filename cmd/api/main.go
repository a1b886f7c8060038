package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/orderlyy/orderlyy-backend/api/routes"
	"github.com/orderlyy/orderlyy-backend/internal/analytics"
	"github.com/orderlyy/orderlyy-backend/internal/conversation"
	"github.com/orderlyy/orderlyy-backend/internal/lifecycle"
	"github.com/orderlyy/orderlyy-backend/internal/notify"
	"github.com/orderlyy/orderlyy-backend/internal/orders"
	"github.com/orderlyy/orderlyy-backend/internal/payments"
	"github.com/orderlyy/orderlyy-backend/internal/products"
	"github.com/orderlyy/orderlyy-backend/internal/sessions"
	"github.com/orderlyy/orderlyy-backend/internal/stores"
	"github.com/orderlyy/orderlyy-backend/internal/subscriptions"
	"github.com/orderlyy/orderlyy-backend/pkg/config"
	"github.com/orderlyy/orderlyy-backend/pkg/db"
	"github.com/orderlyy/orderlyy-backend/pkg/logger"
	"github.com/orderlyy/orderlyy-backend/pkg/metrics"
	"github.com/orderlyy/orderlyy-backend/pkg/migrate"
	"github.com/orderlyy/orderlyy-backend/pkg/redis"
	"github.com/orderlyy/orderlyy-backend/pkg/telegram"
	"github.com/orderlyy/orderlyy-backend/pkg/token"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionStore, err := sessions.NewStore(redisClient, cfg.Session.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create session store", err)
		os.Exit(1)
	}

	tokens, err := token.NewGenerator()
	if err != nil {
		logg.Error(context.Background(), "failed to create token generator", err)
		os.Exit(1)
	}

	storesRepo := stores.NewRepository(dbClient.DB())
	storeService, err := stores.NewService(storesRepo, tokens)
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}

	productsRepo := products.NewRepository(dbClient.DB())
	productService, err := products.NewService(productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	orderService, err := orders.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	paymentsRepo := payments.NewRepository(dbClient.DB())
	paymentService, err := payments.NewService(paymentsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	gate, err := subscriptions.NewGate(storesRepo, cfg.Subscription)
	if err != nil {
		logg.Error(context.Background(), "failed to create subscription gate", err)
		os.Exit(1)
	}

	tg, err := telegram.New(cfg.Telegram)
	if err != nil {
		logg.Error(context.Background(), "failed to create telegram client", err)
		os.Exit(1)
	}

	notifier, err := notify.New(tg, sessionStore, storesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifier", err)
		os.Exit(1)
	}

	lifecycleSvc, err := lifecycle.NewService(ordersRepo, paymentsRepo, productsRepo, notifier, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create lifecycle service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	updateMetrics := metrics.NewUpdateMetrics(registry)

	engine, err := conversation.NewEngine(tg, sessionStore, storeService, productService, lifecycleSvc, gate, cfg.Dashboard, logg, updateMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create conversation engine", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(ordersRepo, paymentsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient.DB(), registry, engine, lifecycleSvc, storeService, productService, orderService, paymentService, analyticsService, gate, tg),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
