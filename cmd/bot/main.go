package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
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
	"github.com/orderlyy/orderlyy-backend/pkg/migrate"
	"github.com/orderlyy/orderlyy-backend/pkg/redis"
	"github.com/orderlyy/orderlyy-backend/pkg/telegram"
	"github.com/orderlyy/orderlyy-backend/pkg/token"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "bot"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "bot",
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
	paymentsRepo := payments.NewRepository(dbClient.DB())

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

	engine, err := conversation.NewEngine(tg, sessionStore, storeService, productService, lifecycleSvc, gate, cfg.Dashboard, logg, nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create conversation engine", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logg.WithFields(ctx, map[string]any{
		"env": cfg.App.Env,
		"bot": tg.BotUsername(),
	})
	logg.Info(ctx, "starting long-poll bot")

	updates := tg.Updates(0)
	for {
		select {
		case <-ctx.Done():
			tg.StopUpdates()
			logg.Info(context.Background(), "bot shut down")
			return
		case update, ok := <-updates:
			if !ok {
				logg.Info(context.Background(), "update stream closed")
				return
			}
			if err := engine.HandleUpdate(ctx, update); err != nil {
				logg.Error(ctx, "update handling failed", err)
			}
		}
	}
}
