package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/gryadkadev/gryadka-backend/api/routes"
	"github.com/gryadkadev/gryadka-backend/internal/cart"
	"github.com/gryadkadev/gryadka-backend/internal/catalog"
	"github.com/gryadkadev/gryadka-backend/internal/checkout"
	"github.com/gryadkadev/gryadka-backend/internal/delivery"
	"github.com/gryadkadev/gryadka-backend/internal/faq"
	"github.com/gryadkadev/gryadka-backend/internal/favorites"
	"github.com/gryadkadev/gryadka-backend/internal/messages"
	"github.com/gryadkadev/gryadka-backend/internal/orders"
	"github.com/gryadkadev/gryadka-backend/internal/promo"
	"github.com/gryadkadev/gryadka-backend/internal/settings"
	"github.com/gryadkadev/gryadka-backend/internal/users"
	"github.com/gryadkadev/gryadka-backend/pkg/config"
	"github.com/gryadkadev/gryadka-backend/pkg/db"
	"github.com/gryadkadev/gryadka-backend/pkg/logger"
	"github.com/gryadkadev/gryadka-backend/pkg/migrate"
	"github.com/gryadkadev/gryadka-backend/pkg/outbox"
	"github.com/gryadkadev/gryadka-backend/pkg/redis"
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

	gormDB := dbClient.DB()
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	userRepo := users.NewRepository(gormDB)
	catalogRepo := catalog.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)
	promoRepo := promo.NewRepository(gormDB)

	usersService, err := users.NewService(users.ServiceParams{UserRepo: userRepo})
	if err != nil {
		fatal(logg, "failed to create users service", err)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{CatalogRepo: catalogRepo})
	if err != nil {
		fatal(logg, "failed to create catalog service", err)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		CartRepo:      cartRepo,
		ProductLoader: catalogRepo,
	})
	if err != nil {
		fatal(logg, "failed to create cart service", err)
	}

	favoritesService, err := favorites.NewService(favorites.ServiceParams{
		FavoritesRepo: favorites.NewRepository(gormDB),
		ProductLoader: catalogRepo,
	})
	if err != nil {
		fatal(logg, "failed to create favorites service", err)
	}

	promoService, err := promo.NewService(promo.ServiceParams{PromoRepo: promoRepo})
	if err != nil {
		fatal(logg, "failed to create promo service", err)
	}

	deliveryService, err := delivery.NewService(delivery.ServiceParams{
		DeliveryRepo: delivery.NewRepository(gormDB),
	})
	if err != nil {
		fatal(logg, "failed to create delivery service", err)
	}

	settingsService, err := settings.NewService(settings.ServiceParams{
		SettingsRepo:    settings.NewRepository(gormDB),
		RefreshInterval: cfg.Store.SettingsRefreshInterval,
	})
	if err != nil {
		fatal(logg, "failed to create settings service", err)
	}

	faqService, err := faq.NewService(faq.ServiceParams{FAQRepo: faq.NewRepository(gormDB)})
	if err != nil {
		fatal(logg, "failed to create faq service", err)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		OrderRepo: orderRepo,
		Outbox:    outboxService,
		DB:        dbClient,
	})
	if err != nil {
		fatal(logg, "failed to create orders service", err)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		DB:        dbClient,
		UserRepo:  userRepo,
		CartRepo:  cartRepo,
		OrderRepo: orderRepo,
		PromoRepo: promoRepo,
		Promo:     promoService,
		Intervals: deliveryService,
		Settings:  settingsService,
		Outbox:    outboxService,
	})
	if err != nil {
		fatal(logg, "failed to create checkout service", err)
	}

	messagesService, err := messages.NewService(messages.ServiceParams{
		MessageRepo: messages.NewRepository(gormDB),
		UserRepo:    userRepo,
		Outbox:      outboxService,
		DB:          dbClient,
	})
	if err != nil {
		fatal(logg, "failed to create messages service", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
			Users:    usersService,
			Catalog:  catalogService,
			Cart:     cartService,
			Favorite: favoritesService,
			Promo:    promoService,
			Delivery: deliveryService,
			Settings: settingsService,
			FAQ:      faqService,
			Checkout: checkoutService,
			Orders:   ordersService,
			Messages: messagesService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func fatal(logg *logger.Logger, msg string, err error) {
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
