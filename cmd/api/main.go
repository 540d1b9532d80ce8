package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/wahiba-atelier/atelier-backend/api/controllers"
	"github.com/wahiba-atelier/atelier-backend/api/routes"
	"github.com/wahiba-atelier/atelier-backend/internal/availability"
	"github.com/wahiba-atelier/atelier-backend/internal/cart"
	"github.com/wahiba-atelier/atelier-backend/internal/categories"
	"github.com/wahiba-atelier/atelier-backend/internal/checkout"
	"github.com/wahiba-atelier/atelier-backend/internal/contacts"
	"github.com/wahiba-atelier/atelier-backend/internal/dresses"
	"github.com/wahiba-atelier/atelier-backend/internal/revenues"
	"github.com/wahiba-atelier/atelier-backend/internal/schedules"
	"github.com/wahiba-atelier/atelier-backend/internal/siteimages"
	"github.com/wahiba-atelier/atelier-backend/pkg/config"
	"github.com/wahiba-atelier/atelier-backend/pkg/db"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
	"github.com/wahiba-atelier/atelier-backend/pkg/metrics"
	"github.com/wahiba-atelier/atelier-backend/pkg/migrate"
	"github.com/wahiba-atelier/atelier-backend/pkg/outbox"
	"github.com/wahiba-atelier/atelier-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storefront := metrics.NewStorefrontMetrics(registry)

	svc, err := buildServices(cfg, logg, dbClient, redisClient, storefront)
	requireResource(ctx, logg, "services", err)

	addr := ":" + cfg.App.Port
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Infra{
			Idempotency: redisClient,
			Health: map[string]controllers.Pinger{
				"db":    dbClient,
				"redis": redisClient,
			},
			Metrics:  registry,
			Observer: storefront,
		}, *svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logCtx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(logCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(logCtx, "graceful shutdown failed", err)
		}
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, storefront *metrics.StorefrontMetrics) (*routes.Services, error) {
	conn := dbClient.DB()
	emitter := outbox.NewService(outbox.NewRepository(conn), logg)
	scheduleRepo := schedules.NewRepository(conn)

	availabilityService, err := availability.NewService(availability.ServiceParams{
		Source:          scheduleRepo,
		Cache:           redisClient,
		Logger:          logg,
		CacheTTL:        cfg.Availability.CacheTTL,
		CalendarMaxDays: cfg.Availability.CalendarMaxDays,
	})
	if err != nil {
		return nil, err
	}

	dressService, err := dresses.NewService(dresses.NewRepository(conn), dbClient)
	if err != nil {
		return nil, err
	}
	categoryService, err := categories.NewService(categories.NewRepository(conn))
	if err != nil {
		return nil, err
	}

	cartStore, err := cart.NewRedisStore(redisClient, cfg.Cart.StoreName, cfg.Cart.TTL)
	if err != nil {
		return nil, err
	}
	cartService, err := cart.NewService(cart.ServiceParams{
		Store:        cartStore,
		Catalog:      dressService,
		Availability: availabilityService,
		Logger:       logg,
		Metrics:      storefront,
	})
	if err != nil {
		return nil, err
	}

	scheduleService, err := schedules.NewService(schedules.ServiceParams{
		Repo:         scheduleRepo,
		Tx:           dbClient,
		Outbox:       emitter,
		Availability: availabilityService,
		Logger:       logg,
		Metrics:      storefront,
	})
	if err != nil {
		return nil, err
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Carts:        cartStore,
		Availability: availabilityService,
		Schedules:    scheduleService,
		Logger:       logg,
		Metrics:      storefront,
	})
	if err != nil {
		return nil, err
	}

	contactService, err := contacts.NewService(contacts.ServiceParams{
		Repo:   contacts.NewRepository(conn),
		Tx:     dbClient,
		Outbox: emitter,
		Logger: logg,
	})
	if err != nil {
		return nil, err
	}

	revenueService, err := revenues.NewService(revenues.NewRepository(conn))
	if err != nil {
		return nil, err
	}
	siteImageService, err := siteimages.NewService(siteimages.NewRepository(conn))
	if err != nil {
		return nil, err
	}

	return &routes.Services{
		Dresses:      dressService,
		Categories:   categoryService,
		Availability: availabilityService,
		Cart:         cartService,
		Checkout:     checkoutService,
		Schedules:    scheduleService,
		Contacts:     contactService,
		Revenues:     revenueService,
		SiteImages:   siteImageService,
		DeadLetters:  outbox.NewDLQRepository(conn),
	}, nil
}

func requireResource(ctx context.Context, logg *logger.Logger, name string, err error) {
	if err != nil {
		logg.Error(ctx, "failed to bootstrap "+name, err)
		os.Exit(1)
	}
}
