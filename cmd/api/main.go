package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-listing/internal/api/http"
	"github.com/spec-kit/ticket-listing/internal/api/http/handlers"
	"github.com/spec-kit/ticket-listing/internal/auth"
	"github.com/spec-kit/ticket-listing/internal/config"
	"github.com/spec-kit/ticket-listing/internal/events"
	"github.com/spec-kit/ticket-listing/internal/observability"
	"github.com/spec-kit/ticket-listing/internal/persistence"
	"github.com/spec-kit/ticket-listing/internal/repository"
	"github.com/spec-kit/ticket-listing/internal/service"
	"github.com/spec-kit/ticket-listing/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	dependencies := map[string]handlers.Pinger{"redis": redis}
	var ticketStore repository.TicketStore
	if pool := pg.PoolHandle(); pool != nil {
		ticketStore = repository.NewTicketRepository(pool)
		dependencies["postgres"] = pg
	} else {
		logger.Warn("using in-memory ticket store")
		ticketStore = repository.NewMemoryTicketRepository()
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartExceptionReporter(dispatcher, logger, metrics)

	listingService := service.NewListingService(service.ListingDependencies{
		TicketStore: ticketStore,
		PageSize:    cfg.Listing.RowsPerPage,
		Logger:      logger,
		Metrics:     metrics,
	})
	pageMessages := repository.NewPageMessageRepository(redis.Client, cfg.Redis.PageMessageTTL())

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokens)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, dispatcher, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Tickets:        handlers.NewTicketsHandler(listingService, pageMessages, cfg.Listing.DateFormat, logger),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
