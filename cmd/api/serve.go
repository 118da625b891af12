package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/queuedesk/queuedesk-api/internal/api/http"
	"github.com/queuedesk/queuedesk-api/internal/api/http/handlers"
	"github.com/queuedesk/queuedesk-api/internal/auth"
	"github.com/queuedesk/queuedesk-api/internal/cache"
	"github.com/queuedesk/queuedesk-api/internal/config"
	"github.com/queuedesk/queuedesk-api/internal/events"
	"github.com/queuedesk/queuedesk-api/internal/observability"
	"github.com/queuedesk/queuedesk-api/internal/persistence"
	"github.com/queuedesk/queuedesk-api/internal/repository"
	"github.com/queuedesk/queuedesk-api/internal/service"
	"github.com/queuedesk/queuedesk-api/internal/worker"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

// stack holds the process-wide collaborators shared by serve and seed.
type stack struct {
	postgres *persistence.Postgres
	redis    *persistence.Redis
	users    repository.UserRepository
	tickets  repository.TicketRepository
	auth     *service.AuthService
	ticket   *service.TicketService
}

func (s *stack) Close() {
	s.redis.Close()
	s.postgres.Close()
}

func buildStack(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stack, error) {
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, err
	}

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(cfg.Postgres.DSN, logger); err != nil {
			pg.Close()
			return nil, err
		}
	}

	rdb := persistence.NewRedis(cfg.Redis, logger)

	var (
		users   repository.UserRepository
		tickets repository.TicketRepository
	)
	if pg.Enabled() {
		users = repository.NewUserRepository(pg.PoolHandle())
		tickets = repository.NewTicketRepository(pg.PoolHandle())
	} else {
		memory := repository.NewMemoryStore()
		users = memory.Users()
		tickets = memory.Tickets()
	}
	tickets = cache.NewTicketCache(tickets, rdb.Client, cfg.Cache.TicketTTL(), logger.Named("ticket_cache"))

	dispatcher := events.NewInMemoryDispatcher(logger.Named("events"))
	notifications := service.NewNotificationService(dispatcher, logger.Named("notifications"), cfg.Notification)
	worker.StartNotificationWorker(notifications, logger)

	return &stack{
		postgres: pg,
		redis:    rdb,
		users:    users,
		tickets:  tickets,
		auth: service.NewAuthService(cfg.Auth, service.AuthDependencies{
			UserRepo: users,
			Logger:   logger.Named("auth"),
		}),
		ticket: service.NewTicketService(service.TicketDependencies{
			TicketRepo: tickets,
			Dispatcher: dispatcher,
			Logger:     logger.Named("tickets"),
		}),
	}, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	st, err := buildStack(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
		ErrorHandler:          httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Prefix:         cfg.App.APIPrefix,
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, st.postgres, st.redis, metrics),
		Auth:           handlers.NewAuthHandler(st.auth),
		Tickets:        handlers.NewTicketsHandler(st.ticket),
		AuthMiddleware: auth.NewAuthMiddleware(st.auth.TokenManager()),
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()), zap.String("prefix", cfg.App.APIPrefix))
		errCh <- app.Listen(cfg.App.Addr())
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		return err
	}
	return app.Shutdown()
}
