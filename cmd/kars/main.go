package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kars-hq/kars/internal/server"
	"github.com/kars-hq/kars/modules"
	coremiddleware "github.com/kars-hq/kars/modules/core/presentation/middleware"
	coreservices "github.com/kars-hq/kars/modules/core/services"
	logginghandlers "github.com/kars-hq/kars/modules/logging/handlers"
	"github.com/kars-hq/kars/pkg/application"
	"github.com/kars-hq/kars/pkg/cache"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/configuration"
	"github.com/kars-hq/kars/pkg/eventbus"
	"github.com/kars-hq/kars/pkg/logging"
	"github.com/kars-hq/kars/pkg/metrics"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	root := &cobra.Command{
		Use:           "kars",
		Short:         "Warehouse, order and demo workflow service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		configuration.Use().Logger().WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := configuration.Use()
			logger := conf.Logger()

			if conf.OpenTelemetry.Enabled {
				cleanup := logging.SetupTracing(
					cmd.Context(),
					conf.OpenTelemetry.ServiceName,
					conf.OpenTelemetry.Endpoint,
				)
				defer cleanup()
				logger.Info("tracing enabled, exporting to " + conf.OpenTelemetry.Endpoint)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Second*5)
			defer cancel()
			pool, err := pgxpool.New(ctx, conf.Database.Opts)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer pool.Close()

			app, err := buildApp(conf, logger, pool)
			if err != nil {
				return err
			}

			serverInstance, err := server.Default(&server.DefaultOptions{
				Logger:        logger,
				Configuration: conf,
				Application:   app,
				Pool:          pool,
			})
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			// Identity resolution needs the pool middleware, so it registers
			// after the defaults.
			users := app.Service(coreservices.UserService{}).(*coreservices.UserService)
			app.RegisterMiddleware(coremiddleware.ProvideActor(users))

			if conf.Prometheus.Enabled {
				app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
			}

			logger.Infof("listening on %s", conf.SocketAddress)
			return serverInstance.Start(conf.SocketAddress)
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Apply or roll back database migrations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			app, err := buildApp(conf, conf.Logger(), nil)
			if err != nil {
				return err
			}
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}
			switch direction {
			case "up":
				return app.Migrations().Run(cmd.Context())
			case "down":
				return app.Migrations().Rollback(cmd.Context())
			default:
				return fmt.Errorf("unknown migrate direction %q", direction)
			}
		},
	}
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate initial data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := configuration.Use()
			logger := conf.Logger()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Second*30)
			defer cancel()
			pool, err := pgxpool.New(ctx, conf.Database.Opts)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer pool.Close()

			app, err := buildApp(conf, logger, pool)
			if err != nil {
				return err
			}
			return app.Seed(composables.WithPool(ctx, pool))
		},
	}
}

func buildApp(conf *configuration.Configuration, logger *logrus.Logger, pool *pgxpool.Pool) (application.Application, error) {
	app := application.New(&application.ApplicationOptions{
		Pool:        pool,
		EventBus:    eventbus.NewEventPublisher(logger),
		Invalidator: newInvalidator(conf, logger),
		Logger:      logger,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		return nil, err
	}
	logginghandlers.RegisterWorkflowEventHandlers(app, logger)
	return app, nil
}

func newInvalidator(conf *configuration.Configuration, logger *logrus.Logger) cache.Invalidator {
	if conf.Cache.RedisURL == "" {
		return cache.NewLogInvalidator(logger)
	}
	opts, err := redis.ParseURL(conf.Cache.RedisURL)
	if err != nil {
		logger.WithError(err).Warn("invalid cache redis url, invalidations will only be logged")
		return cache.NewLogInvalidator(logger)
	}
	return cache.NewRedisInvalidator(redis.NewClient(opts), conf.Cache.Channel, logger)
}
