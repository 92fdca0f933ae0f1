package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/limaJavier/examseating/internal/api"
	"github.com/limaJavier/examseating/internal/cache"
	"github.com/limaJavier/examseating/internal/config"
	"github.com/limaJavier/examseating/internal/metrics"
	"github.com/limaJavier/examseating/internal/queue"
	"github.com/limaJavier/examseating/internal/repository"
	"github.com/limaJavier/examseating/pkg/sat"
)

func newServeCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves seating requests over HTTP",
		Long:  `Serves seating requests over HTTP. Configuration is read from the environment, optionally seeded from a .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			logger := log.StandardLogger()
			if !cmd.Flags().Changed("debug") {
				logger.SetLevel(cfg.LogLevel)
			}
			if cfg.SolverConfigPath != "" {
				sat.ConfigPath = cfg.SolverConfigPath
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg, logger)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "file seeding the environment; ignored when missing")

	return cmd
}

func serve(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	seater, err := cfg.NewSeater(logger)
	if err != nil {
		return err
	}

	deps := api.Dependencies{CachePrefix: cfg.Redis.Prefix, Metrics: metrics.New(), Logger: logger}
	deps.Metrics.Register(prometheus.DefaultRegisterer)

	if cfg.DB.Host != "" {
		var db *sql.DB
		if db, err = repository.Open(ctx, cfg.DB); err != nil {
			return err
		}
		defer db.Close()
		deps.Repository = repository.NewMySQLAssignmentRepository(db)
	} else {
		logger.Warn("DB_HOST is not set, assignments are kept in memory")
	}

	if client := cache.NewRedisClient(ctx, cfg.Redis); client != nil {
		defer client.Close()
		deps.Cache = cache.NewRedisCache(client, cfg.Redis.TTL)
	} else if cfg.Redis.Addr != "" {
		logger.Warnf("redis at %v is unreachable, results are not cached", cfg.Redis.Addr)
	}

	if cfg.AMQPURL != "" {
		deps.Publisher = queue.NewAMQPPublisher(cfg.AMQPURL)
	}

	e := echo.New()
	e.HideBanner = true
	api.RegisterRoutes(e, api.NewHandler(seater, cache.SettingsOf(cfg), deps), promhttp.Handler())

	errs := make(chan error, 1)
	go func() {
		logger.WithField("solver", cfg.Solver).Infof("listening on :%v", cfg.Port)
		errs <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		// Give in-flight solves a chance to finish
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout+5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	}
}
