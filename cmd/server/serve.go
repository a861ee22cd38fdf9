package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/d60-Lab/college-table/config"
	"github.com/d60-Lab/college-table/internal/api"
	"github.com/d60-Lab/college-table/internal/notify"
	"github.com/d60-Lab/college-table/pkg/database"
	"github.com/d60-Lab/college-table/pkg/logger"
	"github.com/d60-Lab/college-table/pkg/tracing"
)

var (
	autoMigrate  bool
	pushWorkers  int
	pushQueueLen int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()
		return serve(cfg)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "run migrations before serving")
	serveCmd.Flags().IntVar(&pushWorkers, "push-workers", 2, "async push workers")
	serveCmd.Flags().IntVar(&pushQueueLen, "push-queue", 1024, "async push queue size")
}

func serve(cfg *config.Config) error {
	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.App.Env,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(cfg.Server.ShutdownTimeout)
	}

	shutdownTracing, err := tracing.Init(context.Background(), cfg.Tracing, cfg.App.Name, cfg.App.Env)
	if err != nil {
		return err
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)
	if autoMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		// 缓存不可用时仍可服务，验证码接口会失败
		logger.Warn("redis unavailable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}

	pusher := notify.NewExpoPusher(cfg.Push)
	queue := notify.NewPushQueue(pusher, pushQueueLen, cfg.Push.Timeout)
	stopQueue := queue.Start(pushWorkers)

	h := api.NewHandler(cfg, db, rdb, api.Notifiers{
		Push:   pusher,
		Async:  queue,
		Mailer: notify.NewSMTPMailer(cfg.Mail),
	})
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(cfg, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", srv.Addr), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := stopQueue(ctx); err != nil {
		logger.Warn("push queue shutdown", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
	return nil
}
