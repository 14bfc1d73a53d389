// cmd/matte-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"matte/internal/common/auth"
	"matte/internal/common/config"
	"matte/internal/common/database"
	commonhttp "matte/internal/common/http"
	"matte/internal/common/logger"
	"matte/internal/common/observability"
	"matte/internal/matte/cache"
	"matte/internal/matte/dispatch"
	"matte/internal/matte/intent"
	"matte/internal/matte/llm"
	"matte/internal/matte/queries"
	"matte/internal/transport/rest"
	"matte/internal/transport/rest/handler"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting matte server...", zap.String("environment", cfg.App.Environment))

	obs := observability.New(cfg.App.Name, cfg.Tracing.JaegerEndpoint, log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	var store dispatch.Store = queries.NewPostgresStore(pg.DB, config.GetDuration(cfg.Database.Postgres.QueryTimeout), log)
	deps := map[string]handler.Pinger{"postgres": pg}

	// --- Init Redis with retry (optional) ---
	if cfg.Database.Redis.Enabled() {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		deps["redis"] = redis
		zapLog.Info("Redis connected successfully")

		if cfg.Matte.CacheTTL > 0 {
			store = cache.New(store, redis.Client, config.GetDuration(cfg.Matte.CacheTTL), log)
			zapLog.Info("Query cache enabled", zap.Int("ttlMs", cfg.Matte.CacheTTL))
		}
	}

	// --- Language model ---
	var completer dispatch.Completer
	httpClient := commonhttp.NewClient(config.GetDuration(cfg.APIs.OpenAI.Timeout), cfg.App.Name+"/"+cfg.App.Version)
	if llmClient := llm.New(cfg.APIs.OpenAI, httpClient, log); llmClient.Enabled() {
		completer = llmClient
		zapLog.Info("Language model configured", zap.String("model", cfg.APIs.OpenAI.Model))
	} else {
		zapLog.Warn("No language model API key; answers will use the fallback text")
	}

	tokens, err := auth.NewTenantResolver(cfg.Auth)
	if err != nil {
		zapLog.Fatal("auth setup failed", zap.Error(err))
	}

	classifier := intent.NewClassifier()
	dispatcher := dispatch.New(dispatch.Config{
		Location:  cfg.Matte.Location(),
		StuckDays: cfg.Matte.StuckDays,
	}, classifier, store, completer, log, obs)

	srv := &http.Server{
		Addr: cfg.Server.Addr(),
		Handler: rest.NewRouter(&rest.Container{
			Responder: dispatcher,
			Analyzer:  classifier,
			Tokens:    tokens,
			Deps:      deps,
			Logger:    log,
		}),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Matte server stopped gracefully")
}
