package main

import (
	"context"
	"expvar"
	"log"
	"runtime"
	"time"

	"github.com/computebench/backend/internal/infrastructure/configs"
	"github.com/computebench/backend/internal/infrastructure/ratelimiter"
	"github.com/computebench/backend/internal/infrastructure/tracing"
	"github.com/computebench/backend/internal/infrastructure/workerpool"
	"github.com/computebench/backend/internal/presentation/api"
	"github.com/computebench/backend/internal/presentation/handler/compute"
	"github.com/computebench/backend/internal/presentation/handler/health"
	"github.com/computebench/backend/internal/presentation/handler/home"
	"go.uber.org/zap"
)

func main() {
	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	// TLS material is loaded exactly once; a failure here aborts before the
	// listener ever binds.
	tlsConfig, err := cfg.TLS.Load()
	if err != nil {
		logger.Fatal(err)
	}

	if cfg.Tracing.Enabled {
		shutdownTracer, err := tracing.InitTracer(cfg.Tracing)
		if err != nil {
			logger.Fatal(err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(ctx); err != nil {
				logger.Errorw("tracer shutdown failed", "error", err)
			}
		}()
	}

	pool := workerpool.New(workerpool.Config{
		PoolSize:  cfg.Workers.PoolSize,
		QueueSize: cfg.Workers.QueueSize,
	}, logger)
	defer pool.Close()

	var limiter ratelimiter.Limiter
	if cfg.RateLimiter.Enabled {
		fw := ratelimiter.NewFixedWindowRateLimiter(cfg.RateLimiter.RequestsPerTimeFrame, cfg.RateLimiter.TimeFrame)
		defer fw.Close()
		limiter = fw
	}

	homeHandler := home.NewHandler()
	healthHandler := health.NewHandler()
	computeHandler := compute.NewHandler(pool)

	app := api.NewApplication(*cfg, tlsConfig, *homeHandler, *healthHandler, *computeHandler, logger, limiter)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	logger.Fatal(app.Run(mux))
}
