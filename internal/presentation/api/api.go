package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/computebench/backend/internal/infrastructure/configs"
	"github.com/computebench/backend/internal/infrastructure/ratelimiter"
	computeHandler "github.com/computebench/backend/internal/presentation/handler/compute"
	healthHandler "github.com/computebench/backend/internal/presentation/handler/health"
	homeHandler "github.com/computebench/backend/internal/presentation/handler/home"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type Application struct {
	config         configs.Config
	tlsConfig      *tls.Config
	homeHandler    homeHandler.Handler
	healthHandler  healthHandler.Handler
	computeHandler computeHandler.Handler
	logger         *zap.SugaredLogger
	ratelimiter    ratelimiter.Limiter
}

func NewApplication(
	config configs.Config,
	tlsConfig *tls.Config,
	homeHandler homeHandler.Handler,
	healthHandler healthHandler.Handler,
	computeHandler computeHandler.Handler,
	logger *zap.SugaredLogger,
	ratelimiter ratelimiter.Limiter,
) *Application {
	return &Application{
		config:         config,
		tlsConfig:      tlsConfig,
		homeHandler:    homeHandler,
		healthHandler:  healthHandler,
		computeHandler: computeHandler,
		logger:         logger,
		ratelimiter:    ratelimiter,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if app.ratelimiter != nil {
		r.Use(app.rateLimiterMiddleware)
	}
	r.Use(app.enableCors)

	r.Get("/", app.homeHandler.GetHome)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.healthHandler.GetHealth)

		r.Route("/compute", func(r chi.Router) {
			r.Get("/fibonacci", app.computeHandler.ComputeFibonacciHandler)
		})
	})

	if app.config.Tracing.Enabled {
		return otelhttp.NewHandler(r, "http.server")
	}

	return r
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:      fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:   mux,
		TLSConfig: app.tlsConfig,
		// No read/write/idle timeouts: benchmark clients must not be cut off
		// mid-measurement.
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started",
		"addr", "https://"+srv.Addr,
		"cert", app.config.TLS.CertPath,
		"key", app.config.TLS.KeyPath,
	)

	// Cert and key come from the already-loaded TLSConfig.
	err := srv.ListenAndServeTLS("", "")
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", srv.Addr)

	return nil
}
