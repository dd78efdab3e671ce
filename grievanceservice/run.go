// Package grievanceservice wires configuration, storage, the analysis
// engine and the HTTP API into a runnable service.
package grievanceservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/edakseva/grievance-server/internal/analysis"
	"github.com/edakseva/grievance-server/internal/api"
	"github.com/edakseva/grievance-server/internal/config"
	"github.com/edakseva/grievance-server/internal/factory"
	"github.com/edakseva/grievance-server/internal/health"
	"github.com/edakseva/grievance-server/internal/lifecycle"
	"github.com/edakseva/grievance-server/internal/logger"
	"github.com/edakseva/grievance-server/internal/mailsync"
	"github.com/edakseva/grievance-server/internal/orders"
	"github.com/edakseva/grievance-server/internal/session"
	"github.com/edakseva/grievance-server/internal/store"
	"github.com/edakseva/grievance-server/internal/syncsched"
)

// Run starts the grievance service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("grievance-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	// Initialize dependencies (store, analysis engine, mail connector)
	st, provider, connector, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}

	sessions := session.NewManager(st, cfg.JWTSecret)

	var ctrlOpts []lifecycle.Option
	if !cfg.StageDelays {
		ctrlOpts = append(ctrlOpts, lifecycle.WithoutDelays())
	}
	ctrl := lifecycle.NewController(st, provider, connector, log, ctrlOpts...)

	router := api.NewRouter(api.Deps{
		Store:    st,
		Sessions: sessions,
		Ctrl:     ctrl,
		Provider: provider,
		Orders:   orders.NewMockDirectory(),
		Log:      log,
	})

	// Start health checkers and bind service health
	svcHealth := startHealthCheckers(ctx, cfg, log, st, provider)

	// Block startup until dependencies report healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	// Optional periodic mailbox sync
	sched := syncsched.New(ctrl, cfg.SyncSchedule, log)
	if err := sched.Start(ctx); err != nil {
		return err
	}

	// HTTP server and serve
	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// initDependencies constructs required components and enforces fail-fast on missing deps.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, *analysis.OllamaProvider, mailsync.Connector, error) {
	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return nil, nil, nil, err
	}

	provider := analysis.NewOllamaProvider(cfg.LLMBaseURL, cfg.LLMModel)

	var connOpts []mailsync.Option
	if !cfg.StageDelays {
		connOpts = append(connOpts, mailsync.WithDelays(0, 0))
	}
	connector := mailsync.NewSimulatedConnector(log, connOpts...)

	return st, provider, connector, nil
}

// startHealthCheckers starts component checkers and service-level aggregator; binds health.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store, provider *analysis.OllamaProvider) *health.ServiceHealthChecker {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	providerChecker := analysis.NewProviderHealthChecker(provider, log, probeTimeout)
	go providerChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker, providerChecker)
	go svcHealth.Start(ctx, interval)
	api.BindServiceHealth(svcHealth.IsHealthy)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("dependencies failed to become healthy within %ds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
