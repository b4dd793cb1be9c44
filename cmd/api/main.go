package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hris_backend/internal/auth"
	"hris_backend/internal/auth/assertion"
	"hris_backend/internal/directory"
	directoryrepo "hris_backend/internal/directory/repository"
	"hris_backend/internal/employees"
	"hris_backend/internal/events"
	apphttp "hris_backend/internal/http"
	"hris_backend/internal/http/router"
	"hris_backend/internal/provisioning"
	"hris_backend/platform/config"
	"hris_backend/platform/db"
	"hris_backend/platform/logger"
	"hris_backend/platform/metrics"
	"hris_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	events.RegisterAuditHandlers(eventBus, log)

	// Prometheus collectors shared by the gate and the domain modules
	met := metrics.NewDefault()

	// Shared validator instance for dependency injection
	val := validator.New()

	// OIDC discovery against the identity provider. Retried because the
	// provider may come up after us in a fresh environment.
	var verifier *assertion.OIDCVerifier
	if err := withRetry(ctx, log, "identity provider discovery", 5, 2*time.Second, func() error {
		v, err := assertion.NewOIDCVerifier(ctx, cfg)
		if err != nil {
			return err
		}
		verifier = v
		return nil
	}); err != nil {
		log.Error("failed to discover identity provider", "error", err)
		panic("failed to discover identity provider: " + err.Error())
	}
	log.Info("identity provider discovered", "issuer", cfg.GetIdentityIssuer())

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// The tenant directory store is shared: the gate, the provisioning engine
	// and the admin endpoints all read the same organization state.
	directoryStore := directoryrepo.New(pool)

	directoryModule := directory.NewModule(directoryStore, val, log)
	provisioningModule, err := provisioning.NewModule(pool, cfg, directoryStore, eventBus, met, log)
	if err != nil {
		log.Error("failed to initialize provisioning module", "error", err)
		panic("failed to initialize provisioning module: " + err.Error())
	}
	authModule := auth.NewModule(pool, cfg, verifier, directoryStore, met, log)
	employeesModule := employees.NewModule(pool, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:    cfg,
		Logger:    log,
		Health:    db.NewPoolAdapter(pool),
		Directory: directoryStore,
		Metrics:   met,
		Modules: []apphttp.Module{
			provisioningModule,
			authModule,
			directoryModule,
			employeesModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
