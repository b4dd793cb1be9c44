// Package provisioning provides the identity provisioning bounded context.
// This file defines the module that encapsulates setup and route registration.
package provisioning

import (
	"hris_backend/internal/directory"
	"hris_backend/internal/events"
	apphttp "hris_backend/internal/http"
	"hris_backend/internal/provisioning/repository"
	"hris_backend/platform/config"
	"hris_backend/platform/logger"
	"hris_backend/platform/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the provisioning bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and initializes the provisioning module with all its
// dependencies. A missing webhook secret fails construction so the process
// never serves the endpoint with verification disabled.
func NewModule(pool *pgxpool.Pool, cfg config.WebhookConfig, dir directory.Directory, bus events.Bus, met *metrics.Metrics, log *logger.Logger) (*Module, error) {
	verifier, err := NewSignatureVerifier(cfg.GetWebhookSecret(), cfg.GetWebhookTolerance())
	if err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	svc := NewService(repo, repo, repo, dir, bus, met, log)
	h := NewHandler(svc, verifier, met, log)

	return &Module{handler: h, service: svc}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "provisioning"
}

// Service returns the provisioning engine for use by other composition roots
// (e.g., the scheduler process).
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts the webhook endpoint on the public v1 group. The
// endpoint authenticates deliveries by signature, not by session credential.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/webhooks/identity", m.handler.HandleIdentityEvent)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
