// Package auth provides the credential exchange bounded context.
// This file defines the module that encapsulates setup and route registration.
package auth

import (
	"hris_backend/internal/auth/assertion"
	"hris_backend/internal/auth/handler"
	"hris_backend/internal/auth/repository"
	"hris_backend/internal/auth/service"
	apphttp "hris_backend/internal/http"
	"hris_backend/platform/config"
	"hris_backend/platform/logger"
	"hris_backend/platform/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the auth module. The assertion verifier
// is constructed by the composition root because OIDC discovery needs a
// context and network access at startup.
func NewModule(pool *pgxpool.Pool, cfg config.SessionConfig, verifier assertion.Verifier, orgs service.OrganizationChecker, met *metrics.Metrics, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.NewService(repo, orgs, verifier, cfg, met, log)
	h := handler.NewHandler(svc, log)

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts the exchange endpoint on the public v1 group with the
// tighter auth rate limit, and the profile endpoint behind the gate.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/auth/exchange", ctx.AuthRateLimiter.RateLimit(), m.handler.Exchange)
	ctx.Protected.GET("/users/me", m.handler.Me)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
