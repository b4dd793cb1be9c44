// Package directory: module wiring for the tenant directory.
package directory

import (
	apphttp "hris_backend/internal/http"
	"hris_backend/platform/logger"
	"hris_backend/platform/validator"
)

// Module is the directory bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	store   Store
}

// NewModule creates and initializes the directory module. The store is built
// by the composition root so the gate and the provisioning engine can share
// the same instance.
func NewModule(store Store, val *validator.Validator, log *logger.Logger) *Module {
	svc := NewService(store, val, log)
	h := NewHandler(svc)

	return &Module{handler: h, store: store}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "directory"
}

// Directory exposes the read API for other bounded contexts and for the
// authorization gate.
func (m *Module) Directory() Directory {
	return m.store
}

// RegisterRoutes mounts the administrative organization endpoints. Management
// of tenants crosses tenant boundaries on purpose, so the admin group does not
// carry the tenant guard.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.POST("/organizations", m.handler.CreateOrganization)
	ctx.Admin.GET("/organizations", m.handler.ListOrganizations)
	ctx.Admin.GET("/organizations/:orgId", m.handler.GetOrganization)
	ctx.Admin.POST("/organizations/:orgId/deactivate", m.handler.DeactivateOrganization)
	ctx.Admin.POST("/organizations/:orgId/activate", m.handler.ActivateOrganization)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
