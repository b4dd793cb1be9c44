package employees

import (
	"hris_backend/internal/employees/repository"
	apphttp "hris_backend/internal/http"
	"hris_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the employees bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the employees module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := NewService(repo, log)
	h := NewHandler(svc)

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "employees"
}

// RegisterRoutes mounts the listing endpoints behind the gate. The
// organization-addressed variant additionally runs the tenant guard so a
// caller naming a foreign organization is rejected before the handler runs.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/employees", m.handler.List)
	ctx.Protected.GET("/organizations/:orgId/employees", ctx.TenantGuard, m.handler.List)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
