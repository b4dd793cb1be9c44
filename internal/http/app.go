// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"hris_backend/internal/http/middleware"
	"hris_backend/platform/config"
	"hris_backend/platform/logger"
	"hris_backend/platform/metrics"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.SessionConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP and session settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness/health checks (e.g., DB ping).
	Health HealthChecker
	// Directory answers organization liveness queries for the gate.
	Directory middleware.OrganizationChecker
	// Metrics are the prometheus collectors shared across modules.
	Metrics *metrics.Metrics
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
