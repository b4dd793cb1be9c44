// Package middleware implements the tenant authorization gate: the per-request
// chain that authenticates a caller, attaches verified tenant context and
// rejects cross-tenant resource access. Each request advances through
// credential verification, tenant confirmation and, where a route names an
// organization explicitly, tenant matching; it is rejected at the first step
// that fails.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"hris_backend/internal/auth/token"
	"hris_backend/platform/config"
	"hris_backend/platform/httpkit"
	"hris_backend/platform/logger"
	"hris_backend/platform/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Stable, non-sensitive messages per failure category. Credential failures
// deliberately do not reveal whether the signature or the expiry check failed.
const (
	msgMissingCredential = "missing credential"
	msgInvalidCredential = "invalid or expired credential"
	msgMissingTenant     = "missing tenant context"
	msgInactiveOrg       = "organization is inactive or unknown"
	msgCrossTenant       = "cross-tenant access denied"
	msgForbidden         = "forbidden"
)

// OrganizationChecker answers liveness queries for the tenant re-check.
// Satisfied by the directory repository.
type OrganizationChecker interface {
	IsOrganizationActive(ctx context.Context, id uuid.UUID) (bool, error)
}

// Authenticate verifies the bearer session credential and attaches the
// verified identity to the request context. Verification is pure in-memory
// work; no database access happens here.
func Authenticate(cfg config.SessionConfig, met *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := extractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			observe(met, "missing_credential")
			abort(c, http.StatusUnauthorized, msgMissingCredential)
			return
		}

		claims, err := token.Verify(raw, cfg.GetSessionSecret())
		if err != nil {
			observe(met, "invalid_credential")
			abort(c, http.StatusUnauthorized, msgInvalidCredential)
			return
		}

		httpkit.SetIdentity(c, claims.UserID, claims.ExternalID, claims.OrganizationID, claims.Email, claims.Role)
		c.Next()
	}
}

// RequireActiveOrganization re-checks the caller's organization against the
// tenant directory on every request. A credential outlives its organization's
// deactivation by design (no revocation list), so long-lived credentials must
// lose access here, not at next issuance.
func RequireActiveOrganization(checker OrganizationChecker, met *metrics.Metrics, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := httpkit.GetIdentity(c)
		if !identity.IsAuthenticated() || identity.OrganizationID() == uuid.Nil {
			observe(met, "missing_tenant")
			abort(c, http.StatusForbidden, msgMissingTenant)
			return
		}

		active, err := checker.IsOrganizationActive(c.Request.Context(), identity.OrganizationID())
		if err != nil {
			log.DatabaseError("organization liveness check", err)
			abort(c, http.StatusInternalServerError, "internal error")
			return
		}
		if !active {
			observe(met, "inactive_organization")
			abort(c, http.StatusForbidden, msgInactiveOrg)
			return
		}

		observe(met, "authorized")
		c.Next()
	}
}

// RequireMatchingTenant rejects requests whose explicit organization
// identifier (path param or query) differs from the authenticated caller's.
// Absence of an explicit identifier is not an error: downstream handlers
// scope their own queries with the attached context. Denials are logged with
// full identifying context for audit.
func RequireMatchingTenant(met *metrics.Metrics, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimed, ok, err := explicitOrganizationID(c)
		if err != nil {
			abort(c, http.StatusBadRequest, "invalid organization id")
			return
		}
		if !ok {
			c.Next()
			return
		}

		identity := httpkit.MustGetIdentity(c)
		if identity == nil {
			return
		}

		if claimed != identity.OrganizationID() {
			if met != nil {
				met.CrossTenantDenials.Inc()
			}
			log.CrossTenantAttempt(
				identity.UserID().String(),
				identity.ExternalID(),
				identity.OrganizationID().String(),
				claimed.String(),
				c.Request.URL.Path,
			)
			abort(c, http.StatusForbidden, msgCrossTenant)
			return
		}

		c.Next()
	}
}

// RequireRole returns middleware that checks if the caller has the given role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := httpkit.GetIdentity(c)
		if !identity.IsAuthenticated() || !identity.HasRole(role) {
			abort(c, http.StatusForbidden, msgForbidden)
			return
		}
		c.Next()
	}
}

func explicitOrganizationID(c *gin.Context) (uuid.UUID, bool, error) {
	raw := c.Param("orgId")
	if raw == "" {
		raw = c.Query("organizationId")
	}
	if raw == "" {
		raw = c.Query("orgId")
	}
	if raw == "" {
		return uuid.Nil, false, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}

func extractBearerToken(authHeader string) (string, bool) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}

	raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if raw == "" {
		return "", false
	}

	return raw, true
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func observe(met *metrics.Metrics, outcome string) {
	if met != nil {
		met.AuthDecisions.WithLabelValues(outcome).Inc()
	}
}
