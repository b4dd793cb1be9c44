// Package handler implements the HTTP handlers for credential exchange and
// the caller's own profile.
package handler

import (
	"net/http"
	"strings"

	"hris_backend/internal/auth/service"
	"hris_backend/internal/auth/transport"
	"hris_backend/platform/httpkit"
	"hris_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Handler serves the auth endpoints.
type Handler struct {
	service *Service
	log     *logger.Logger
}

// Service is the subset of the auth service the handler depends on.
type Service = service.Service

// NewHandler creates a new auth handler.
func NewHandler(svc *Service, log *logger.Logger) *Handler {
	return &Handler{service: svc, log: log}
}

// Exchange handles POST /auth/exchange. The provider assertion travels in the
// Authorization header as a bearer token; there is no request body.
func (h *Handler) Exchange(c *gin.Context) {
	rawAssertion, ok := bearer(c.GetHeader("Authorization"))
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "missing identity assertion")
		return
	}

	session, err := h.service.Exchange(c.Request.Context(), rawAssertion)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToExchangeResponse(session))
}

// Me handles GET /users/me for the authenticated caller.
func (h *Handler) Me(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	profile, err := h.service.GetMe(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToUserResponse(profile))
}

func bearer(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return raw, raw != ""
}
