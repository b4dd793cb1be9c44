package directory

import (
	"net/http"
	"time"

	"hris_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler serves the administrative organization endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new directory handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{service: svc}
}

type createOrganizationRequest struct {
	Name         string `json:"name" binding:"required"`
	ContactEmail string `json:"contactEmail" binding:"required"`
}

type organizationResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contactEmail"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toOrganizationResponse(org Organization) organizationResponse {
	return organizationResponse{
		ID:           org.ID.String(),
		Name:         org.Name,
		ContactEmail: org.ContactEmail,
		IsActive:     org.IsActive,
		CreatedAt:    org.CreatedAt,
		UpdatedAt:    org.UpdatedAt,
	}
}

// CreateOrganization handles POST /admin/organizations.
func (h *Handler) CreateOrganization(c *gin.Context) {
	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	org, err := h.service.CreateOrganization(c.Request.Context(), CreateOrganizationInput{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toOrganizationResponse(org))
}

// ListOrganizations handles GET /admin/organizations.
func (h *Handler) ListOrganizations(c *gin.Context) {
	orgs, err := h.service.ListOrganizations(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]organizationResponse, 0, len(orgs))
	for _, org := range orgs {
		out = append(out, toOrganizationResponse(org))
	}
	httpkit.OK(c, gin.H{"organizations": out})
}

// GetOrganization handles GET /admin/organizations/:orgId.
func (h *Handler) GetOrganization(c *gin.Context) {
	id, ok := h.parseOrgID(c)
	if !ok {
		return
	}

	org, err := h.service.GetOrganization(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toOrganizationResponse(org))
}

// DeactivateOrganization handles POST /admin/organizations/:orgId/deactivate.
func (h *Handler) DeactivateOrganization(c *gin.Context) {
	h.setActive(c, false)
}

// ActivateOrganization handles POST /admin/organizations/:orgId/activate.
func (h *Handler) ActivateOrganization(c *gin.Context) {
	h.setActive(c, true)
}

func (h *Handler) setActive(c *gin.Context, active bool) {
	id, ok := h.parseOrgID(c)
	if !ok {
		return
	}

	if err := h.service.SetOrganizationActive(c.Request.Context(), id, active); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"id": id.String(), "isActive": active})
}

func (h *Handler) parseOrgID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid organization id")
		return uuid.Nil, false
	}
	return id, true
}
