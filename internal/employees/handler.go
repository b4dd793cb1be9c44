package employees

import (
	"strconv"
	"time"

	"hris_backend/internal/employees/repository"
	"hris_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler serves the employee listing endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new employees handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{service: svc}
}

type employeeResponse struct {
	ID           string    `json:"id"`
	ExternalID   string    `json:"externalId"`
	EmployeeCode string    `json:"employeeCode"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Phone        *string   `json:"phone,omitempty"`
	Department   *string   `json:"department,omitempty"`
	Designation  *string   `json:"designation,omitempty"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

type listResponse struct {
	Employees []employeeResponse `json:"employees"`
	Total     int64              `json:"total"`
}

// List handles both listing routes. The organization is always taken from the
// verified identity, never from the request; the explicit :orgId variant only
// adds the tenant guard's equality check in front.
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	filter := repository.ListFilter{
		Status: c.Query("status"),
		Limit:  intQuery(c, "limit"),
		Offset: intQuery(c, "offset"),
	}

	listing, err := h.service.List(c.Request.Context(), identity.OrganizationID(), filter)
	if httpkit.HandleError(c, err) {
		return
	}

	out := listResponse{
		Employees: make([]employeeResponse, 0, len(listing.Employees)),
		Total:     listing.Total,
	}
	for _, e := range listing.Employees {
		out.Employees = append(out.Employees, employeeResponse{
			ID:           e.ID.String(),
			ExternalID:   e.ExternalID,
			EmployeeCode: e.EmployeeCode,
			Email:        e.Email,
			FirstName:    e.FirstName,
			LastName:     e.LastName,
			Phone:        e.Phone,
			Department:   e.Department,
			Designation:  e.Designation,
			Role:         e.RoleName,
			Status:       e.Status,
			CreatedAt:    e.CreatedAt,
		})
	}

	httpkit.OK(c, out)
}

func intQuery(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
