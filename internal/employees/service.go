// Package employees provides tenant-scoped employee listings. All reads are
// bound to the caller's verified organization; the roster of one tenant is
// never visible to another.
package employees

import (
	"context"

	"hris_backend/internal/employees/repository"
	"hris_backend/platform/apperr"
	"hris_backend/platform/logger"

	"github.com/google/uuid"
)

var allowedStatuses = map[string]bool{
	"":           true,
	"active":     true,
	"inactive":   true,
	"suspended":  true,
	"terminated": true,
}

// Store is the read side the service depends on.
type Store interface {
	ListByOrganization(ctx context.Context, orgID uuid.UUID, filter repository.ListFilter) ([]repository.Employee, error)
	CountByOrganization(ctx context.Context, orgID uuid.UUID, filter repository.ListFilter) (int64, error)
}

// Listing is a page of employees with the total for pagination.
type Listing struct {
	Employees []repository.Employee
	Total     int64
}

// Service lists employees for an organization.
type Service struct {
	store Store
	log   *logger.Logger
}

// NewService creates a new employees service.
func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// List returns a page of the organization's employees.
func (s *Service) List(ctx context.Context, orgID uuid.UUID, filter repository.ListFilter) (Listing, error) {
	if !allowedStatuses[filter.Status] {
		return Listing{}, apperr.Validation("unknown status filter")
	}

	employees, err := s.store.ListByOrganization(ctx, orgID, filter)
	if err != nil {
		s.log.DatabaseError("list employees", err)
		return Listing{}, apperr.Wrap(apperr.KindInternal, "employee listing failed", err)
	}

	total, err := s.store.CountByOrganization(ctx, orgID, filter)
	if err != nil {
		s.log.DatabaseError("count employees", err)
		return Listing{}, apperr.Wrap(apperr.KindInternal, "employee listing failed", err)
	}

	return Listing{Employees: employees, Total: total}, nil
}
