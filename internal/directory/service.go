package directory

import (
	"context"
	"errors"

	"hris_backend/platform/apperr"
	"hris_backend/platform/logger"
	"hris_backend/platform/validator"

	"github.com/google/uuid"
)

// Store is the write side of the directory, satisfied by the repository.
type Store interface {
	Directory
	Create(ctx context.Context, name, contactEmail string) (Organization, error)
	List(ctx context.Context) ([]Organization, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// CreateOrganizationInput is the validated input for organization creation.
type CreateOrganizationInput struct {
	Name         string `validate:"required,min=2,max=200"`
	ContactEmail string `validate:"required,email"`
}

// Service implements the administrative directory operations.
type Service struct {
	store     Store
	validator *validator.Validator
	log       *logger.Logger
}

// NewService creates a new directory service.
func NewService(store Store, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{store: store, validator: val, log: log}
}

// CreateOrganization registers a new tenant.
func (s *Service) CreateOrganization(ctx context.Context, input CreateOrganizationInput) (Organization, error) {
	if err := s.validator.Struct(input); err != nil {
		return Organization{}, apperr.Wrap(apperr.KindValidation, "invalid organization data", err)
	}

	org, err := s.store.Create(ctx, input.Name, input.ContactEmail)
	if err != nil {
		return Organization{}, err
	}

	s.log.Info("organization created", "organization_id", org.ID.String(), "name", org.Name)
	return org, nil
}

// GetOrganization returns a single organization.
func (s *Service) GetOrganization(ctx context.Context, id uuid.UUID) (Organization, error) {
	org, err := s.store.FindOrganization(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Organization{}, apperr.NotFound("organization not found")
		}
		s.log.DatabaseError("find organization", err)
		return Organization{}, apperr.Wrap(apperr.KindInternal, "organization lookup failed", err)
	}
	return org, nil
}

// ListOrganizations returns every registered tenant.
func (s *Service) ListOrganizations(ctx context.Context) ([]Organization, error) {
	orgs, err := s.store.List(ctx)
	if err != nil {
		s.log.DatabaseError("list organizations", err)
		return nil, apperr.Wrap(apperr.KindInternal, "organization list failed", err)
	}
	return orgs, nil
}

// SetOrganizationActive activates or deactivates a tenant. Deactivation takes
// effect on the next request from any of the tenant's users because the gate
// re-checks liveness per request.
func (s *Service) SetOrganizationActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.store.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("organization not found")
		}
		s.log.DatabaseError("set organization active", err)
		return apperr.Wrap(apperr.KindInternal, "organization update failed", err)
	}

	s.log.Info("organization activity changed", "organization_id", id.String(), "is_active", active)
	return nil
}
