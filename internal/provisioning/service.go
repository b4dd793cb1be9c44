// Package provisioning turns identity provider webhook events into local user
// records. Every user belongs to a pre-existing, active organization; the
// engine enforces that invariant and is idempotent under provider retries and
// out-of-order delivery.
package provisioning

import (
	"context"
	"time"

	"hris_backend/internal/directory"
	"hris_backend/internal/events"
	"hris_backend/internal/provisioning/repository"
	"hris_backend/platform/apperr"
	"hris_backend/platform/logger"
	"hris_backend/platform/metrics"

	directoryrepo "hris_backend/internal/directory/repository"

	"github.com/google/uuid"
)

// Typed provisioning outcomes. MissingTenantContext and
// UnknownOrInactiveOrganization are deliberately distinct so operators can
// tell a provider misconfiguration from a stale or deactivated tenant.
var (
	ErrMissingEmail            = apperr.Unprocessable("identity event carries no email address")
	ErrMissingTenantContext    = apperr.Unprocessable("identity event carries no organization context")
	ErrUnknownOrganization     = apperr.Unprocessable("organization is unknown or inactive")
	ErrCodeGenerationExhausted = apperr.Internal("employee code generation exhausted retries")
)

const (
	defaultRoleLevel = 1
	maxCodeAttempts  = 5
)

// Service is the user provisioning engine.
type Service struct {
	users      repository.UserStore
	roles      repository.RoleStore
	deliveries repository.DeliveryStore
	dir        directory.Directory
	bus        events.Bus
	met        *metrics.Metrics
	log        *logger.Logger
}

// NewService creates the provisioning engine with explicit collaborators.
func NewService(
	users repository.UserStore,
	roles repository.RoleStore,
	deliveries repository.DeliveryStore,
	dir directory.Directory,
	bus events.Bus,
	met *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		users:      users,
		roles:      roles,
		deliveries: deliveries,
		dir:        dir,
		bus:        bus,
		met:        met,
		log:        log,
	}
}

// HandleUserCreated provisions a local user from a provider creation event.
// Delivering the same event twice yields exactly one row: if the subject is
// already provisioned the existing record is returned unchanged.
func (s *Service) HandleUserCreated(ctx context.Context, ext ExternalUser) (repository.User, error) {
	if existing, err := s.users.GetByExternalID(ctx, ext.ID); err == nil {
		return existing, nil
	} else if err != repository.ErrNotFound {
		return repository.User{}, err
	}

	profile, err := ExtractProfile(ext)
	if err != nil {
		return repository.User{}, err
	}

	orgID, err := ExtractOrganizationID(ext)
	if err != nil {
		return repository.User{}, err
	}

	org, err := s.dir.FindOrganization(ctx, orgID)
	if err == directoryrepo.ErrNotFound {
		return repository.User{}, ErrUnknownOrganization
	}
	if err != nil {
		return repository.User{}, err
	}
	if !org.IsActive {
		return repository.User{}, ErrUnknownOrganization
	}

	role, err := s.resolveDefaultRole(ctx, orgID)
	if err != nil {
		return repository.User{}, err
	}

	user, err := s.createWithCodeRetry(ctx, ext.ID, orgID, role.ID, profile)
	if err != nil {
		return repository.User{}, err
	}

	if s.met != nil {
		s.met.ProvisionedUsers.Inc()
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.UserProvisioned{
			BaseEvent:      events.NewBaseEvent(),
			UserID:         user.ID,
			ExternalID:     user.ExternalID,
			OrganizationID: user.OrganizationID,
			Email:          user.Email,
			EmployeeCode:   user.EmployeeCode,
		})
	}

	return user, nil
}

// HandleUserUpdated overwrites mutable profile fields for an already
// provisioned subject. An update for a subject that was never provisioned is
// a harmless no-op: the eventual creation event is authoritative.
func (s *Service) HandleUserUpdated(ctx context.Context, ext ExternalUser) (repository.User, error) {
	if _, err := s.users.GetByExternalID(ctx, ext.ID); err == repository.ErrNotFound {
		return repository.User{}, nil
	} else if err != nil {
		return repository.User{}, err
	}

	profile, err := ExtractProfile(ext)
	if err != nil {
		return repository.User{}, err
	}

	update := repository.ProfileUpdate{
		Email:           profile.Email,
		FirstName:       profile.FirstName,
		LastName:        profile.LastName,
		IsPhoneVerified: profile.Phone != "",
	}
	if profile.Phone != "" {
		update.Phone = &profile.Phone
	}

	user, err := s.users.UpdateProfile(ctx, ext.ID, update)
	if err == repository.ErrNotFound {
		return repository.User{}, nil
	}
	return user, err
}

// HandleUserDeleted soft-terminates the subject's local user. Absent users
// are a no-op; rows are never deleted.
func (s *Service) HandleUserDeleted(ctx context.Context, externalID string) error {
	user, err := s.users.Terminate(ctx, externalID, time.Now())
	if err == repository.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	if s.met != nil {
		s.met.TerminatedUsers.Inc()
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.UserTerminated{
			BaseEvent:      events.NewBaseEvent(),
			UserID:         user.ID,
			ExternalID:     user.ExternalID,
			OrganizationID: user.OrganizationID,
		})
	}

	return nil
}

// RecordDelivery appends the delivery outcome to the audit log, best effort.
func (s *Service) RecordDelivery(ctx context.Context, eventID, eventType, outcome string) {
	if s.deliveries == nil {
		return
	}
	if err := s.deliveries.Record(ctx, eventID, eventType, outcome); err != nil && s.log != nil {
		s.log.DatabaseError("record webhook delivery", err)
	}
}

// resolveDefaultRole finds the organization's default role, creating it on
// demand. A concurrent duplicate creation is tolerated: the uniqueness
// violation means another request won the race, so re-fetch and reuse.
func (s *Service) resolveDefaultRole(ctx context.Context, orgID uuid.UUID) (repository.Role, error) {
	role, err := s.roles.FindRoleByName(ctx, orgID, repository.DefaultRoleName)
	if err == nil {
		return role, nil
	}
	if err != repository.ErrNotFound {
		return repository.Role{}, err
	}

	role, err = s.roles.CreateRole(ctx, orgID, repository.DefaultRoleName, defaultRoleLevel)
	if err == repository.ErrDuplicateRole {
		return s.roles.FindRoleByName(ctx, orgID, repository.DefaultRoleName)
	}
	return role, err
}

// createWithCodeRetry inserts the user, regenerating the employee code on
// collision. Retries are bounded: collisions are vanishingly rare given the
// entropy used, so exhausting the ceiling is surfaced as a typed failure
// rather than looping forever.
func (s *Service) createWithCodeRetry(ctx context.Context, externalID string, orgID, roleID uuid.UUID, profile ExtractedProfile) (repository.User, error) {
	input := repository.NewUser{
		ExternalID:      externalID,
		OrganizationID:  orgID,
		RoleID:          roleID,
		Email:           profile.Email,
		FirstName:       profile.FirstName,
		LastName:        profile.LastName,
		IsPhoneVerified: profile.Phone != "",
	}
	if profile.Phone != "" {
		input.Phone = &profile.Phone
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generateEmployeeCode(time.Now())
		if err != nil {
			return repository.User{}, err
		}
		input.EmployeeCode = code

		user, err := s.users.Create(ctx, input)
		switch err {
		case nil:
			return user, nil
		case repository.ErrDuplicateEmployeeCode:
			continue
		case repository.ErrDuplicateExternalID:
			// A concurrent delivery for the same subject won the insert race.
			return s.users.GetByExternalID(ctx, externalID)
		default:
			return repository.User{}, err
		}
	}

	return repository.User{}, ErrCodeGenerationExhausted
}
