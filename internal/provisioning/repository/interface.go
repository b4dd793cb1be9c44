package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// User status values. "Deletion" from the identity provider is a soft
// transition to terminated, never a row delete: historical HR records must
// stay referentially intact.
const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusSuspended  = "suspended"
	StatusTerminated = "terminated"
)

// DefaultRoleName is the per-organization role assigned to provisioned users.
const DefaultRoleName = "employee"

var (
	// ErrNotFound is returned when a user or role does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateExternalID signals a concurrent creation for the same
	// provider subject; callers re-fetch and reuse the existing row.
	ErrDuplicateExternalID = errors.New("duplicate external id")
	// ErrDuplicateEmployeeCode signals an employee code collision; callers
	// regenerate and retry.
	ErrDuplicateEmployeeCode = errors.New("duplicate employee code")
	// ErrDuplicateEmail signals the email is already bound to another user.
	ErrDuplicateEmail = errors.New("duplicate email")
	// ErrDuplicateRole signals the role already exists for the organization;
	// callers re-fetch and reuse it.
	ErrDuplicateRole = errors.New("duplicate role")
)

// User is the local identity bound 1:1 to a provider subject.
// OrganizationID and RoleID are immutable after creation by this subsystem.
type User struct {
	ID              uuid.UUID
	ExternalID      string
	OrganizationID  uuid.UUID
	RoleID          uuid.UUID
	EmployeeCode    string
	Email           string
	FirstName       string
	LastName        string
	Phone           *string
	Status          string
	IsEmailVerified bool
	IsPhoneVerified bool
	JoinDate        time.Time
	LeaveDate       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Role is a per-organization named permission bundle.
type Role struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Level          int
	IsActive       bool
	CreatedAt      time.Time
}

// NewUser carries the fields required to create a user row.
type NewUser struct {
	ExternalID      string
	OrganizationID  uuid.UUID
	RoleID          uuid.UUID
	EmployeeCode    string
	Email           string
	FirstName       string
	LastName        string
	Phone           *string
	IsPhoneVerified bool
}

// ProfileUpdate carries the mutable profile fields overwritten by provider
// update events. Organization and role are never part of it.
type ProfileUpdate struct {
	Email           string
	FirstName       string
	LastName        string
	Phone           *string
	IsPhoneVerified bool
}

// UserStore persists provisioned users.
type UserStore interface {
	GetByExternalID(ctx context.Context, externalID string) (User, error)
	Create(ctx context.Context, input NewUser) (User, error)
	UpdateProfile(ctx context.Context, externalID string, update ProfileUpdate) (User, error)
	Terminate(ctx context.Context, externalID string, leaveDate time.Time) (User, error)
}

// RoleStore persists per-organization roles.
type RoleStore interface {
	FindRoleByName(ctx context.Context, organizationID uuid.UUID, name string) (Role, error)
	CreateRole(ctx context.Context, organizationID uuid.UUID, name string, level int) (Role, error)
}

// DeliveryStore records processed webhook deliveries for audit purposes.
type DeliveryStore interface {
	Record(ctx context.Context, eventID, eventType, outcome string) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
