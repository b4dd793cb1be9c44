// Package directory provides the tenant directory bounded context.
// This file defines the public API of the directory: read-only organization
// lookups that the provisioning engine and the authorization gate depend on.
// Organization liveness is never cached; every call re-reads current state so
// deactivating an organization cuts off its users immediately.
package directory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an organization does not exist.
var ErrNotFound = errors.New("organization not found")

// Organization is the tenant root. All tenant-scoped entities reference
// exactly one organization by identifier.
type Organization struct {
	ID           uuid.UUID
	Name         string
	ContactEmail string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Directory answers organization existence and liveness queries.
// Other bounded contexts depend on this interface, not on the repository.
type Directory interface {
	// FindOrganization returns the organization or ErrNotFound.
	FindOrganization(ctx context.Context, id uuid.UUID) (Organization, error)
	// IsOrganizationActive reports whether the organization exists and is active.
	IsOrganizationActive(ctx context.Context, id uuid.UUID) (bool, error)
}
