package events

import (
	platformevents "hris_backend/platform/events"

	"github.com/google/uuid"
)

// Event names for the identity provisioning lifecycle.
const (
	EventUserProvisioned = "identity.user_provisioned"
	EventUserTerminated  = "identity.user_terminated"
)

// UserProvisioned is published when a local user record is created from an
// identity provider event.
type UserProvisioned struct {
	platformevents.BaseEvent
	UserID         uuid.UUID `json:"userId"`
	ExternalID     string    `json:"externalId"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Email          string    `json:"email"`
	EmployeeCode   string    `json:"employeeCode"`
}

// EventName returns the event identifier.
func (UserProvisioned) EventName() string { return EventUserProvisioned }

// UserTerminated is published when a provider deletion event soft-terminates
// a local user.
type UserTerminated struct {
	platformevents.BaseEvent
	UserID         uuid.UUID `json:"userId"`
	ExternalID     string    `json:"externalId"`
	OrganizationID uuid.UUID `json:"organizationId"`
}

// EventName returns the event identifier.
func (UserTerminated) EventName() string { return EventUserTerminated }
