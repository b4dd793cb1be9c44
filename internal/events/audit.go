package events

import (
	"context"

	"hris_backend/platform/logger"
)

// RegisterAuditHandlers subscribes a structured-log audit trail to the
// identity lifecycle events. Downstream HR modules subscribe to the same
// events for their own side effects.
func RegisterAuditHandlers(bus Bus, log *logger.Logger) {
	bus.Subscribe(EventUserProvisioned, HandlerFunc(func(_ context.Context, event Event) error {
		e, ok := event.(UserProvisioned)
		if !ok {
			return nil
		}
		log.Info("user provisioned",
			"user_id", e.UserID.String(),
			"external_id", e.ExternalID,
			"organization_id", e.OrganizationID.String(),
			"employee_code", e.EmployeeCode,
		)
		return nil
	}))

	bus.Subscribe(EventUserTerminated, HandlerFunc(func(_ context.Context, event Event) error {
		e, ok := event.(UserTerminated)
		if !ok {
			return nil
		}
		log.Info("user terminated",
			"user_id", e.UserID.String(),
			"external_id", e.ExternalID,
			"organization_id", e.OrganizationID.String(),
		)
		return nil
	}))
}
