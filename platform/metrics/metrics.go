// Package metrics provides prometheus collectors for the identity subsystem.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors observed by the provisioning engine and the
// authorization gate.
type Metrics struct {
	WebhookDeliveries   *prometheus.CounterVec
	ProvisionedUsers    prometheus.Counter
	TerminatedUsers     prometheus.Counter
	AuthDecisions       *prometheus.CounterVec
	CrossTenantDenials  prometheus.Counter
	CredentialExchanges *prometheus.CounterVec
}

// New registers the collectors with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		WebhookDeliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hris_webhook_deliveries_total",
			Help: "Identity provider webhook deliveries by outcome.",
		}, []string{"outcome"}),
		ProvisionedUsers: factory.NewCounter(prometheus.CounterOpts{
			Name: "hris_provisioned_users_total",
			Help: "Users provisioned from identity events.",
		}),
		TerminatedUsers: factory.NewCounter(prometheus.CounterOpts{
			Name: "hris_terminated_users_total",
			Help: "Users soft-terminated from identity events.",
		}),
		AuthDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hris_authorization_decisions_total",
			Help: "Authorization gate decisions by outcome.",
		}, []string{"outcome"}),
		CrossTenantDenials: factory.NewCounter(prometheus.CounterOpts{
			Name: "hris_cross_tenant_denials_total",
			Help: "Requests rejected for naming another tenant's resources.",
		}),
		CredentialExchanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hris_credential_exchanges_total",
			Help: "Credential exchange attempts by outcome.",
		}, []string{"outcome"}),
	}
}

// NewDefault registers the collectors with the default prometheus registry.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}
