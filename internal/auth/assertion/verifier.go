// Package assertion verifies externally-issued identity assertions presented
// at the credential exchange endpoint. The identity provider's signup and
// login UI is an external collaborator; this package only consumes the
// OIDC tokens it issues.
package assertion

import (
	"context"

	"hris_backend/platform/config"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Verifier resolves a raw provider assertion to its subject identifier.
type Verifier interface {
	Subject(ctx context.Context, rawAssertion string) (string, error)
}

// OIDCVerifier validates provider ID tokens against the issuer's published
// keys via OIDC discovery.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier discovers the issuer configuration and prepares a token
// verifier. Discovery failure is surfaced so the process fails at startup
// rather than serving an exchange endpoint that cannot verify anything.
func NewOIDCVerifier(ctx context.Context, cfg config.IdentityProviderConfig) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, cfg.GetIdentityIssuer())
	if err != nil {
		return nil, err
	}

	oidcConfig := &oidc.Config{ClientID: cfg.GetIdentityAudience()}
	if cfg.GetIdentityAudience() == "" {
		oidcConfig.SkipClientIDCheck = true
	}

	return &OIDCVerifier{verifier: provider.Verifier(oidcConfig)}, nil
}

// Subject verifies the assertion and returns the provider's stable subject
// identifier for the person.
func (v *OIDCVerifier) Subject(ctx context.Context, rawAssertion string) (string, error) {
	idToken, err := v.verifier.Verify(ctx, rawAssertion)
	if err != nil {
		return "", err
	}
	return idToken.Subject, nil
}

var _ Verifier = (*OIDCVerifier)(nil)
