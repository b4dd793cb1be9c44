// Package service implements credential exchange: trading a verified
// provider assertion for a locally-issued session credential.
package service

import (
	"context"
	"errors"
	"time"

	"hris_backend/internal/auth/assertion"
	"hris_backend/internal/auth/repository"
	"hris_backend/internal/auth/token"
	"hris_backend/platform/apperr"
	"hris_backend/platform/config"
	"hris_backend/platform/logger"
	"hris_backend/platform/metrics"

	"github.com/google/uuid"
)

// ProfileReader abstracts profile lookups for the exchange flow.
type ProfileReader interface {
	GetByExternalID(ctx context.Context, externalID string) (repository.Profile, error)
	GetByID(ctx context.Context, userID uuid.UUID) (repository.Profile, error)
}

// OrganizationChecker answers liveness queries for the caller's tenant.
type OrganizationChecker interface {
	IsOrganizationActive(ctx context.Context, id uuid.UUID) (bool, error)
}

// Session is the result of a successful credential exchange.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Profile   repository.Profile
}

// Service performs credential exchange and profile reads.
type Service struct {
	profiles ProfileReader
	orgs     OrganizationChecker
	verifier assertion.Verifier
	cfg      config.SessionConfig
	met      *metrics.Metrics
	log      *logger.Logger
}

// NewService creates a new auth service.
func NewService(profiles ProfileReader, orgs OrganizationChecker, verifier assertion.Verifier, cfg config.SessionConfig, met *metrics.Metrics, log *logger.Logger) *Service {
	return &Service{
		profiles: profiles,
		orgs:     orgs,
		verifier: verifier,
		cfg:      cfg,
		met:      met,
		log:      log,
	}
}

// Exchange verifies the provider assertion, looks up the provisioned profile
// bound to its subject and issues a session credential. The caller must be
// active and belong to an active organization; a person who signed up at the
// provider but was never delivered via webhook gets a not-found, which the
// client surfaces as "provisioning pending".
func (s *Service) Exchange(ctx context.Context, rawAssertion string) (Session, error) {
	subject, err := s.verifier.Subject(ctx, rawAssertion)
	if err != nil {
		s.observe("invalid_assertion")
		s.log.AuthEvent("credential_exchange", "", false, "assertion verification failed")
		return Session{}, apperr.Unauthorized("invalid identity assertion")
	}

	profile, err := s.profiles.GetByExternalID(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.observe("not_provisioned")
			s.log.AuthEvent("credential_exchange", subject, false, "user not provisioned")
			return Session{}, apperr.NotFound("user not provisioned")
		}
		s.log.DatabaseError("exchange profile lookup", err)
		return Session{}, apperr.Wrap(apperr.KindInternal, "profile lookup failed", err)
	}

	if profile.Status != repository.StatusActive {
		s.observe("inactive_user")
		s.log.AuthEvent("credential_exchange", subject, false, "user is "+profile.Status)
		return Session{}, apperr.Forbidden("user is not active")
	}

	active, err := s.orgs.IsOrganizationActive(ctx, profile.OrganizationID)
	if err != nil {
		s.log.DatabaseError("exchange organization check", err)
		return Session{}, apperr.Wrap(apperr.KindInternal, "organization check failed", err)
	}
	if !active {
		s.observe("inactive_organization")
		s.log.AuthEvent("credential_exchange", subject, false, "organization inactive")
		return Session{}, apperr.Forbidden("organization is inactive")
	}

	ttl := s.cfg.GetSessionTTL()
	signed, err := token.Issue(token.Claims{
		UserID:         profile.UserID,
		ExternalID:     profile.ExternalID,
		OrganizationID: profile.OrganizationID,
		Email:          profile.Email,
		FirstName:      profile.FirstName,
		LastName:       profile.LastName,
		Role:           profile.RoleName,
	}, s.cfg.GetSessionSecret(), ttl)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindInternal, "credential signing failed", err)
	}

	s.observe("issued")
	s.log.AuthEvent("credential_exchange", subject, true, "")

	return Session{
		Token:     signed,
		ExpiresAt: time.Now().Add(ttl),
		Profile:   profile,
	}, nil
}

// GetMe returns the caller's own profile.
func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (repository.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Profile{}, apperr.NotFound("user not found")
		}
		s.log.DatabaseError("get me", err)
		return repository.Profile{}, apperr.Wrap(apperr.KindInternal, "profile lookup failed", err)
	}
	return profile, nil
}

func (s *Service) observe(outcome string) {
	if s.met != nil {
		s.met.CredentialExchanges.WithLabelValues(outcome).Inc()
	}
}
