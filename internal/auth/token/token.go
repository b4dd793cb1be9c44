// Package token implements the session credential codec.
// Credentials are self-contained HS256 JWTs carrying the caller's local user
// ID, provider subject, organization and profile fields. Verification is pure
// in-memory work; organization liveness is re-checked separately by the
// authorization middleware on every request.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMissingOrganization is returned by Issue when the claim set lacks an
	// organization. Upstream must have resolved the user's organization before
	// issuing, so hitting this is a programming error, not user input.
	ErrMissingOrganization = errors.New("credential claims missing organization")
	// ErrInvalidSignature covers malformed tokens, wrong algorithms and
	// signature mismatches.
	ErrInvalidSignature = errors.New("invalid credential signature")
	// ErrExpired is returned for a well-signed credential past its expiry.
	ErrExpired = errors.New("credential expired")
)

const credentialType = "session"

// Claims is the verified content of a session credential.
type Claims struct {
	UserID         uuid.UUID
	ExternalID     string
	OrganizationID uuid.UUID
	Email          string
	FirstName      string
	LastName       string
	Role           string
}

type sessionClaims struct {
	ExternalID     string `json:"ext"`
	OrganizationID string `json:"org"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	Role           string `json:"role,omitempty"`
	TokenType      string `json:"type"`
	jwt.RegisteredClaims
}

// Issue signs the claim set with the shared secret, stamping an absolute
// expiry of now+ttl.
func Issue(claims Claims, secret string, ttl time.Duration) (string, error) {
	return issueAt(claims, secret, ttl, time.Now())
}

func issueAt(claims Claims, secret string, ttl time.Duration, now time.Time) (string, error) {
	if claims.OrganizationID == uuid.Nil {
		return "", ErrMissingOrganization
	}

	payload := sessionClaims{
		ExternalID:     claims.ExternalID,
		OrganizationID: claims.OrganizationID.String(),
		Email:          claims.Email,
		FirstName:      claims.FirstName,
		LastName:       claims.LastName,
		Role:           claims.Role,
		TokenType:      credentialType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString([]byte(secret))
}

// Verify validates the signature and expiry of a raw credential and returns
// its claims. Signature failures and expiry are reported as distinct errors;
// callers expose a single "invalid or expired" message to avoid leaking which
// check failed.
func Verify(raw, secret string) (Claims, error) {
	var payload sessionClaims
	parsed, err := jwt.ParseWithClaims(raw, &payload, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalidSignature
	}
	if !parsed.Valid || payload.TokenType != credentialType {
		return Claims{}, ErrInvalidSignature
	}

	userID, err := uuid.Parse(payload.Subject)
	if err != nil {
		return Claims{}, ErrInvalidSignature
	}

	// A credential may carry an empty organization only if it was signed by a
	// different version of this service; the claim set is surfaced as-is and
	// the authorization gate rejects it with a tenant-context failure.
	var orgID uuid.UUID
	if payload.OrganizationID != "" {
		orgID, err = uuid.Parse(payload.OrganizationID)
		if err != nil {
			return Claims{}, ErrInvalidSignature
		}
	}

	return Claims{
		UserID:         userID,
		ExternalID:     payload.ExternalID,
		OrganizationID: orgID,
		Email:          payload.Email,
		FirstName:      payload.FirstName,
		LastName:       payload.LastName,
		Role:           payload.Role,
	}, nil
}
