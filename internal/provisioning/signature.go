package provisioning

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Signature header names used by the identity provider's delivery transport.
const (
	HeaderWebhookID        = "webhook-id"
	HeaderWebhookTimestamp = "webhook-timestamp"
	HeaderWebhookSignature = "webhook-signature"
)

var (
	// ErrMissingSignatureHeaders is returned when any of the three transport
	// headers is absent.
	ErrMissingSignatureHeaders = errors.New("missing signature headers")
	// ErrInvalidSignature covers signature mismatches and timestamps outside
	// the replay tolerance window.
	ErrInvalidSignature = errors.New("invalid signature")
)

// SignatureVerifier decides whether an inbound delivery genuinely originates
// from the identity provider. Verification is pure: it covers the byte-exact
// payload as transmitted, so any re-serialization invalidates the signature.
type SignatureVerifier struct {
	secret    []byte
	tolerance time.Duration
}

// NewSignatureVerifier creates a verifier for the pre-shared webhook secret.
// An empty secret is a configuration error; callers treat it as fatal at startup.
func NewSignatureVerifier(secret string, tolerance time.Duration) (*SignatureVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("webhook authenticator misconfigured: empty secret")
	}
	if tolerance <= 0 {
		tolerance = 5 * time.Minute
	}
	return &SignatureVerifier{secret: []byte(secret), tolerance: tolerance}, nil
}

// Verify checks the delivery signature over `{id}.{timestamp}.{payload}`.
// The signature header may carry several space- or comma-delimited values,
// each optionally versioned as `v1,<base64>`; the delivery is accepted when
// any of them matches under a constant-time comparison.
func (v *SignatureVerifier) Verify(payload []byte, id, timestamp, signatures string, now time.Time) error {
	if id == "" || timestamp == "" || signatures == "" {
		return ErrMissingSignatureHeaders
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	sent := time.Unix(ts, 0)
	if now.Sub(sent) > v.tolerance || sent.Sub(now) > v.tolerance {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(id))
	mac.Write([]byte{'.'})
	mac.Write([]byte(timestamp))
	mac.Write([]byte{'.'})
	mac.Write(payload)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	for _, candidate := range splitSignatures(signatures) {
		if hmac.Equal([]byte(candidate), []byte(expected)) {
			return nil
		}
	}

	return ErrInvalidSignature
}

func splitSignatures(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ' ' || r == ','
	})

	results := make([]string, 0, len(fields))
	for _, field := range fields {
		// A versioned signature "v1,<base64>" splits into a short version
		// marker and the digest; drop the markers.
		if len(field) < 8 {
			continue
		}
		results = append(results, field)
	}
	return results
}
