package token

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

const testSecret = "test-secret-please-rotate"

func testClaims() Claims {
	return Claims{
		UserID:         uuid.New(),
		ExternalID:     "ext_42",
		OrganizationID: uuid.New(),
		Email:          "a@x.com",
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Role:           "employee",
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	in := testClaims()

	raw, err := Issue(in, testSecret, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	out, err := Verify(raw, testSecret)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if out != in {
		t.Fatalf("claims changed in round trip: got %+v want %+v", out, in)
	}
}

func TestVerifyAcceptsCredentialJustInsideExpiry(t *testing.T) {
	issuedAt := time.Now().Add(-7*24*time.Hour + time.Second)

	raw, err := issueAt(testClaims(), testSecret, 7*24*time.Hour, issuedAt)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := Verify(raw, testSecret); err != nil {
		t.Fatalf("expected credential issued 7d-1s ago to verify, got %v", err)
	}
}

func TestVerifyRejectsExpiredCredential(t *testing.T) {
	issuedAt := time.Now().Add(-7*24*time.Hour - time.Second)

	raw, err := issueAt(testClaims(), testSecret, 7*24*time.Hour, issuedAt)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := Verify(raw, testSecret); err != ErrExpired {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestVerifyDetectsTamperedSignature(t *testing.T) {
	raw, err := Issue(testClaims(), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three JWT segments, got %d", len(parts))
	}

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	sig := []byte(parts[2])
	for i := range sig {
		flipped := make([]byte, len(sig))
		copy(flipped, sig)
		// Flip the top bit of the sextet so the decoded signature changes
		// even for the partially-used final base64 character.
		flipped[i] = alphabet[strings.IndexByte(alphabet, flipped[i])^0x20]

		tampered := parts[0] + "." + parts[1] + "." + string(flipped)
		if _, err := Verify(tampered, testSecret); err != ErrInvalidSignature {
			t.Fatalf("byte %d: expected ErrInvalidSignature, got %v", i, err)
		}
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	raw, err := Issue(testClaims(), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := Verify(raw, "other-secret"); err != ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	if _, err := Verify("not-a-token", testSecret); err != ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestIssueRequiresOrganization(t *testing.T) {
	claims := testClaims()
	claims.OrganizationID = uuid.Nil

	if _, err := Issue(claims, testSecret, time.Hour); err != ErrMissingOrganization {
		t.Fatalf("expected ErrMissingOrganization, got %v", err)
	}
}
