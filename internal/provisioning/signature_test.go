package provisioning

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"testing"
	"time"
)

const testSecret = "whsec_test_secret"

func sign(t *testing.T, secret, id, timestamp string, payload []byte) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(id + "." + timestamp + "."))
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestNewSignatureVerifierRequiresSecret(t *testing.T) {
	if _, err := NewSignatureVerifier("", time.Minute); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestVerifyAcceptsExactPayload(t *testing.T) {
	verifier, err := NewSignatureVerifier(testSecret, 5*time.Minute)
	if err != nil {
		t.Fatalf("NewSignatureVerifier() error = %v", err)
	}

	now := time.Now()
	ts := strconv.FormatInt(now.Unix(), 10)
	payload := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)
	sig := sign(t, testSecret, "msg_1", ts, payload)

	if err := verifier.Verify(payload, "msg_1", ts, sig, now); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
}

func TestVerifyRejectsReserializedPayload(t *testing.T) {
	verifier, _ := NewSignatureVerifier(testSecret, 5*time.Minute)

	now := time.Now()
	ts := strconv.FormatInt(now.Unix(), 10)
	payload := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)
	sig := sign(t, testSecret, "msg_1", ts, payload)

	// Same JSON content, different byte layout.
	reserialized := []byte(`{"data": {"id": "user_1"}, "type": "user.created"}`)
	if err := verifier.Verify(reserialized, "msg_1", ts, sig, now); err != ErrInvalidSignature {
		t.Fatalf("Verify() error = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyRejectsStaleTimestamp(t *testing.T) {
	verifier, _ := NewSignatureVerifier(testSecret, 5*time.Minute)

	now := time.Now()
	payload := []byte(`{}`)

	cases := []struct {
		name string
		sent time.Time
	}{
		{"too old", now.Add(-6 * time.Minute)},
		{"too far in future", now.Add(6 * time.Minute)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := strconv.FormatInt(tc.sent.Unix(), 10)
			sig := sign(t, testSecret, "msg_1", ts, payload)
			if err := verifier.Verify(payload, "msg_1", ts, sig, now); err != ErrInvalidSignature {
				t.Fatalf("Verify() error = %v, want ErrInvalidSignature", err)
			}
		})
	}
}

func TestVerifyWithinTolerance(t *testing.T) {
	verifier, _ := NewSignatureVerifier(testSecret, 5*time.Minute)

	now := time.Now()
	payload := []byte(`{}`)
	ts := strconv.FormatInt(now.Add(-4*time.Minute).Unix(), 10)
	sig := sign(t, testSecret, "msg_1", ts, payload)

	if err := verifier.Verify(payload, "msg_1", ts, sig, now); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
}

func TestVerifyMissingHeaders(t *testing.T) {
	verifier, _ := NewSignatureVerifier(testSecret, 5*time.Minute)

	now := time.Now()
	ts := strconv.FormatInt(now.Unix(), 10)
	payload := []byte(`{}`)
	sig := sign(t, testSecret, "msg_1", ts, payload)

	cases := []struct {
		name        string
		id, ts, sig string
	}{
		{"no id", "", ts, sig},
		{"no timestamp", "msg_1", "", sig},
		{"no signature", "msg_1", ts, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := verifier.Verify(payload, tc.id, tc.ts, tc.sig, now); err != ErrMissingSignatureHeaders {
				t.Fatalf("Verify() error = %v, want ErrMissingSignatureHeaders", err)
			}
		})
	}
}

func TestVerifyMultipleSignatures(t *testing.T) {
	verifier, _ := NewSignatureVerifier(testSecret, 5*time.Minute)

	now := time.Now()
	ts := strconv.FormatInt(now.Unix(), 10)
	payload := []byte(`{"type":"user.deleted"}`)
	good := sign(t, testSecret, "msg_1", ts, payload)
	bad := sign(t, "whsec_rotated_out", "msg_1", ts, payload)

	cases := []struct {
		name   string
		header string
	}{
		{"space delimited, good second", bad + " " + good},
		{"versioned prefix", "v1," + good},
		{"versioned list", "v1," + bad + " v1," + good},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := verifier.Verify(payload, "msg_1", ts, tc.header, now); err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
		})
	}

	if err := verifier.Verify(payload, "msg_1", ts, bad, now); err != ErrInvalidSignature {
		t.Fatalf("Verify() with only wrong-secret signature error = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyRejectsGarbageTimestamp(t *testing.T) {
	verifier, _ := NewSignatureVerifier(testSecret, 5*time.Minute)

	payload := []byte(`{}`)
	if err := verifier.Verify(payload, "msg_1", "not-a-number", "sig", time.Now()); err != ErrInvalidSignature {
		t.Fatalf("Verify() error = %v, want ErrInvalidSignature", err)
	}
}
