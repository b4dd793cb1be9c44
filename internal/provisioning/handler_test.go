package provisioning

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"hris_backend/internal/directory"
	"hris_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type webhookFixture struct {
	engine     *gin.Engine
	users      *fakeUserStore
	deliveries *fakeDeliveryStore
	orgID      uuid.UUID
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orgID := uuid.New()
	users := newFakeUserStore()
	deliveries := &fakeDeliveryStore{}
	dir := &fakeDirectory{orgs: map[uuid.UUID]directory.Organization{
		orgID: {ID: orgID, Name: "Acme", IsActive: true},
	}}
	svc := NewService(users, newFakeRoleStore(), deliveries, dir, nil, nil, logger.New("test"))

	verifier, err := NewSignatureVerifier(testSecret, 5*time.Minute)
	if err != nil {
		t.Fatalf("NewSignatureVerifier() error = %v", err)
	}
	h := NewHandler(svc, verifier, nil, logger.New("test"))

	engine := gin.New()
	engine.POST("/webhooks/identity", h.HandleIdentityEvent)

	return &webhookFixture{engine: engine, users: users, deliveries: deliveries, orgID: orgID}
}

func (fx *webhookFixture) deliver(t *testing.T, payload []byte, signed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/identity", bytes.NewReader(payload))
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set(HeaderWebhookID, "msg_1")
	req.Header.Set(HeaderWebhookTimestamp, ts)
	if signed {
		req.Header.Set(HeaderWebhookSignature, sign(t, testSecret, "msg_1", ts, payload))
	} else {
		req.Header.Set(HeaderWebhookSignature, sign(t, "whsec_wrong", "msg_1", ts, payload))
	}

	rec := httptest.NewRecorder()
	fx.engine.ServeHTTP(rec, req)
	return rec
}

func createdPayload(orgID uuid.UUID) []byte {
	return []byte(`{
		"type": "user.created",
		"data": {
			"id": "user_2abc",
			"first_name": "Jane",
			"last_name": "Doe",
			"primary_email_address_id": "idn_1",
			"email_addresses": [{"id": "idn_1", "email_address": "jane@acme.test"}],
			"public_metadata": {"organizationId": "` + orgID.String() + `"}
		}
	}`)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	fx := newWebhookFixture(t)

	rec := fx.deliver(t, createdPayload(fx.orgID), false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if fx.users.createCalls != 0 {
		t.Error("unsigned delivery reached the provisioning engine")
	}
}

func TestWebhookProvisionsOnUserCreated(t *testing.T) {
	fx := newWebhookFixture(t)

	rec := fx.deliver(t, createdPayload(fx.orgID), true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	if _, err := fx.users.GetByExternalID(context.Background(), "user_2abc"); err != nil {
		t.Fatalf("user not provisioned: %v", err)
	}
	if len(fx.deliveries.records) != 1 || fx.deliveries.records[0][2] != "handled" {
		t.Errorf("delivery audit = %v, want one handled record", fx.deliveries.records)
	}
}

func TestWebhookMalformedEnvelope(t *testing.T) {
	fx := newWebhookFixture(t)

	rec := fx.deliver(t, []byte(`{"type": "user.created", "data": `), true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestWebhookIgnoresUnknownEventType(t *testing.T) {
	fx := newWebhookFixture(t)

	rec := fx.deliver(t, []byte(`{"type": "session.created", "data": {"id": "sess_1"}}`), true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(fx.deliveries.records) != 1 || fx.deliveries.records[0][2] != "ignored" {
		t.Errorf("delivery audit = %v, want one ignored record", fx.deliveries.records)
	}
}

func TestWebhookMissingTenantIsUnprocessable(t *testing.T) {
	fx := newWebhookFixture(t)

	payload := []byte(`{
		"type": "user.created",
		"data": {
			"id": "user_2abc",
			"email_addresses": [{"id": "idn_1", "email_address": "jane@acme.test"}]
		}
	}`)
	rec := fx.deliver(t, payload, true)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
	if len(fx.deliveries.records) != 1 || fx.deliveries.records[0][2] != "failed: identity event carries no organization context" {
		t.Errorf("delivery audit = %v, want one failed record", fx.deliveries.records)
	}
}

func TestWebhookDeleteForUnknownSubjectAcks(t *testing.T) {
	fx := newWebhookFixture(t)

	rec := fx.deliver(t, []byte(`{"type": "user.deleted", "data": {"id": "user_gone"}}`), true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
