package provisioning

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"hris_backend/platform/httpkit"
	"hris_backend/platform/logger"
	"hris_backend/platform/metrics"

	"github.com/gin-gonic/gin"
)

// Recognized event envelope types. Unrecognized types are acknowledged with
// 200 and ignored so the provider never retries events we do not consume.
const (
	eventUserCreated = "user.created"
	eventUserUpdated = "user.updated"
	eventUserDeleted = "user.deleted"
)

const maxPayloadBytes = 1 << 20

type eventEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Handler handles identity provider webhook HTTP requests.
type Handler struct {
	service  *Service
	verifier *SignatureVerifier
	met      *metrics.Metrics
	log      *logger.Logger
}

// NewHandler creates a new webhook handler.
func NewHandler(service *Service, verifier *SignatureVerifier, met *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{service: service, verifier: verifier, met: met, log: log}
}

// HandleIdentityEvent processes an inbound identity provider delivery.
// POST /api/v1/webhooks/identity
// The signature covers the byte-exact body as transmitted, so the raw body is
// read before any JSON decoding.
func (h *Handler) HandleIdentityEvent(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPayloadBytes))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unable to read payload")
		return
	}

	eventID := c.GetHeader(HeaderWebhookID)
	timestamp := c.GetHeader(HeaderWebhookTimestamp)
	signatures := c.GetHeader(HeaderWebhookSignature)

	if err := h.verifier.Verify(payload, eventID, timestamp, signatures, time.Now()); err != nil {
		h.observe("rejected_signature")
		h.log.WebhookEvent(eventID, "", "rejected: "+err.Error())
		httpkit.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	var envelope eventEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		h.observe("rejected_malformed")
		httpkit.Error(c, http.StatusBadRequest, "malformed event envelope")
		return
	}

	ctx := c.Request.Context()

	switch envelope.Type {
	case eventUserCreated, eventUserUpdated:
		var ext ExternalUser
		if err := json.Unmarshal(envelope.Data, &ext); err != nil || ext.ID == "" {
			h.observe("rejected_malformed")
			httpkit.Error(c, http.StatusBadRequest, "malformed event data")
			return
		}

		if envelope.Type == eventUserCreated {
			_, err = h.service.HandleUserCreated(ctx, ext)
		} else {
			_, err = h.service.HandleUserUpdated(ctx, ext)
		}
		if err != nil {
			h.observe("failed")
			h.service.RecordDelivery(ctx, eventID, envelope.Type, "failed: "+err.Error())
			h.log.WebhookEvent(eventID, envelope.Type, "failed: "+err.Error())
			httpkit.HandleError(c, err)
			return
		}

	case eventUserDeleted:
		var subject struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(envelope.Data, &subject); err != nil || subject.ID == "" {
			h.observe("rejected_malformed")
			httpkit.Error(c, http.StatusBadRequest, "malformed event data")
			return
		}
		if err := h.service.HandleUserDeleted(ctx, subject.ID); err != nil {
			h.observe("failed")
			h.service.RecordDelivery(ctx, eventID, envelope.Type, "failed: "+err.Error())
			h.log.WebhookEvent(eventID, envelope.Type, "failed: "+err.Error())
			httpkit.HandleError(c, err)
			return
		}

	default:
		h.observe("ignored")
		h.service.RecordDelivery(ctx, eventID, envelope.Type, "ignored")
		c.JSON(http.StatusOK, gin.H{"message": "event ignored"})
		return
	}

	h.observe("handled")
	h.service.RecordDelivery(ctx, eventID, envelope.Type, "handled")
	h.log.WebhookEvent(eventID, envelope.Type, "handled")
	c.JSON(http.StatusOK, gin.H{"message": "event handled"})
}

func (h *Handler) observe(outcome string) {
	if h.met != nil {
		h.met.WebhookDeliveries.WithLabelValues(outcome).Inc()
	}
}
