package handler

import (
	"io"

	"marketplace-settlement/internal/adapter/http/dto"
	"marketplace-settlement/internal/core/ports"
	"marketplace-settlement/pkg/apperror"
	"marketplace-settlement/pkg/response"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives payment provider events.
type WebhookHandler struct {
	events ports.PaymentEventHandler
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(events ports.PaymentEventHandler) *WebhookHandler {
	return &WebhookHandler{events: events}
}

// ReceivePayment handles POST /api/v1/webhooks/payments. Re-deliveries of a
// processed event are acknowledged with outcome "duplicate".
func (h *WebhookHandler) ReceivePayment(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, apperror.Validation("cannot read request body"))
		return
	}

	outcome, err := h.events.Handle(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.WebhookAckResponse{Outcome: string(outcome)})
}
