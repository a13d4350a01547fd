package service

import (
	"context"
	"encoding/json"
	"fmt"

	"marketplace-settlement/internal/core/domain"
	"marketplace-settlement/internal/core/ports"
	"marketplace-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentEventHandlerImpl implements ports.PaymentEventHandler.
type PaymentEventHandlerImpl struct {
	webhooks ports.WebhookLedger
	payments ports.PaymentProcessor
	log      zerolog.Logger
}

// NewPaymentEventHandler creates a new PaymentEventHandlerImpl.
func NewPaymentEventHandler(webhooks ports.WebhookLedger, payments ports.PaymentProcessor, log zerolog.Logger) *PaymentEventHandlerImpl {
	return &PaymentEventHandlerImpl{webhooks: webhooks, payments: payments, log: log}
}

// Handle records a payment event in the webhook ledger and applies it to the
// user's wallet. A re-delivered event that was already processed is reported
// as a duplicate and changes nothing. One that was recorded but never
// processed is applied again under the same transaction id.
func (h *PaymentEventHandlerImpl) Handle(ctx context.Context, payload []byte) (domain.RecordOutcome, error) {
	var event domain.PaymentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return "", apperror.Validation("malformed payment event")
	}
	if event.ID == "" {
		return "", apperror.Validation("payment event id is required")
	}
	if event.UserID == uuid.Nil {
		return "", apperror.Validation("payment event user_id is required")
	}
	txType, ok := event.TransactionType()
	if !ok {
		return "", apperror.Validation(fmt.Sprintf("unsupported event type %q", event.EventType))
	}

	outcome, err := h.webhooks.Record(ctx, event.ID, payload)
	if err != nil {
		return "", err
	}
	if outcome == domain.RecordDuplicate {
		stored, err := h.webhooks.Get(ctx, event.ID)
		if err != nil {
			return "", err
		}
		if stored == nil || stored.Processed {
			return domain.RecordDuplicate, nil
		}
		h.log.Info().Str("webhook_id", event.ID).Msg("re-applying unprocessed payment event")
	}

	entry, err := h.payments.Settle(ctx, ports.SettleRequest{
		UserID:        event.UserID,
		TransactionID: domain.WebhookTransactionID(event.ID),
		Amount:        event.Amount,
		Currency:      event.Currency,
		Type:          txType,
		Metadata: map[string]string{
			"webhook_id": event.ID,
			"event_type": string(event.EventType),
		},
	})
	if err != nil {
		if isTerminal(err) {
			h.log.Warn().Err(err).Str("webhook_id", event.ID).Msg("payment event rejected")
			if markErr := h.webhooks.MarkProcessed(ctx, event.ID); markErr != nil {
				h.log.Error().Err(markErr).Str("webhook_id", event.ID).Msg("failed to mark rejected event processed")
			}
		}
		return "", err
	}

	if err := h.webhooks.MarkProcessed(ctx, event.ID); err != nil {
		return "", err
	}

	h.log.Info().
		Str("webhook_id", event.ID).
		Str("tx_id", entry.TransactionID).
		Str("type", string(txType)).
		Msg("payment event applied")
	return outcome, nil
}

// isTerminal reports errors that a re-delivery cannot fix.
func isTerminal(err error) bool {
	return apperror.HasCode(err, apperror.CodeInsufficientFunds) ||
		apperror.HasCode(err, apperror.CodeInvalidAmount) ||
		apperror.HasCode(err, apperror.CodeNotFound) ||
		apperror.HasCode(err, apperror.CodeValidation)
}
