package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentWebhook is the idempotency record of an externally delivered payment event.
type PaymentWebhook struct {
	ID         uuid.UUID       `json:"id"`
	WebhookID  string          `json:"webhook_id"`
	Payload    json.RawMessage `json:"payload"`
	ReceivedAt time.Time       `json:"received_at"`
	Processed  bool            `json:"processed"`
}

// RecordOutcome is the result of recording a webhook delivery.
type RecordOutcome string

const (
	RecordStored    RecordOutcome = "stored"
	RecordDuplicate RecordOutcome = "duplicate"
)

// PaymentEventType names the ledger effect a payment event carries.
type PaymentEventType string

const (
	EventFundWallet  PaymentEventType = "FUND_WALLET"
	EventSpendWallet PaymentEventType = "SPEND_WALLET"
)

// PaymentEvent is the payload shape of provider webhooks that move wallet funds.
type PaymentEvent struct {
	ID        string           `json:"id"`
	EventType PaymentEventType `json:"event_type"`
	UserID    uuid.UUID        `json:"user_id"`
	Amount    decimal.Decimal  `json:"amount"`
	Currency  string           `json:"currency"`
}

// TransactionType maps the event onto a ledger direction.
func (e PaymentEvent) TransactionType() (TransactionType, bool) {
	switch e.EventType {
	case EventFundWallet:
		return TransactionTypeCredit, true
	case EventSpendWallet:
		return TransactionTypeDebit, true
	}
	return "", false
}
