package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"marketplace-settlement/internal/core/domain"
	"marketplace-settlement/internal/core/ports"
	"marketplace-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WebhookLedgerImpl implements ports.WebhookLedger. The webhook table is the
// source of truth. The seen-cache holds ids already processed and only
// short-circuits their re-delivery.
type WebhookLedgerImpl struct {
	repo    ports.WebhookRepository
	seen    ports.WebhookSeenCache // optional
	seenTTL time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

// NewWebhookLedger creates a new WebhookLedgerImpl.
func NewWebhookLedger(repo ports.WebhookRepository, seen ports.WebhookSeenCache, seenTTL time.Duration, log zerolog.Logger) *WebhookLedgerImpl {
	return &WebhookLedgerImpl{
		repo:    repo,
		seen:    seen,
		seenTTL: seenTTL,
		now:     time.Now,
		log:     log,
	}
}

// Record stores the delivery unless webhookID was recorded before, in which
// case it returns RecordDuplicate and writes nothing.
func (l *WebhookLedgerImpl) Record(ctx context.Context, webhookID string, payload []byte) (domain.RecordOutcome, error) {
	webhookID = strings.TrimSpace(webhookID)
	if webhookID == "" {
		return "", apperror.Validation("webhook id is required")
	}
	if !json.Valid(payload) {
		return "", apperror.Validation("webhook payload must be valid JSON")
	}

	if l.seen != nil {
		seen, err := l.seen.Seen(ctx, webhookID)
		if err != nil {
			l.log.Debug().Err(err).Str("webhook_id", webhookID).Msg("webhook seen-cache read failed")
		} else if seen {
			l.log.Info().Str("webhook_id", webhookID).Msg("duplicate webhook delivery (cached)")
			return domain.RecordDuplicate, nil
		}
	}

	inserted, err := l.repo.Insert(ctx, &domain.PaymentWebhook{
		ID:         uuid.New(),
		WebhookID:  webhookID,
		Payload:    payload,
		ReceivedAt: l.now().UTC(),
		Processed:  false,
	})
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("insert webhook: %w", err))
	}

	if !inserted {
		l.log.Info().Str("webhook_id", webhookID).Msg("duplicate webhook delivery")
		return domain.RecordDuplicate, nil
	}
	l.log.Info().Str("webhook_id", webhookID).Msg("webhook recorded")
	return domain.RecordStored, nil
}

// MarkProcessed flips the processed flag. Unknown ids are ignored because
// deliveries may arrive out of order.
func (l *WebhookLedgerImpl) MarkProcessed(ctx context.Context, webhookID string) error {
	updated, err := l.repo.MarkProcessed(ctx, webhookID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("mark webhook processed: %w", err))
	}
	if !updated {
		l.log.Warn().Str("webhook_id", webhookID).Msg("mark processed for unknown webhook ignored")
		return nil
	}
	l.markSeen(ctx, webhookID)
	return nil
}

// Get returns the stored delivery, or nil.
func (l *WebhookLedgerImpl) Get(ctx context.Context, webhookID string) (*domain.PaymentWebhook, error) {
	w, err := l.repo.GetByWebhookID(ctx, webhookID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get webhook: %w", err))
	}
	return w, nil
}

func (l *WebhookLedgerImpl) markSeen(ctx context.Context, webhookID string) {
	if l.seen == nil {
		return
	}
	if err := l.seen.MarkSeen(ctx, webhookID, l.seenTTL); err != nil {
		l.log.Debug().Err(err).Str("webhook_id", webhookID).Msg("webhook seen-cache write failed")
	}
}
