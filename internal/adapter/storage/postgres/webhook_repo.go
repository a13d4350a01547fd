package postgres

import (
	"context"
	"errors"
	"fmt"

	"marketplace-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// WebhookRepo implements ports.WebhookRepository over payment_webhooks.
type WebhookRepo struct {
	pool Pool
}

// NewWebhookRepo creates a new WebhookRepo.
func NewWebhookRepo(pool Pool) *WebhookRepo {
	return &WebhookRepo{pool: pool}
}

// Insert stores a delivery. The unique index on webhook_id turns a
// re-delivery into a no-op reported as false.
func (r *WebhookRepo) Insert(ctx context.Context, w *domain.PaymentWebhook) (bool, error) {
	query := `INSERT INTO payment_webhooks (id, webhook_id, payload, received_at, processed)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (webhook_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query, w.ID, w.WebhookID, []byte(w.Payload), w.ReceivedAt, w.Processed)
	if err != nil {
		return false, wrap("insert payment webhook", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkProcessed flips the processed flag. Returns false when webhookID is unknown.
func (r *WebhookRepo) MarkProcessed(ctx context.Context, webhookID string) (bool, error) {
	query := `UPDATE payment_webhooks SET processed = TRUE WHERE webhook_id = $1`

	tag, err := r.pool.Exec(ctx, query, webhookID)
	if err != nil {
		return false, fmt.Errorf("mark webhook processed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetByWebhookID fetches a stored delivery.
func (r *WebhookRepo) GetByWebhookID(ctx context.Context, webhookID string) (*domain.PaymentWebhook, error) {
	query := `SELECT id, webhook_id, payload, received_at, processed FROM payment_webhooks WHERE webhook_id = $1`

	w := &domain.PaymentWebhook{}
	var payload []byte
	err := r.pool.QueryRow(ctx, query, webhookID).Scan(&w.ID, &w.WebhookID, &payload, &w.ReceivedAt, &w.Processed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment webhook: %w", err)
	}
	w.Payload = payload
	return w, nil
}
