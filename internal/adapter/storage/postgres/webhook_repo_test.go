package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"marketplace-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWebhook() *domain.PaymentWebhook {
	return &domain.PaymentWebhook{
		ID:         uuid.New(),
		WebhookID:  "evt_123",
		Payload:    json.RawMessage(`{"id":"evt_123","event_type":"FUND_WALLET"}`),
		ReceivedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestWebhookRepo_Insert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWebhookRepo(mock)
	w := newTestWebhook()

	mock.ExpectExec("INSERT INTO payment_webhooks .+ ON CONFLICT \\(webhook_id\\) DO NOTHING").
		WithArgs(w.ID, "evt_123", []byte(w.Payload), w.ReceivedAt, false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	stored, err := repo.Insert(context.Background(), w)
	require.NoError(t, err)
	assert.True(t, stored)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepo_Insert_Redelivery(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWebhookRepo(mock)
	w := newTestWebhook()

	mock.ExpectExec("INSERT INTO payment_webhooks").
		WithArgs(w.ID, "evt_123", []byte(w.Payload), w.ReceivedAt, false).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	stored, err := repo.Insert(context.Background(), w)
	require.NoError(t, err)
	assert.False(t, stored)
}

func TestWebhookRepo_Insert_DBError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWebhookRepo(mock)
	w := newTestWebhook()

	mock.ExpectExec("INSERT INTO payment_webhooks").
		WithArgs(w.ID, "evt_123", []byte(w.Payload), w.ReceivedAt, false).
		WillReturnError(errors.New("disk full"))

	_, err = repo.Insert(context.Background(), w)
	assert.ErrorContains(t, err, "insert payment webhook")
}

func TestWebhookRepo_MarkProcessed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWebhookRepo(mock)

	mock.ExpectExec("UPDATE payment_webhooks SET processed = TRUE").
		WithArgs("evt_123").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE payment_webhooks SET processed = TRUE").
		WithArgs("evt_unknown").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	found, err := repo.MarkProcessed(context.Background(), "evt_123")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.MarkProcessed(context.Background(), "evt_unknown")
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepo_GetByWebhookID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWebhookRepo(mock)
	w := newTestWebhook()

	mock.ExpectQuery("SELECT .+ FROM payment_webhooks WHERE webhook_id").
		WithArgs("evt_123").
		WillReturnRows(pgxmock.NewRows([]string{"id", "webhook_id", "payload", "received_at", "processed"}).
			AddRow(w.ID, "evt_123", []byte(w.Payload), w.ReceivedAt, true))

	result, err := repo.GetByWebhookID(context.Background(), "evt_123")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Processed)
	assert.JSONEq(t, string(w.Payload), string(result.Payload))
	assert.NoError(t, mock.ExpectationsWereMet())
}
