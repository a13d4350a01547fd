package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"marketplace-settlement/internal/core/domain"
	"marketplace-settlement/internal/core/ports/mocks"
	"marketplace-settlement/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSeenTTL = 24 * time.Hour

type webhookTestDeps struct {
	svc  *WebhookLedgerImpl
	repo *mocks.MockWebhookRepository
	seen *mocks.MockWebhookSeenCache
}

func setupWebhookLedger(t *testing.T) *webhookTestDeps {
	ctrl := gomock.NewController(t)
	d := &webhookTestDeps{
		repo: mocks.NewMockWebhookRepository(ctrl),
		seen: mocks.NewMockWebhookSeenCache(ctrl),
	}
	d.svc = NewWebhookLedger(d.repo, d.seen, testSeenTTL, zerolog.Nop())
	return d
}

var eventPayload = []byte(`{"id":"evt_1","event_type":"FUND_WALLET"}`)

func TestWebhookLedger_Record_Stored(t *testing.T) {
	d := setupWebhookLedger(t)
	ctx := context.Background()

	d.seen.EXPECT().Seen(ctx, "evt_1").Return(false, nil)
	d.repo.EXPECT().Insert(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, w *domain.PaymentWebhook) (bool, error) {
			assert.Equal(t, "evt_1", w.WebhookID)
			assert.JSONEq(t, string(eventPayload), string(w.Payload))
			assert.False(t, w.Processed)
			assert.False(t, w.ReceivedAt.IsZero())
			return true, nil
		})

	outcome, err := d.svc.Record(ctx, "evt_1", eventPayload)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordStored, outcome)
}

func TestWebhookLedger_Record_DuplicateFromStore(t *testing.T) {
	d := setupWebhookLedger(t)
	ctx := context.Background()

	d.seen.EXPECT().Seen(ctx, "evt_1").Return(false, nil)
	d.repo.EXPECT().Insert(ctx, gomock.Any()).Return(false, nil)

	outcome, err := d.svc.Record(ctx, "evt_1", eventPayload)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordDuplicate, outcome)
}

func TestWebhookLedger_Record_DuplicateFromCache(t *testing.T) {
	d := setupWebhookLedger(t)
	ctx := context.Background()

	d.seen.EXPECT().Seen(ctx, "evt_1").Return(true, nil)

	outcome, err := d.svc.Record(ctx, "evt_1", eventPayload)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordDuplicate, outcome)
}

func TestWebhookLedger_Record_CacheDownFallsBackToStore(t *testing.T) {
	d := setupWebhookLedger(t)
	ctx := context.Background()

	d.seen.EXPECT().Seen(ctx, "evt_1").Return(false, errors.New("redis down"))
	d.repo.EXPECT().Insert(ctx, gomock.Any()).Return(true, nil)

	outcome, err := d.svc.Record(ctx, "evt_1", eventPayload)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordStored, outcome)
}

func TestWebhookLedger_Record_Validation(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		payload []byte
	}{
		{"empty id", "  ", eventPayload},
		{"invalid json", "evt_1", []byte(`{"id":`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupWebhookLedger(t)
			_, err := d.svc.Record(context.Background(), tt.id, tt.payload)
			assertAppError(t, err, apperror.CodeValidation)
		})
	}
}

func TestWebhookLedger_Record_StoreError(t *testing.T) {
	d := setupWebhookLedger(t)
	ctx := context.Background()

	d.seen.EXPECT().Seen(ctx, "evt_1").Return(false, nil)
	d.repo.EXPECT().Insert(ctx, gomock.Any()).Return(false, errors.New("db down"))

	_, err := d.svc.Record(ctx, "evt_1", eventPayload)
	assertAppError(t, err, apperror.CodeInternal)
}

func TestWebhookLedger_MarkProcessed(t *testing.T) {
	d := setupWebhookLedger(t)
	ctx := context.Background()

	d.repo.EXPECT().MarkProcessed(ctx, "evt_1").Return(true, nil)
	d.seen.EXPECT().MarkSeen(ctx, "evt_1", testSeenTTL).Return(nil)

	require.NoError(t, d.svc.MarkProcessed(ctx, "evt_1"))
}

func TestWebhookLedger_MarkProcessed_UnknownIsNoop(t *testing.T) {
	d := setupWebhookLedger(t)
	ctx := context.Background()

	d.repo.EXPECT().MarkProcessed(ctx, "evt_404").Return(false, nil)

	require.NoError(t, d.svc.MarkProcessed(ctx, "evt_404"))
}

// memWebhookRepo enforces webhook_id uniqueness like the table's unique index.
type memWebhookRepo struct {
	mu   sync.Mutex
	rows map[string]*domain.PaymentWebhook
}

func (r *memWebhookRepo) Insert(_ context.Context, w *domain.PaymentWebhook) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[w.WebhookID]; ok {
		return false, nil
	}
	r.rows[w.WebhookID] = w
	return true, nil
}

func (r *memWebhookRepo) MarkProcessed(_ context.Context, webhookID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.rows[webhookID]
	if !ok {
		return false, nil
	}
	w.Processed = true
	return true, nil
}

func (r *memWebhookRepo) GetByWebhookID(_ context.Context, webhookID string) (*domain.PaymentWebhook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[webhookID], nil
}

func TestWebhookLedger_ConcurrentRedeliveryStoresOnce(t *testing.T) {
	repo := &memWebhookRepo{rows: make(map[string]*domain.PaymentWebhook)}
	svc := NewWebhookLedger(repo, nil, testSeenTTL, zerolog.Nop())
	ctx := context.Background()

	const deliveries = 8
	outcomes := make([]domain.RecordOutcome, deliveries)
	var wg sync.WaitGroup
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcome, err := svc.Record(ctx, "evt_dup", eventPayload)
			assert.NoError(t, err)
			outcomes[i] = outcome
		}(i)
	}
	wg.Wait()

	stored := 0
	for _, o := range outcomes {
		if o == domain.RecordStored {
			stored++
		}
	}
	assert.Equal(t, 1, stored)
	assert.Len(t, repo.rows, 1)

	require.NoError(t, svc.MarkProcessed(ctx, "evt_dup"))
	w, err := svc.Get(ctx, "evt_dup")
	require.NoError(t, err)
	assert.True(t, w.Processed)
}
