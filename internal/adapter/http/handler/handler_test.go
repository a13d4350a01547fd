package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marketplace-settlement/internal/adapter/http/middleware"
	"marketplace-settlement/internal/core/domain"
	"marketplace-settlement/internal/core/ports"
	"marketplace-settlement/internal/core/ports/mocks"
	"marketplace-settlement/internal/service"
	"marketplace-settlement/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const webhookSecret = "whsec_test"

type routerTestDeps struct {
	router    *gin.Engine
	events    *mocks.MockPaymentEventHandler
	splitter  *mocks.MockOrderSplitter
	ledger    *mocks.MockWalletLedger
	activator *mocks.MockWalletActivator
	refresher *mocks.MockRateRefresher
	tasks     *service.TaskTracker[*domain.SplitResult]
}

func setupRouter(t *testing.T) *routerTestDeps {
	ctrl := gomock.NewController(t)
	d := &routerTestDeps{
		events:    mocks.NewMockPaymentEventHandler(ctrl),
		splitter:  mocks.NewMockOrderSplitter(ctrl),
		ledger:    mocks.NewMockWalletLedger(ctrl),
		activator: mocks.NewMockWalletActivator(ctrl),
		refresher: mocks.NewMockRateRefresher(ctrl),
		tasks:     service.NewTaskTracker[*domain.SplitResult](time.Hour),
	}
	d.router = SetupRouter(RouterDeps{
		Events:        d.events,
		Splitter:      d.splitter,
		SplitTasks:    d.tasks,
		Ledger:        d.ledger,
		Activator:     d.activator,
		Refresher:     d.refresher,
		SigSvc:        service.NewHMACSignatureService(),
		WebhookSecret: webhookSecret,
		OpenAPISpec:   []byte("openapi: 3.0.3\n"),
		Mode:          gin.TestMode,
		Logger:        zerolog.Nop(),
	})
	return d
}

func (d *routerTestDeps) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	code, _ := resp["error_code"].(string)
	return code
}

func signedWebhook(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", strings.NewReader(body))
	req.Header.Set(middleware.DefaultSignatureHeader, service.NewHMACSignatureService().Sign(webhookSecret, []byte(body)))
	return req
}

// --- Webhooks ---

func TestReceivePayment_Stored(t *testing.T) {
	d := setupRouter(t)
	body := `{"id":"evt_1","event_type":"FUND_WALLET"}`

	d.events.EXPECT().Handle(gomock.Any(), []byte(body)).Return(domain.RecordStored, nil)

	w := d.do(signedWebhook(body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stored", decodeData(t, w)["outcome"])
}

func TestReceivePayment_Duplicate(t *testing.T) {
	d := setupRouter(t)
	body := `{"id":"evt_1","event_type":"FUND_WALLET"}`

	d.events.EXPECT().Handle(gomock.Any(), []byte(body)).Return(domain.RecordDuplicate, nil)

	w := d.do(signedWebhook(body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "duplicate", decodeData(t, w)["outcome"])
}

func TestReceivePayment_BadSignature(t *testing.T) {
	d := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set(middleware.DefaultSignatureHeader, "sha256=00")
	w := d.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperror.CodeInvalidSignature, errorCode(t, w))
}

func TestReceivePayment_InsufficientFunds(t *testing.T) {
	d := setupRouter(t)
	body := `{"id":"evt_9","event_type":"SPEND_WALLET"}`

	d.events.EXPECT().Handle(gomock.Any(), []byte(body)).Return(domain.RecordOutcome(""), apperror.ErrInsufficientFunds())

	w := d.do(signedWebhook(body))

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, apperror.CodeInsufficientFunds, errorCode(t, w))
}

func TestReceivePayment_NoSecretSkipsSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	events := mocks.NewMockPaymentEventHandler(ctrl)
	router := SetupRouter(RouterDeps{
		Events:     events,
		SplitTasks: service.NewTaskTracker[*domain.SplitResult](time.Hour),
		Mode:       gin.TestMode,
		Logger:     zerolog.Nop(),
	})
	events.EXPECT().Handle(gomock.Any(), gomock.Any()).Return(domain.RecordStored, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusOK, w.Code)
}

// --- Orders ---

func TestOrderPlaced_StartsSplit(t *testing.T) {
	d := setupRouter(t)
	orderID := uuid.New()
	childID := domain.ChildOrderID(orderID, uuid.New())

	d.splitter.EXPECT().Split(gomock.Any(), orderID).
		Return(&domain.SplitResult{ParentOrderID: orderID, Message: "Split into 1 child orders", ChildOrderIDs: []uuid.UUID{childID}}, nil)

	body, _ := json.Marshal(map[string]string{"order_id": orderID.String(), "source": "storefront"})
	w := d.do(httptest.NewRequest(http.MethodPost, "/api/v1/events/order-placed", bytes.NewReader(body)))

	assert.Equal(t, http.StatusAccepted, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, orderID.String(), data["order_id"])
	assert.Equal(t, true, data["started"])

	require.NoError(t, d.tasks.Wait(context.Background()))
	task, ok := d.tasks.Get(orderID.String())
	require.True(t, ok)
	assert.Equal(t, service.TaskSucceeded, task.Status().State)
}

func TestOrderPlaced_Validation(t *testing.T) {
	d := setupRouter(t)

	for _, body := range []string{`{}`, `{"order_id":"order_1"}`, `not json`} {
		w := d.do(httptest.NewRequest(http.MethodPost, "/api/v1/events/order-placed", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, apperror.CodeValidation, errorCode(t, w))
	}
}

func TestOrderPlaced_JoinsRunningSplit(t *testing.T) {
	d := setupRouter(t)
	orderID := uuid.New()
	release := make(chan struct{})

	d.splitter.EXPECT().Split(gomock.Any(), orderID).
		DoAndReturn(func(context.Context, uuid.UUID) (*domain.SplitResult, error) {
			<-release
			return &domain.SplitResult{ParentOrderID: orderID}, nil
		}).Times(1)

	body := `{"order_id":"` + orderID.String() + `"}`
	first := d.do(httptest.NewRequest(http.MethodPost, "/api/v1/events/order-placed", strings.NewReader(body)))
	second := d.do(httptest.NewRequest(http.MethodPost, "/api/v1/events/order-placed", strings.NewReader(body)))
	close(release)
	require.NoError(t, d.tasks.Wait(context.Background()))

	assert.Equal(t, true, decodeData(t, first)["started"])
	assert.Equal(t, false, decodeData(t, second)["started"])
	assert.Equal(t, "running", decodeData(t, second)["state"])
}

func TestSplitStatus_WithRun(t *testing.T) {
	d := setupRouter(t)
	orderID := uuid.New()
	vendorID := uuid.New()
	progress := []domain.SplitProgress{{
		ParentOrderID: orderID,
		VendorID:      vendorID,
		ChildOrderID:  domain.ChildOrderID(orderID, vendorID),
		Stage:         domain.SplitStageCredited,
	}}

	failedVendor := uuid.New()
	splitErr := apperror.ErrPartialSplitFailure(apperror.ErrUpstreamFailure("payment gateway", errors.New("timeout"))).
		WithDetails(domain.SplitFailureDetails{FailedVendor: failedVendor, CompletedVendors: []uuid.UUID{vendorID}})
	d.splitter.EXPECT().Split(gomock.Any(), orderID).Return(nil, splitErr)
	d.tasks.Start(context.Background(), orderID.String(), func(ctx context.Context) (*domain.SplitResult, error) {
		return d.splitter.Split(ctx, orderID)
	})
	require.NoError(t, d.tasks.Wait(context.Background()))

	d.splitter.EXPECT().Progress(gomock.Any(), orderID).Return(progress, nil)

	w := d.do(httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID.String()+"/split", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	require.Len(t, data["progress"], 1)
	assert.Equal(t, "credited", data["progress"].([]interface{})[0].(map[string]interface{})["stage"])
	run := data["run"].(map[string]interface{})
	assert.Equal(t, "failed", run["state"])
	assert.NotEmpty(t, run["ended_at"])
	assert.Contains(t, run["error"], "timeout")
	assert.Equal(t, "ORD_001", run["error_code"])
	details := run["details"].(map[string]interface{})
	assert.Equal(t, failedVendor.String(), details["failed_vendor"])
	assert.Equal(t, []interface{}{vendorID.String()}, details["completed_vendors"])
}

func TestSplitStatus_NoRun(t *testing.T) {
	d := setupRouter(t)
	orderID := uuid.New()

	d.splitter.EXPECT().Progress(gomock.Any(), orderID).Return([]domain.SplitProgress{}, nil)

	w := d.do(httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID.String()+"/split", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Empty(t, data["progress"])
	assert.Nil(t, data["run"])
}

func TestSplitStatus_InvalidID(t *testing.T) {
	d := setupRouter(t)

	w := d.do(httptest.NewRequest(http.MethodGet, "/api/v1/orders/nope/split", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChildren(t *testing.T) {
	d := setupRouter(t)
	orderID := uuid.New()
	vendorID := uuid.New()
	childID := domain.ChildOrderID(orderID, vendorID)

	d.splitter.EXPECT().Children(gomock.Any(), orderID).Return([]domain.Order{{
		ID:       childID,
		VendorID: &vendorID,
		Currency: "usd",
		Total:    8100,
		Status:   domain.OrderStatusPending,
		Items:    []domain.LineItem{{ID: uuid.New()}, {ID: uuid.New()}},
	}}, nil)

	w := d.do(httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID.String()+"/children", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, childID.String(), resp.Data[0]["id"])
	assert.Equal(t, vendorID.String(), resp.Data[0]["vendor_id"])
	assert.Equal(t, float64(8100), resp.Data[0]["total"])
	assert.Equal(t, float64(2), resp.Data[0]["items"])
}

// --- Wallets ---

func TestGetSummary_Success(t *testing.T) {
	d := setupRouter(t)
	userID := uuid.New()
	wallet := &domain.Wallet{
		ID:           uuid.New(),
		UserID:       userID,
		TotalBalance: map[string]decimal.Decimal{"NGN": decimal.RequireFromString("1500.5")},
	}

	d.ledger.EXPECT().Summary(gomock.Any(), userID).Return(&ports.WalletSummary{
		Wallet: wallet,
		Accounts: []domain.WalletAccount{{
			ID:             uuid.New(),
			WalletID:       wallet.ID,
			Currency:       "NGN",
			AccountNumbers: []string{"MPS0123456789"},
			Balance:        decimal.RequireFromString("1500.5"),
		}},
	}, nil)

	w := d.do(httptest.NewRequest(http.MethodGet, "/api/v1/wallets/"+userID.String(), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, userID.String(), data["user_id"])
	assert.Equal(t, "1500.50", data["total_balance"].(map[string]interface{})["NGN"])
	account := data["accounts"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "1500.50", account["balance"])
	assert.Equal(t, []interface{}{"MPS0123456789"}, account["account_numbers"])
}

func TestGetSummary_CurrencyFilter(t *testing.T) {
	d := setupRouter(t)
	userID := uuid.New()
	wallet := &domain.Wallet{
		ID:     uuid.New(),
		UserID: userID,
		TotalBalance: map[string]decimal.Decimal{
			"NGN": decimal.RequireFromString("10"),
			"USD": decimal.RequireFromString("2.5"),
		},
	}
	d.ledger.EXPECT().Summary(gomock.Any(), userID).Return(&ports.WalletSummary{
		Wallet: wallet,
		Accounts: []domain.WalletAccount{
			{ID: uuid.New(), WalletID: wallet.ID, Currency: "NGN", Balance: decimal.RequireFromString("10")},
			{ID: uuid.New(), WalletID: wallet.ID, Currency: "USD", Balance: decimal.RequireFromString("2.5")},
		},
	}, nil)

	w := d.do(httptest.NewRequest(http.MethodGet, "/api/v1/wallets/"+userID.String()+"?currency=usd", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, map[string]interface{}{"USD": "2.50"}, data["total_balance"])
	require.Len(t, data["accounts"], 1)
	assert.Equal(t, "USD", data["accounts"].([]interface{})[0].(map[string]interface{})["currency"])
}

func TestGetSummary_InvalidCurrency(t *testing.T) {
	d := setupRouter(t)

	w := d.do(httptest.NewRequest(http.MethodGet, "/api/v1/wallets/"+uuid.NewString()+"?currency=dollars", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeValidation, errorCode(t, w))
}

func TestGetSummary_NotFound(t *testing.T) {
	d := setupRouter(t)
	userID := uuid.New()

	d.ledger.EXPECT().Summary(gomock.Any(), userID).Return(nil, apperror.ErrNotFound("wallet"))

	w := d.do(httptest.NewRequest(http.MethodGet, "/api/v1/wallets/"+userID.String(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.CodeNotFound, errorCode(t, w))
}

func TestActivateVendor_Success(t *testing.T) {
	d := setupRouter(t)
	userID := uuid.New()
	account := &domain.WalletAccount{ID: uuid.New(), WalletID: uuid.New(), Currency: "KES"}

	d.activator.EXPECT().ActivateVendorWallet(gomock.Any(), domain.Caller{UserID: userID}).Return(account, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/vendors/wallet/activate", nil)
	req.Header.Set(middleware.HeaderUserID, userID.String())
	w := d.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "KES", data["currency"])
	assert.Equal(t, "0.00", data["balance"])
	assert.Equal(t, []interface{}{}, data["account_numbers"])
}

func TestActivateVendor_MissingCaller(t *testing.T) {
	d := setupRouter(t)

	w := d.do(httptest.NewRequest(http.MethodPost, "/api/v1/vendors/wallet/activate", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Rates ---

func TestRefreshRates_DefaultWindow(t *testing.T) {
	d := setupRouter(t)

	d.refresher.EXPECT().Refresh(gomock.Any(), time.Time{}, time.Time{}).Return(&ports.RefreshReport{
		Rates:       domain.RateTable{"USD": 1, "EUR": 0.92},
		Propagation: &ports.PropagationReport{VariantsUpdated: 3, PricesWritten: 12},
	}, nil)

	w := d.do(httptest.NewRequest(http.MethodPost, "/api/v1/rates/refresh", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, 0.92, data["rates"].(map[string]interface{})["EUR"])
	assert.Equal(t, float64(12), data["propagation"].(map[string]interface{})["prices_written"])
}

func TestRefreshRates_ExplicitWindow(t *testing.T) {
	d := setupRouter(t)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)

	d.refresher.EXPECT().Refresh(gomock.Any(), start, end).Return(nil, apperror.ErrUpstreamFailure("rate source", errors.New("down")))

	w := d.do(httptest.NewRequest(http.MethodPost, "/api/v1/rates/refresh", strings.NewReader(`{"start":"2026-03-01","end":"2026-03-07"}`)))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRefreshRates_BadDate(t *testing.T) {
	d := setupRouter(t)

	w := d.do(httptest.NewRequest(http.MethodPost, "/api/v1/rates/refresh", strings.NewReader(`{"start":"March 1"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Health & docs ---

func TestHealthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	db := mocks.NewMockHealthChecker(ctrl)
	cache := mocks.NewMockHealthChecker(ctrl)
	db.EXPECT().Name().Return("postgresql").AnyTimes()
	db.EXPECT().Ping(gomock.Any()).Return(nil)
	cache.EXPECT().Name().Return("redis").AnyTimes()
	cache.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
	HealthCheck(db, cache)(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestHealthCheck_NoDependencies(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck()(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestSwagger(t *testing.T) {
	d := setupRouter(t)

	w := d.do(httptest.NewRequest(http.MethodGet, "/swagger", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger-ui")

	w = d.do(httptest.NewRequest(http.MethodGet, "/swagger/spec", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi")
}

func TestSwaggerSpec_NotLoaded(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SwaggerSpec(nil)(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
