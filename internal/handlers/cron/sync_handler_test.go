package cron_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/splashngo/dashboard-service/internal/adapters/square"
	"github.com/splashngo/dashboard-service/internal/domain/models"
	"github.com/splashngo/dashboard-service/internal/handlers/cron"
	"github.com/splashngo/dashboard-service/internal/normalize"
	syncsvc "github.com/splashngo/dashboard-service/internal/services/sync"
)

// MockProviderClient mocks the provider API client
type MockProviderClient struct {
	mock.Mock
}

func (m *MockProviderClient) ListCustomers(ctx context.Context, cursor string) ([]square.Customer, string, error) {
	args := m.Called(ctx, cursor)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]square.Customer), args.String(1), args.Error(2)
}

func (m *MockProviderClient) GetCustomerInfo(ctx context.Context, customerID string) (*square.CustomerInfo, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*square.CustomerInfo), args.Error(1)
}

func (m *MockProviderClient) ListPayments(ctx context.Context, params square.ListPaymentsParams) ([]square.Payment, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]square.Payment), args.Error(1)
}

func (m *MockProviderClient) GetOrderItemNames(ctx context.Context, orderID string) (string, error) {
	args := m.Called(ctx, orderID)
	return args.String(0), args.Error(1)
}

func (m *MockProviderClient) GetLocationName(ctx context.Context, locationID string) (string, error) {
	args := m.Called(ctx, locationID)
	return args.String(0), args.Error(1)
}

// MockCustomerRepository mocks the customer repository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Insert(ctx context.Context, c *models.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) UpdateBySquareID(ctx context.Context, c *models.Customer) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) SoftDelete(ctx context.Context, squareCustomerID string) (int64, error) {
	args := m.Called(ctx, squareCustomerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) BulkUpsert(ctx context.Context, customers []models.Customer) error {
	args := m.Called(ctx, customers)
	return args.Error(0)
}

func (m *MockCustomerRepository) List(ctx context.Context, search string, limit, offset int) ([]models.Customer, int64, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) UpdateByID(ctx context.Context, c *models.Customer) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionRepository mocks the transaction repository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Insert(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) Update(ctx context.Context, txn *models.Transaction) (int64, error) {
	args := m.Called(ctx, txn)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) ExistsByPaymentID(ctx context.Context, paymentID string) (bool, error) {
	args := m.Called(ctx, paymentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) ApplyRefund(ctx context.Context, paymentID string, overlay models.RefundOverlay) (int64, error) {
	args := m.Called(ctx, paymentID, overlay)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) ListBatch(ctx context.Context, storeID *int64, limit, offset int) ([]models.Transaction, error) {
	args := m.Called(ctx, storeID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SumNetTotalBetween(ctx context.Context, storeID *int64, fromDate, toDate string) (decimal.Decimal, error) {
	args := m.Called(ctx, storeID, fromDate, toDate)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type noopEnricher struct{}

func (noopEnricher) Enrich(ctx context.Context, p *square.Payment) normalize.PaymentEnrichment {
	return normalize.PaymentEnrichment{}
}

const testSecret = "cron-secret"

func newHandler(provider *MockProviderClient) *cron.SyncHandler {
	custs := new(MockCustomerRepository)
	txns := new(MockTransactionRepository)
	synchronizer := syncsvc.NewSynchronizer(provider, custs, txns, noopEnricher{}, zap.NewNop())
	return cron.NewSyncHandler(synchronizer, zap.NewNop(), testSecret)
}

func TestSyncCustomersRequiresSecret(t *testing.T) {
	h := newHandler(new(MockProviderClient))

	req := httptest.NewRequest(http.MethodPost, "/cron/sync-customers", nil)
	rec := httptest.NewRecorder()
	h.SyncCustomers(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/cron/sync-customers", nil)
	req.Header.Set("X-Cron-Secret", "wrong")
	rec = httptest.NewRecorder()
	h.SyncCustomers(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSyncCustomersAcceptsHeaderAndBearer(t *testing.T) {
	provider := new(MockProviderClient)
	provider.On("ListCustomers", mock.Anything, "").Return([]square.Customer{}, "", nil)
	h := newHandler(provider)

	req := httptest.NewRequest(http.MethodPost, "/cron/sync-customers", nil)
	req.Header.Set("X-Cron-Secret", testSecret)
	rec := httptest.NewRecorder()
	h.SyncCustomers(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/cron/sync-customers", nil)
	req.Header.Set("Authorization", "Bearer "+testSecret)
	rec = httptest.NewRecorder()
	h.SyncCustomers(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSyncCustomersReportsResult(t *testing.T) {
	provider := new(MockProviderClient)
	provider.On("ListCustomers", mock.Anything, "").Return([]square.Customer{}, "", nil).Once()
	h := newHandler(provider)

	req := httptest.NewRequest(http.MethodPost, "/cron/sync-customers", nil)
	req.Header.Set("X-Cron-Secret", testSecret)
	rec := httptest.NewRecorder()
	h.SyncCustomers(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result syncsvc.CustomerSyncResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Zero(t, result.TotalCount)
}

func TestSyncTransactionsRejectsBadWindow(t *testing.T) {
	h := newHandler(new(MockProviderClient))

	req := httptest.NewRequest(http.MethodPost, "/cron/sync-transactions",
		strings.NewReader(`{"begin_time": "not-a-time"}`))
	req.Header.Set("X-Cron-Secret", testSecret)
	rec := httptest.NewRecorder()
	h.SyncTransactions(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSyncTransactionsGetIsRejected(t *testing.T) {
	h := newHandler(new(MockProviderClient))

	req := httptest.NewRequest(http.MethodGet, "/cron/sync-transactions", nil)
	req.Header.Set("X-Cron-Secret", testSecret)
	rec := httptest.NewRecorder()
	h.SyncTransactions(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
