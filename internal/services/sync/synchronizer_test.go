package sync_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/splashngo/dashboard-service/internal/adapters/square"
	"github.com/splashngo/dashboard-service/internal/domain/models"
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

// noopEnricher returns empty enrichment for every payment.
type noopEnricher struct{}

func (noopEnricher) Enrich(ctx context.Context, p *square.Payment) normalize.PaymentEnrichment {
	return normalize.PaymentEnrichment{}
}

func strPtr(s string) *string { return &s }

func makeCustomers(n int) []square.Customer {
	out := make([]square.Customer, n)
	for i := range out {
		out[i] = square.Customer{ID: strPtr(fmt.Sprintf("CUST%03d", i))}
	}
	return out
}

func newSynchronizer(provider *MockProviderClient, custs *MockCustomerRepository, txns *MockTransactionRepository) *syncsvc.Synchronizer {
	return syncsvc.NewSynchronizer(provider, custs, txns, noopEnricher{}, zap.NewNop())
}

func TestSyncCustomersChunksAndPaginates(t *testing.T) {
	provider := new(MockProviderClient)
	custs := new(MockCustomerRepository)
	txns := new(MockTransactionRepository)

	provider.On("ListCustomers", mock.Anything, "").Return(makeCustomers(60), "page2", nil).Once()
	provider.On("ListCustomers", mock.Anything, "page2").Return(makeCustomers(15), "", nil).Once()

	var chunkSizes []int
	custs.On("BulkUpsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		chunkSizes = append(chunkSizes, len(args.Get(1).([]models.Customer)))
	}).Return(nil)

	result, err := newSynchronizer(provider, custs, txns).SyncCustomers(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 75, result.TotalCount)
	assert.Equal(t, 75, result.SyncedCount)
	assert.Zero(t, result.ErrorCount)
	assert.Equal(t, []int{50, 25}, chunkSizes)
	provider.AssertExpectations(t)
}

func TestSyncCustomersFailedChunkCountsAllMembers(t *testing.T) {
	provider := new(MockProviderClient)
	custs := new(MockCustomerRepository)
	txns := new(MockTransactionRepository)

	// 102 customers: first chunk of 50 fails, the remaining 52 succeed.
	provider.On("ListCustomers", mock.Anything, "").Return(makeCustomers(102), "", nil).Once()
	custs.On("BulkUpsert", mock.Anything, mock.MatchedBy(func(chunk []models.Customer) bool {
		return len(chunk) == 50 && chunk[0].SquareCustomerID == "CUST000"
	})).Return(errors.New("db down")).Once()
	custs.On("BulkUpsert", mock.Anything, mock.Anything).Return(nil)

	result, err := newSynchronizer(provider, custs, txns).SyncCustomers(context.Background())
	require.NoError(t, err)

	// 50 errors out of 102: under half, so still a success.
	assert.True(t, result.Success)
	assert.Equal(t, 102, result.TotalCount)
	assert.Equal(t, 52, result.SyncedCount)
	assert.Equal(t, 50, result.ErrorCount)
}

func TestSyncCustomersEmptyListingIsSuccess(t *testing.T) {
	provider := new(MockProviderClient)
	custs := new(MockCustomerRepository)
	txns := new(MockTransactionRepository)

	provider.On("ListCustomers", mock.Anything, "").Return([]square.Customer{}, "", nil).Once()

	result, err := newSynchronizer(provider, custs, txns).SyncCustomers(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Zero(t, result.TotalCount)
	assert.Zero(t, result.ErrorCount)
	assert.Equal(t, "同期対象の顧客が見つかりませんでした", result.Message)
	custs.AssertNotCalled(t, "BulkUpsert", mock.Anything, mock.Anything)
}

func TestSyncCustomersJustUnderHalfErrorsSucceeds(t *testing.T) {
	provider := new(MockProviderClient)
	custs := new(MockCustomerRepository)
	txns := new(MockTransactionRepository)

	// 101 customers with the first chunk of 50 failing: 50 errors is strictly
	// under half of 101, so the run still succeeds.
	provider.On("ListCustomers", mock.Anything, "").Return(makeCustomers(101), "", nil).Once()
	custs.On("BulkUpsert", mock.Anything, mock.MatchedBy(func(chunk []models.Customer) bool {
		return chunk[0].SquareCustomerID == "CUST000"
	})).Return(errors.New("db down")).Once()
	custs.On("BulkUpsert", mock.Anything, mock.Anything).Return(nil)

	result, err := newSynchronizer(provider, custs, txns).SyncCustomers(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 101, result.TotalCount)
	assert.Equal(t, 51, result.SyncedCount)
	assert.Equal(t, 50, result.ErrorCount)
}

func TestSyncCustomersHalfErrorsIsFailure(t *testing.T) {
	provider := new(MockProviderClient)
	custs := new(MockCustomerRepository)
	txns := new(MockTransactionRepository)

	// Exactly half failing must not pass: 50 errors of 100 is a failed run.
	provider.On("ListCustomers", mock.Anything, "").Return(makeCustomers(100), "", nil).Once()
	custs.On("BulkUpsert", mock.Anything, mock.MatchedBy(func(chunk []models.Customer) bool {
		return chunk[0].SquareCustomerID == "CUST000"
	})).Return(errors.New("db down")).Once()
	custs.On("BulkUpsert", mock.Anything, mock.Anything).Return(nil)

	result, err := newSynchronizer(provider, custs, txns).SyncCustomers(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 100, result.TotalCount)
	assert.Equal(t, 50, result.ErrorCount)
}

func TestSyncTransactionsSkipsExisting(t *testing.T) {
	provider := new(MockProviderClient)
	custs := new(MockCustomerRepository)
	txns := new(MockTransactionRepository)

	provider.On("ListPayments", mock.Anything, mock.Anything).Return([]square.Payment{
		{ID: strPtr("P1"), TotalMoney: &square.Money{}},
		{ID: strPtr("P2"), TotalMoney: &square.Money{}},
		{ID: strPtr("P3"), TotalMoney: &square.Money{}},
	}, nil).Once()

	txns.On("ExistsByPaymentID", mock.Anything, "P1").Return(true, nil)
	txns.On("ExistsByPaymentID", mock.Anything, "P2").Return(false, nil)
	txns.On("ExistsByPaymentID", mock.Anything, "P3").Return(false, nil)
	txns.On("Insert", mock.Anything, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.PaymentID == "P2" || txn.PaymentID == "P3"
	})).Return(nil).Twice()

	result, err := newSynchronizer(provider, custs, txns).SyncTransactions(context.Background(), square.ListPaymentsParams{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Count)
	txns.AssertExpectations(t)
}

func TestSyncTransactionsContinuesPastInsertFailure(t *testing.T) {
	provider := new(MockProviderClient)
	custs := new(MockCustomerRepository)
	txns := new(MockTransactionRepository)

	provider.On("ListPayments", mock.Anything, mock.Anything).Return([]square.Payment{
		{ID: strPtr("P1"), TotalMoney: &square.Money{}},
		{ID: strPtr("P2"), TotalMoney: &square.Money{}},
	}, nil).Once()

	txns.On("ExistsByPaymentID", mock.Anything, mock.Anything).Return(false, nil)
	txns.On("Insert", mock.Anything, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.PaymentID == "P1"
	})).Return(errors.New("db down")).Once()
	txns.On("Insert", mock.Anything, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.PaymentID == "P2"
	})).Return(nil).Once()

	result, err := newSynchronizer(provider, custs, txns).SyncTransactions(context.Background(), square.ListPaymentsParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
}
