package square_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/splashngo/dashboard-service/internal/adapters/square"
	"github.com/splashngo/dashboard-service/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*square.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := square.DefaultConfig("test-token")
	cfg.BaseURL = server.URL
	cfg.Timeout = 5 * time.Second

	return square.NewClient(cfg, nil, zap.NewNop()), server
}

func TestListCustomersPaging(t *testing.T) {
	var gotAuth, gotVersion, gotCursor string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Square-Version")
		gotCursor = r.URL.Query().Get("cursor")
		w.Write([]byte(`{"customers": [{"id": "C1"}, {"id": "C2"}], "cursor": "next-page"}`))
	})

	customers, cursor, err := client.ListCustomers(context.Background(), "page-2")
	require.NoError(t, err)
	assert.Len(t, customers, 2)
	assert.Equal(t, "next-page", cursor)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "2024-08-21", gotVersion)
	assert.Equal(t, "page-2", gotCursor)
}

func TestGetCustomerInfoNameFallbacks(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"customer": {"id": "C1", "email_address": "taro@example.com", "reference_id": "1001-0001"}}`))
	})

	info, err := client.GetCustomerInfo(context.Background(), "C1")
	require.NoError(t, err)
	assert.Equal(t, "taro@example.com", info.Name)
	assert.Equal(t, "1001-0001", info.ReferenceID)

	client, _ = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"customer": {"id": "C1"}}`))
	})
	info, err = client.GetCustomerInfo(context.Background(), "C1")
	require.NoError(t, err)
	assert.Equal(t, "Unknown Customer", info.Name)
}

func TestGetOrderItemNames(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order": {"id": "O1", "line_items": [
			{"name": "洗車コースA"},
			{"variation_name": "ワックス"},
			{"catalog_object_id": "CAT9"},
			{}
		]}}`))
	})

	names, err := client.GetOrderItemNames(context.Background(), "O1")
	require.NoError(t, err)
	assert.Equal(t, "洗車コースA, ワックス, 商品ID: CAT9", names)
}

func TestGetOrderItemNamesFallbackLabel(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order": {"id": "O1"}}`))
	})

	names, err := client.GetOrderItemNames(context.Background(), "O1")
	require.NoError(t, err)
	assert.Equal(t, "注文ID: O1", names)
}

func TestNon200StatusMapsToBadStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, _, err := client.ListCustomers(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorCodeProviderBadStatus, domain.GetErrorCode(err))
}

func TestBadPayloadMapsToBadPayload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := client.GetLocationName(context.Background(), "L1")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorCodeProviderBadPayload, domain.GetErrorCode(err))
}

func TestListPaymentsQuery(t *testing.T) {
	var query map[string][]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`{"payments": [{"id": "P1"}]}`))
	})

	begin := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	payments, err := client.ListPayments(context.Background(), square.ListPaymentsParams{
		LocationID: "L49BHVHTKTQPE",
		BeginTime:  begin,
		EndTime:    end,
	})
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	assert.Equal(t, []string{"DESC"}, query["sort_order"])
	assert.Equal(t, []string{"100"}, query["limit"])
	assert.Equal(t, []string{"L49BHVHTKTQPE"}, query["location_id"])
	assert.Equal(t, []string{begin.Format(time.RFC3339)}, query["begin_time"])
}
