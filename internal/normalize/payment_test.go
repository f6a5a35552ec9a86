package normalize_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splashngo/dashboard-service/internal/adapters/square"
	"github.com/splashngo/dashboard-service/internal/domain"
	"github.com/splashngo/dashboard-service/internal/domain/models"
	"github.com/splashngo/dashboard-service/internal/normalize"
)

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64   { return &v }

func money(amount int64) *square.Money {
	return &square.Money{Amount: i64Ptr(amount), Currency: strPtr("JPY")}
}

func basePayment() *square.Payment {
	return &square.Payment{
		ID:         strPtr("PAY123"),
		LocationID: strPtr("L49BHVHTKTQPE"),
		CreatedAt:  strPtr("2024-06-01T01:30:00Z"),
		Status:     strPtr("COMPLETED"),
		TotalMoney: money(1200),
	}
}

func TestPaymentMissingIDFails(t *testing.T) {
	_, err := normalize.Payment(&square.Payment{}, normalize.PaymentEnrichment{})
	assert.ErrorIs(t, err, domain.ErrMissingExternalID)

	_, err = normalize.Payment(nil, normalize.PaymentEnrichment{})
	assert.ErrorIs(t, err, domain.ErrMissingExternalID)
}

func TestPaymentMonetaryDerivation(t *testing.T) {
	p := basePayment()
	p.TotalDiscountMoney = money(200)
	p.TaxMoney = money(109)
	p.ProcessingFee = []square.ProcessingFee{{AmountMoney: money(36)}}

	txn, err := normalize.Payment(p, normalize.PaymentEnrichment{})
	require.NoError(t, err)

	assert.Equal(t, int64(1400), txn.GrossSales)
	assert.Equal(t, int64(200), txn.Discount)
	assert.Equal(t, int64(1200), txn.NetSales)
	assert.Equal(t, int64(109), txn.Tax)
	assert.Equal(t, int64(1200), txn.TotalReceived)
	assert.Equal(t, int64(36), txn.Fee)
	assert.Equal(t, int64(1164), txn.NetTotal)
	assert.False(t, txn.NoTransactionFee)
	require.NotNil(t, txn.DiscountType)
	assert.Equal(t, "割引", *txn.DiscountType)
}

func TestPaymentAmountFallbackOrder(t *testing.T) {
	p := basePayment()
	// A zero primary amount falls through to the secondary field.
	p.TotalMoney = money(0)
	p.AmountMoney = money(800)

	txn, err := normalize.Payment(p, normalize.PaymentEnrichment{})
	require.NoError(t, err)
	assert.Equal(t, int64(800), txn.NetSales)
	assert.Equal(t, int64(800), txn.TotalReceived)
}

func TestPaymentReportingTimeSplit(t *testing.T) {
	p := basePayment()
	// 2024-06-30 23:30 UTC shifts past midnight in the reporting offset.
	p.CreatedAt = strPtr("2024-06-30T23:30:00Z")

	txn, err := normalize.Payment(p, normalize.PaymentEnrichment{})
	require.NoError(t, err)

	assert.Equal(t, "2024-07-01", txn.TransactionDate)
	assert.Equal(t, "08:30:00", txn.TransactionTime)
}

func TestPaymentTenderBuckets(t *testing.T) {
	card := basePayment()
	card.CardDetails = &square.CardDetails{
		EntryMethod: strPtr("CONTACTLESS"),
		Card:        &square.Card{CardBrand: strPtr("VISA"), Last4: strPtr("4242")},
	}

	txn, err := normalize.Payment(card, normalize.PaymentEnrichment{})
	require.NoError(t, err)
	assert.Equal(t, int64(1200), txn.Card)
	assert.Zero(t, txn.Cash)
	assert.Equal(t, "CONTACTLESS", txn.CardEntryMethod)
	assert.Equal(t, "VISA", txn.CardType)
	assert.Equal(t, "4242", txn.CardLast4)
	assert.Equal(t, "Square ターミナル", txn.DeviceName)

	cash := basePayment()
	txn, err = normalize.Payment(cash, normalize.PaymentEnrichment{})
	require.NoError(t, err)
	assert.Equal(t, int64(1200), txn.Cash)
	assert.Zero(t, txn.Card)
	assert.Equal(t, "該当なし", txn.CardEntryMethod)
}

func TestPaymentSourceClassification(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *square.Payment)
		want   models.PaymentSource
	}{
		{
			name:   "pos by default",
			mutate: func(p *square.Payment) {},
			want:   models.PaymentSourcePOS,
		},
		{
			name: "invoice application id",
			mutate: func(p *square.Payment) {
				p.ApplicationDetails = &square.ApplicationDetails{
					ApplicationID: strPtr("sq0idp-wGVapF8sNt9PLrdj5znuKA"),
				}
			},
			want: models.PaymentSourceInvoice,
		},
		{
			name: "external source type",
			mutate: func(p *square.Payment) {
				p.SourceType = strPtr("EXTERNAL")
			},
			want: models.PaymentSourceInvoice,
		},
		{
			name: "invoice tagged order id",
			mutate: func(p *square.Payment) {
				p.OrderID = strPtr("order-invoice-001")
			},
			want: models.PaymentSourceInvoice,
		},
		{
			name: "invoice keyword in note",
			mutate: func(p *square.Payment) {
				p.Note = strPtr("6月分請求書の支払い")
			},
			want: models.PaymentSourceInvoice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := basePayment()
			tt.mutate(p)
			txn, err := normalize.Payment(p, normalize.PaymentEnrichment{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, txn.PaymentSource)
		})
	}
}

func TestPaymentStoreResolution(t *testing.T) {
	known := basePayment()
	txn, err := normalize.Payment(known, normalize.PaymentEnrichment{})
	require.NoError(t, err)
	assert.Equal(t, "SPLASH'N'GO!前橋50号店", txn.StoreName)
	assert.Equal(t, txn.StoreName, txn.StaffName)
	assert.Equal(t, txn.StoreName, txn.Channel)

	// A live name carrying the brand marker overrides the table entry.
	txn, err = normalize.Payment(known, normalize.PaymentEnrichment{
		LiveLocationName: "SPLASH'N'GO!前橋50号店 (臨時)",
	})
	require.NoError(t, err)
	assert.Equal(t, "SPLASH'N'GO!前橋50号店 (臨時)", txn.StoreName)

	// A live name without the marker is not trusted.
	txn, err = normalize.Payment(known, normalize.PaymentEnrichment{
		LiveLocationName: "Main Street Branch",
	})
	require.NoError(t, err)
	assert.Equal(t, "SPLASH'N'GO!前橋50号店", txn.StoreName)

	missing := basePayment()
	missing.LocationID = nil
	txn, err = normalize.Payment(missing, normalize.PaymentEnrichment{})
	require.NoError(t, err)
	assert.Equal(t, "SPLASH'N'GO!前橋50号店", txn.StoreName)
}

func TestPaymentDetailsPrecedence(t *testing.T) {
	p := basePayment()
	p.Note = strPtr("店頭メモ")

	txn, err := normalize.Payment(p, normalize.PaymentEnrichment{OrderDetails: "洗車コースA, ワックス"})
	require.NoError(t, err)
	assert.Equal(t, "洗車コースA, ワックス", txn.TransactionDetails)

	txn, err = normalize.Payment(p, normalize.PaymentEnrichment{})
	require.NoError(t, err)
	assert.Equal(t, "店頭メモ", txn.TransactionDetails)

	p.Note = nil
	txn, err = normalize.Payment(p, normalize.PaymentEnrichment{})
	require.NoError(t, err)
	assert.Equal(t, "基本取引", txn.TransactionDetails)
}

func TestPaymentStatusFlag(t *testing.T) {
	p := basePayment()
	txn, err := normalize.Payment(p, normalize.PaymentEnrichment{})
	require.NoError(t, err)
	assert.False(t, txn.UnauthorizedOrCanceled)

	p.Status = strPtr("CANCELED")
	txn, err = normalize.Payment(p, normalize.PaymentEnrichment{})
	require.NoError(t, err)
	assert.True(t, txn.UnauthorizedOrCanceled)
}

func TestRefundOverlay(t *testing.T) {
	at := time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC)

	overlay := normalize.RefundOverlay(&square.Refund{
		PaymentID:   strPtr("PAY123"),
		AmountMoney: money(300),
	}, at)

	assert.Equal(t, "3", overlay.PartialRefund.String())
	assert.Equal(t, "返金", overlay.RefundReason)
	assert.Equal(t, at.Add(9*time.Hour), overlay.UpdatedAt)

	overlay = normalize.RefundOverlay(&square.Refund{
		AmountMoney: money(150),
		Reason:      strPtr("商品不良"),
	}, at)
	assert.Equal(t, "1.5", overlay.PartialRefund.String())
	assert.Equal(t, "商品不良", overlay.RefundReason)
}
