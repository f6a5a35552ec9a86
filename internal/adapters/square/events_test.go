package square_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splashngo/dashboard-service/internal/adapters/square"
	"github.com/splashngo/dashboard-service/internal/domain"
)

func TestDecodeEventPayment(t *testing.T) {
	body := []byte(`{
		"type": "payment.created",
		"data": {"object": {"payment": {"id": "PAY1", "status": "COMPLETED"}}}
	}`)

	ev, err := square.DecodeEvent(body)
	require.NoError(t, err)
	assert.Equal(t, square.EventKindPaymentCreated, ev.Kind)
	require.NotNil(t, ev.Payment)
	assert.Equal(t, "PAY1", square.Str(ev.Payment.ID))
	assert.Nil(t, ev.Customer)
	assert.Nil(t, ev.Refund)
}

func TestDecodeEventRefund(t *testing.T) {
	body := []byte(`{
		"type": "refund.created",
		"data": {"object": {"refund": {"id": "REF1", "payment_id": "PAY1", "amount_money": {"amount": 300}}}}
	}`)

	ev, err := square.DecodeEvent(body)
	require.NoError(t, err)
	assert.Equal(t, square.EventKindRefundCreated, ev.Kind)
	require.NotNil(t, ev.Refund)
	assert.Equal(t, "PAY1", square.Str(ev.Refund.PaymentID))
}

func TestDecodeEventUnknownKind(t *testing.T) {
	body := []byte(`{"type": "catalog.version.updated", "data": {"object": {}}}`)

	ev, err := square.DecodeEvent(body)
	require.NoError(t, err)
	assert.Equal(t, square.EventKindUnknown, ev.Kind)
	assert.Equal(t, "catalog.version.updated", ev.RawType)
	assert.Nil(t, ev.Payment)
	assert.Nil(t, ev.Customer)
	assert.Nil(t, ev.Refund)
}

func TestDecodeEventMalformedJSON(t *testing.T) {
	_, err := square.DecodeEvent([]byte(`{not json`))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorCodeEventMalformed, domain.GetErrorCode(err))
}

func TestDecodeEventMissingObject(t *testing.T) {
	body := []byte(`{"type": "payment.created", "data": {"object": {}}}`)

	_, err := square.DecodeEvent(body)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorCodeEventMalformed, domain.GetErrorCode(err))
}

func TestParseEventKindPredicates(t *testing.T) {
	assert.True(t, square.ParseEventKind("customer.merged").IsCustomer())
	assert.True(t, square.ParseEventKind("payment.updated").IsPayment())
	assert.True(t, square.ParseEventKind("refund.updated").IsRefund())
	assert.Equal(t, square.EventKindUnknown, square.ParseEventKind("order.created"))
}
