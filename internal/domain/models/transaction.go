package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentSource classifies where a payment originated
type PaymentSource string

const (
	// PaymentSourcePOS marks a payment taken at a point-of-sale terminal
	PaymentSourcePOS PaymentSource = "POSレジ"
	// PaymentSourceInvoice marks an invoiced or subscription payment
	PaymentSourceInvoice PaymentSource = "請求書"
)

// EntryKind distinguishes transaction rows from refund-overlaid rows
type EntryKind string

const (
	EntryKindPayment EntryKind = "取引"
	EntryKindRefund  EntryKind = "返金"
)

// DefaultRefundReason is used when a refund event carries no reason text.
const DefaultRefundReason = "返金"

// DefaultTransactionDetails labels a transaction with no order or note.
const DefaultTransactionDetails = "基本取引"

// DefaultFeePercentage is the processing fee rate applied by the provider.
var DefaultFeePercentage = decimal.NewFromFloat(3.75)

// Transaction is the canonical internal transaction record. Amounts are JPY
// (no minor units); the external payment id is the idempotency key.
type Transaction struct {
	ID              int64
	StoreID         int64
	TransactionDate string // YYYY-MM-DD in the reporting offset
	TransactionTime string // HH:MM:SS in the reporting offset
	TimeSlot        string

	GrossSales    int64
	Discount      int64
	ServiceCharge int64
	NetSales      int64
	Tax           int64
	Tip           int64
	TotalReceived int64
	Fee           int64
	NetTotal      int64

	Card  int64
	Cash  int64
	EMoney int64
	PayPay int64

	PartialRefund decimal.Decimal
	RefundReason  string

	PaymentSource   PaymentSource
	PaymentOrRefund EntryKind

	CardEntryMethod string
	CardType        string
	CardLast4       string
	DeviceName      string

	PaymentID           string
	OrderID             *string
	OrderReferenceID    *string
	LocationID          *string
	CustomerID          *string
	CustomerName        *string
	CustomerReferenceID *string

	StoreName          string
	StaffName          string
	Channel            string
	TransactionDetails string
	PaymentNote        *string
	ReceiptDetails     *string
	DiscountType       *string

	FeePercentage          decimal.Decimal
	NoTransactionFee       bool
	UnauthorizedOrCanceled bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RefundOverlay carries the fields a refund event writes onto its parent
// transaction row. The parent row is never deleted.
type RefundOverlay struct {
	PartialRefund decimal.Decimal
	RefundReason  string
	UpdatedAt     time.Time
}
