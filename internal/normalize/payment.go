// Package normalize converts raw provider payloads into the canonical
// internal records. All functions are pure: enrichment data that requires
// provider round-trips is fetched by callers and passed in.
package normalize

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/splashngo/dashboard-service/internal/adapters/square"
	"github.com/splashngo/dashboard-service/internal/domain"
	"github.com/splashngo/dashboard-service/internal/domain/models"
	"github.com/splashngo/dashboard-service/internal/stores"
)

// invoiceApplicationID identifies the provider's invoicing application.
const invoiceApplicationID = "sq0idp-wGVapF8sNt9PLrdj5znuKA"

// invoiceNoteKeyword marks invoiced payments in free-text notes.
const invoiceNoteKeyword = "請求書"

const (
	defaultEntryMethod = "該当なし"
	defaultDeviceName  = "Square ターミナル"
	defaultTimeSlot    = "Japan"
	discountTypeLabel  = "割引"
)

// DefaultStoreID is used until per-store routing of transactions is seeded.
const DefaultStoreID = 1

// PaymentEnrichment carries provider-fetched context for one payment. Every
// field is optional; zero values fall back to static resolution or defaults.
type PaymentEnrichment struct {
	// LiveLocationName is the location display name fetched from the
	// provider, empty when the lookup failed or was skipped.
	LiveLocationName string
	// OrderDetails is the joined item-name description for the payment's
	// order, empty when there is no order or the lookup failed.
	OrderDetails string
	// Customer annotates the transaction with the buyer, nil when unknown.
	Customer *square.CustomerInfo
}

// Payment converts one provider payment into the canonical transaction
// record. It fails only when the payload has no external identifier; every
// other missing field collapses to a zero or default value.
func Payment(p *square.Payment, enrich PaymentEnrichment) (*models.Transaction, error) {
	if p == nil || square.Str(p.ID) == "" {
		return nil, domain.ErrMissingExternalID
	}

	createdAt := time.Now().UTC()
	if raw := square.Str(p.CreatedAt); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			createdAt = parsed
		}
	}
	date, timeOfDay := SplitReportingTime(createdAt)

	total := firstAmount(p.TotalMoney, p.AmountMoney)
	discount := firstAmount(p.TotalDiscountMoney, p.DiscountMoney)
	tax := firstAmount(p.TotalTaxMoney, p.TaxMoney)
	tip := firstAmount(p.TotalTipMoney, p.TipMoney)

	var fee int64
	if len(p.ProcessingFee) > 0 {
		fee = p.ProcessingFee[0].AmountMoney.Value()
	}

	storeName, storeCode := resolveStore(square.Str(p.LocationID), enrich.LiveLocationName)

	txn := &models.Transaction{
		StoreID:         DefaultStoreID,
		TransactionDate: date,
		TransactionTime: timeOfDay,
		TimeSlot:        defaultTimeSlot,

		GrossSales:    total + discount,
		Discount:      discount,
		NetSales:      total,
		Tax:           tax,
		Tip:           tip,
		TotalReceived: total,
		Fee:           fee,
		NetTotal:      total - fee,

		PartialRefund: decimal.Zero,

		PaymentSource:   classifySource(p),
		PaymentOrRefund: models.EntryKindPayment,

		PaymentID: *p.ID,

		StoreName:          storeName,
		StaffName:          storeName,
		Channel:            storeName,
		TransactionDetails: transactionDetails(p, enrich.OrderDetails),

		FeePercentage:          models.DefaultFeePercentage,
		NoTransactionFee:       fee == 0,
		UnauthorizedOrCanceled: square.Str(p.Status) != "COMPLETED",
	}
	_ = storeCode // recorded on customers; transactions carry the name only

	// Whole amount goes to exactly one tender bucket. Split tender is not
	// supported by this normalization.
	if p.CardDetails != nil {
		txn.Card = total
		txn.CardEntryMethod = square.Str(p.CardDetails.EntryMethod)
		if txn.CardEntryMethod == "" {
			txn.CardEntryMethod = defaultEntryMethod
		}
		if p.CardDetails.Card != nil {
			txn.CardType = square.Str(p.CardDetails.Card.CardBrand)
			txn.CardLast4 = square.Str(p.CardDetails.Card.Last4)
		}
		txn.DeviceName = defaultDeviceName
		if p.CardDetails.DeviceDetails != nil && square.Str(p.CardDetails.DeviceDetails.DeviceName) != "" {
			txn.DeviceName = *p.CardDetails.DeviceDetails.DeviceName
		}
	} else {
		txn.Cash = total
		txn.CardEntryMethod = defaultEntryMethod
		txn.DeviceName = defaultDeviceName
	}

	if discount > 0 {
		label := discountTypeLabel
		txn.DiscountType = &label
	}

	txn.OrderID = p.OrderID
	txn.OrderReferenceID = p.ReferenceID
	txn.LocationID = p.LocationID
	txn.CustomerID = p.CustomerID
	txn.PaymentNote = p.Note
	txn.ReceiptDetails = p.ReceiptURL

	if enrich.Customer != nil {
		name := enrich.Customer.Name
		ref := enrich.Customer.ReferenceID
		txn.CustomerName = &name
		txn.CustomerReferenceID = &ref
	}

	return txn, nil
}

// resolveStore combines the static location table with the live-fetched name.
// A live name carrying the brand marker wins; otherwise the static entry is
// the fallback.
func resolveStore(locationID, liveName string) (name, code string) {
	if locationID == "" {
		return stores.DefaultStore.Name, stores.DefaultStore.Code
	}
	info := stores.ResolveLocation(locationID)
	if liveName != "" && stores.TrustLiveName(liveName) {
		return liveName, info.Code
	}
	return info.Name, info.Code
}

// classifySource applies the payment-source precedence: invoice application,
// external source marker, invoice-tagged order id, invoice keyword in the
// note, then point-of-sale.
func classifySource(p *square.Payment) models.PaymentSource {
	if p.ApplicationDetails != nil && square.Str(p.ApplicationDetails.ApplicationID) == invoiceApplicationID {
		return models.PaymentSourceInvoice
	}
	if square.Str(p.SourceType) == "EXTERNAL" {
		return models.PaymentSourceInvoice
	}
	if strings.Contains(square.Str(p.OrderID), "invoice") {
		return models.PaymentSourceInvoice
	}
	if strings.Contains(square.Str(p.Note), invoiceNoteKeyword) {
		return models.PaymentSourceInvoice
	}
	return models.PaymentSourcePOS
}

func transactionDetails(p *square.Payment, orderDetails string) string {
	if orderDetails != "" {
		return orderDetails
	}
	if note := square.Str(p.Note); note != "" {
		return note
	}
	return models.DefaultTransactionDetails
}

// RefundOverlay converts a refund payload into the overlay applied to its
// parent transaction. The amount is converted from minor units to major
// units; a missing reason gets the default label.
func RefundOverlay(refund *square.Refund, at time.Time) models.RefundOverlay {
	amount := decimal.Zero
	if refund != nil && refund.AmountMoney != nil && refund.AmountMoney.Amount != nil {
		amount = decimal.NewFromInt(*refund.AmountMoney.Amount).Div(decimal.NewFromInt(100))
	}
	reason := models.DefaultRefundReason
	if refund != nil && square.Str(refund.Reason) != "" {
		reason = *refund.Reason
	}
	return models.RefundOverlay{
		PartialRefund: amount,
		RefundReason:  reason,
		UpdatedAt:     ToReportingTime(at),
	}
}
