package dashboard

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/splashngo/dashboard-service/internal/domain/models"
	"github.com/splashngo/dashboard-service/internal/normalize"
)

// fetchBatchSize is the internal page size used when assembling the full
// transaction listing. The stored procedure layer caps single reads, so the
// listing is read in fixed batches and concatenated.
const fetchBatchSize = 1000

// maxBatches bounds runaway listings.
const maxBatches = 100

// ListTransactions handles GET /api/transactions. An optional store_id query
// parameter scopes the listing to one store.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondError(w, http.StatusMethodNotAllowed, "only GET method is allowed")
		return
	}

	var storeID *int64
	if raw := r.URL.Query().Get("store_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid store_id")
			return
		}
		storeID = &id
	}

	var all []models.Transaction
	for batch := 0; batch < maxBatches; batch++ {
		page, err := h.transactions.ListBatch(r.Context(), storeID, fetchBatchSize, batch*fetchBatchSize)
		if err != nil {
			h.logger.Error("transaction listing failed", zap.Error(err))
			h.respondError(w, http.StatusInternalServerError, "failed to list transactions")
			return
		}
		all = append(all, page...)
		if len(page) < fetchBatchSize {
			break
		}
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"transactions": transactionViews(all),
		"count":        len(all),
	})
}

// MonthlySales handles GET /api/sales/monthly: the net-total sum for the
// current reporting month, optionally scoped to one store.
func (h *Handler) MonthlySales(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondError(w, http.StatusMethodNotAllowed, "only GET method is allowed")
		return
	}

	var storeID *int64
	if raw := r.URL.Query().Get("store_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid store_id")
			return
		}
		storeID = &id
	}

	now := normalize.ToReportingTime(time.Now())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	sum, err := h.transactions.SumNetTotalBetween(r.Context(), storeID,
		monthStart.Format("2006-01-02"), monthEnd.Format("2006-01-02"))
	if err != nil {
		h.logger.Error("monthly sales query failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to compute monthly sales")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"month":   monthStart.Format("2006-01"),
		"total":   sum,
	})
}

// transactionView is the wire shape of a transaction row.
type transactionView struct {
	ID              int64  `json:"id"`
	StoreID         int64  `json:"store_id"`
	TransactionDate string `json:"transaction_date"`
	TransactionTime string `json:"transaction_time"`

	GrossSales    int64 `json:"gross_sales"`
	Discount      int64 `json:"discount"`
	NetSales      int64 `json:"net_sales"`
	Tax           int64 `json:"tax"`
	Tip           int64 `json:"tip"`
	TotalReceived int64 `json:"total_received"`
	Fee           int64 `json:"fee"`
	NetTotal      int64 `json:"net_total"`

	Card int64 `json:"card"`
	Cash int64 `json:"cash"`

	PartialRefund string `json:"partial_refund"`
	RefundReason  string `json:"refund_reason,omitempty"`

	PaymentSource   string `json:"payment_source"`
	PaymentOrRefund string `json:"payment_or_refund"`

	PaymentID           string  `json:"payment_id"`
	CustomerName        *string `json:"customer_name,omitempty"`
	CustomerReferenceID *string `json:"customer_reference_id,omitempty"`

	StoreName          string `json:"store_name"`
	TransactionDetails string `json:"transaction_details"`

	UnauthorizedOrCanceled bool `json:"unauthorized_or_canceled"`
}

func transactionViews(txns []models.Transaction) []transactionView {
	views := make([]transactionView, 0, len(txns))
	for i := range txns {
		t := &txns[i]
		views = append(views, transactionView{
			ID:                     t.ID,
			StoreID:                t.StoreID,
			TransactionDate:        t.TransactionDate,
			TransactionTime:        t.TransactionTime,
			GrossSales:             t.GrossSales,
			Discount:               t.Discount,
			NetSales:               t.NetSales,
			Tax:                    t.Tax,
			Tip:                    t.Tip,
			TotalReceived:          t.TotalReceived,
			Fee:                    t.Fee,
			NetTotal:               t.NetTotal,
			Card:                   t.Card,
			Cash:                   t.Cash,
			PartialRefund:          t.PartialRefund.String(),
			RefundReason:           t.RefundReason,
			PaymentSource:          string(t.PaymentSource),
			PaymentOrRefund:        string(t.PaymentOrRefund),
			PaymentID:              t.PaymentID,
			CustomerName:           t.CustomerName,
			CustomerReferenceID:    t.CustomerReferenceID,
			StoreName:              t.StoreName,
			TransactionDetails:     t.TransactionDetails,
			UnauthorizedOrCanceled: t.UnauthorizedOrCanceled,
		})
	}
	return views
}
