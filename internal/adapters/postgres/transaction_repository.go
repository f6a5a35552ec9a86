package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/splashngo/dashboard-service/internal/domain/models"
)

// TransactionRepository stores canonical transactions. The external payment id
// carries a unique constraint, making inserts idempotent under retry.
type TransactionRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewTransactionRepository creates a transaction repository.
func NewTransactionRepository(db *DB, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{db: db, logger: logger}
}

const transactionColumns = `
	store_id, transaction_date, transaction_time, time_slot,
	gross_sales, discount, service_charge, net_sales, tax, tip,
	total_received, fee, net_total,
	card, cash, e_money, paypay,
	partial_refund, refund_reason,
	payment_source, payment_or_refund,
	card_entry_method, card_type, card_last4, device_name,
	payment_id, order_id, order_reference_id, location_id,
	customer_id, customer_name, customer_reference_id,
	store_name, staff_name, channel, transaction_details,
	payment_note, receipt_details, discount_type,
	fee_percentage, no_transaction_fee, unauthorized_or_canceled,
	created_at, updated_at`

func transactionArgs(t *models.Transaction) []interface{} {
	return []interface{}{
		t.StoreID, t.TransactionDate, t.TransactionTime, t.TimeSlot,
		t.GrossSales, t.Discount, t.ServiceCharge, t.NetSales, t.Tax, t.Tip,
		t.TotalReceived, t.Fee, t.NetTotal,
		t.Card, t.Cash, t.EMoney, t.PayPay,
		t.PartialRefund, emptyToNil(t.RefundReason),
		string(t.PaymentSource), string(t.PaymentOrRefund),
		t.CardEntryMethod, emptyToNil(t.CardType), emptyToNil(t.CardLast4), t.DeviceName,
		t.PaymentID, strOrNil(t.OrderID), strOrNil(t.OrderReferenceID), strOrNil(t.LocationID),
		strOrNil(t.CustomerID), strOrNil(t.CustomerName), strOrNil(t.CustomerReferenceID),
		t.StoreName, t.StaffName, t.Channel, t.TransactionDetails,
		strOrNil(t.PaymentNote), strOrNil(t.ReceiptDetails), strOrNil(t.DiscountType),
		t.FeePercentage, t.NoTransactionFee, t.UnauthorizedOrCanceled,
		t.CreatedAt, t.UpdatedAt,
	}
}

// Insert stores a new transaction row.
func (r *TransactionRepository) Insert(ctx context.Context, txn *models.Transaction) error {
	query := fmt.Sprintf(`
		INSERT INTO transactions (%s)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,
		        $11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
		        $21,$22,$23,$24,$25,$26,$27,$28,$29,$30,
		        $31,$32,$33,$34,$35,$36,$37,$38,$39,$40,
		        $41,$42,$43,$44)
		RETURNING id`, transactionColumns)

	err := r.db.Pool.QueryRow(ctx, query, transactionArgs(txn)...).Scan(&txn.ID)
	if err != nil {
		return mapUniqueViolation(err)
	}

	r.logger.Debug("transaction inserted",
		zap.Int64("id", txn.ID),
		zap.String("payment_id", txn.PaymentID),
	)
	return nil
}

// Update rewrites the row keyed by the external payment id. The refund
// overlay columns (partial_refund, refund_reason, payment_or_refund) are left
// untouched: a payment.updated arriving after a refund must not erase it.
func (r *TransactionRepository) Update(ctx context.Context, txn *models.Transaction) (int64, error) {
	query := `
		UPDATE transactions SET
			store_id = $1, transaction_date = $2, transaction_time = $3, time_slot = $4,
			gross_sales = $5, discount = $6, service_charge = $7, net_sales = $8,
			tax = $9, tip = $10, total_received = $11, fee = $12, net_total = $13,
			card = $14, cash = $15, e_money = $16, paypay = $17,
			payment_source = $18,
			card_entry_method = $19, card_type = $20, card_last4 = $21, device_name = $22,
			order_id = $23, order_reference_id = $24, location_id = $25,
			customer_id = $26, customer_name = $27, customer_reference_id = $28,
			store_name = $29, staff_name = $30, channel = $31, transaction_details = $32,
			payment_note = $33, receipt_details = $34, discount_type = $35,
			fee_percentage = $36, no_transaction_fee = $37, unauthorized_or_canceled = $38,
			updated_at = $39
		WHERE payment_id = $40`

	tag, err := r.db.Pool.Exec(ctx, query,
		txn.StoreID, txn.TransactionDate, txn.TransactionTime, txn.TimeSlot,
		txn.GrossSales, txn.Discount, txn.ServiceCharge, txn.NetSales,
		txn.Tax, txn.Tip, txn.TotalReceived, txn.Fee, txn.NetTotal,
		txn.Card, txn.Cash, txn.EMoney, txn.PayPay,
		string(txn.PaymentSource),
		txn.CardEntryMethod, emptyToNil(txn.CardType), emptyToNil(txn.CardLast4), txn.DeviceName,
		strOrNil(txn.OrderID), strOrNil(txn.OrderReferenceID), strOrNil(txn.LocationID),
		strOrNil(txn.CustomerID), strOrNil(txn.CustomerName), strOrNil(txn.CustomerReferenceID),
		txn.StoreName, txn.StaffName, txn.Channel, txn.TransactionDetails,
		strOrNil(txn.PaymentNote), strOrNil(txn.ReceiptDetails), strOrNil(txn.DiscountType),
		txn.FeePercentage, txn.NoTransactionFee, txn.UnauthorizedOrCanceled,
		txn.UpdatedAt,
		txn.PaymentID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ExistsByPaymentID reports whether a row with this payment id exists.
func (r *TransactionRepository) ExistsByPaymentID(ctx context.Context, paymentID string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM transactions WHERE payment_id = $1)", paymentID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ApplyRefund overlays refund fields onto the parent transaction row.
func (r *TransactionRepository) ApplyRefund(ctx context.Context, paymentID string, overlay models.RefundOverlay) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE transactions SET
			partial_refund = $1,
			refund_reason = $2,
			payment_or_refund = $3,
			updated_at = $4
		WHERE payment_id = $5`,
		overlay.PartialRefund,
		overlay.RefundReason,
		string(models.EntryKindRefund),
		overlay.UpdatedAt,
		paymentID,
	)
	if err != nil {
		return 0, err
	}

	affected := tag.RowsAffected()
	r.logger.Debug("refund applied",
		zap.String("payment_id", paymentID),
		zap.Int64("rows", affected),
	)
	return affected, nil
}

// ListBatch pages transactions newest-first, optionally scoped to one store.
func (r *TransactionRepository) ListBatch(ctx context.Context, storeID *int64, limit, offset int) ([]models.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT id, %s
		FROM transactions
		WHERE ($1::bigint IS NULL OR store_id = $1)
		ORDER BY transaction_date DESC, transaction_time DESC, id DESC
		LIMIT $2 OFFSET $3`, transactionColumns)

	var scope interface{}
	if storeID != nil {
		scope = *storeID
	}

	rows, err := r.db.Pool.Query(ctx, query, scope, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SumNetTotalBetween totals net_total across a closed reporting-date range.
func (r *TransactionRepository) SumNetTotalBetween(ctx context.Context, storeID *int64, fromDate, toDate string) (decimal.Decimal, error) {
	var scope interface{}
	if storeID != nil {
		scope = *storeID
	}

	var sum decimal.Decimal
	err := r.db.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(net_total), 0)
		FROM transactions
		WHERE transaction_date BETWEEN $1 AND $2
		  AND ($3::bigint IS NULL OR store_id = $3)`,
		fromDate, toDate, scope,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func scanTransaction(rows pgx.Rows) (models.Transaction, error) {
	var (
		t models.Transaction

		refundReason, cardType, cardLast4 *string
		paymentSource, paymentOrRefund    string
	)

	err := rows.Scan(
		&t.ID,
		&t.StoreID, &t.TransactionDate, &t.TransactionTime, &t.TimeSlot,
		&t.GrossSales, &t.Discount, &t.ServiceCharge, &t.NetSales, &t.Tax, &t.Tip,
		&t.TotalReceived, &t.Fee, &t.NetTotal,
		&t.Card, &t.Cash, &t.EMoney, &t.PayPay,
		&t.PartialRefund, &refundReason,
		&paymentSource, &paymentOrRefund,
		&t.CardEntryMethod, &cardType, &cardLast4, &t.DeviceName,
		&t.PaymentID, &t.OrderID, &t.OrderReferenceID, &t.LocationID,
		&t.CustomerID, &t.CustomerName, &t.CustomerReferenceID,
		&t.StoreName, &t.StaffName, &t.Channel, &t.TransactionDetails,
		&t.PaymentNote, &t.ReceiptDetails, &t.DiscountType,
		&t.FeePercentage, &t.NoTransactionFee, &t.UnauthorizedOrCanceled,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return t, err
		}
		return t, fmt.Errorf("scan transaction: %w", err)
	}

	if refundReason != nil {
		t.RefundReason = *refundReason
	}
	if cardType != nil {
		t.CardType = *cardType
	}
	if cardLast4 != nil {
		t.CardLast4 = *cardLast4
	}
	t.PaymentSource = models.PaymentSource(paymentSource)
	t.PaymentOrRefund = models.EntryKind(paymentOrRefund)

	return t, nil
}
