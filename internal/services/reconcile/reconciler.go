// Package reconcile applies normalized records to storage with idempotent,
// out-of-order-tolerant semantics.
package reconcile

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/splashngo/dashboard-service/internal/adapters/square"
	"github.com/splashngo/dashboard-service/internal/domain"
	"github.com/splashngo/dashboard-service/internal/domain/models"
	"github.com/splashngo/dashboard-service/internal/domain/ports"
	"github.com/splashngo/dashboard-service/internal/normalize"
)

// Outcome classifies what reconciliation did with a record.
type Outcome string

const (
	OutcomeInserted         Outcome = "inserted"
	OutcomeUpdated          Outcome = "updated"
	OutcomeSkippedDuplicate Outcome = "skipped_duplicate"
	// OutcomeSkippedMissing marks an update or refund whose target row does
	// not exist yet. The event is acknowledged; the record arrives later via
	// its create event or batch sync.
	OutcomeSkippedMissing Outcome = "skipped_missing"
	OutcomeSoftDeleted    Outcome = "soft_deleted"
	OutcomeIgnored        Outcome = "ignored"
)

// Reconciler writes normalized records through the repositories.
type Reconciler struct {
	transactions ports.TransactionRepository
	customers    ports.CustomerRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewReconciler creates a reconciler.
func NewReconciler(transactions ports.TransactionRepository, customers ports.CustomerRepository, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		transactions: transactions,
		customers:    customers,
		logger:       logger,
		now:          time.Now,
	}
}

// ApplyPayment reconciles a normalized transaction against storage. Created
// events insert unless the payment id is already present; updated events
// rewrite the existing row and are a no-op when it is absent.
func (r *Reconciler) ApplyPayment(ctx context.Context, kind square.EventKind, txn *models.Transaction) (Outcome, error) {
	stamp := normalize.ToReportingTime(r.now())
	txn.UpdatedAt = stamp

	switch kind {
	case square.EventKindPaymentCreated:
		exists, err := r.transactions.ExistsByPaymentID(ctx, txn.PaymentID)
		if err != nil {
			return "", domain.WrapError(domain.ErrorCodeStorageFailure, "check payment existence", err)
		}
		if exists {
			r.logger.Info("payment already stored, skipping",
				zap.String("payment_id", txn.PaymentID),
			)
			return OutcomeSkippedDuplicate, nil
		}

		txn.CreatedAt = stamp
		if err := r.transactions.Insert(ctx, txn); err != nil {
			// A concurrent insert can still win between the existence check
			// and the insert; the unique constraint is the arbiter.
			if errors.Is(err, domain.ErrDuplicateKey) {
				r.logger.Info("payment inserted concurrently, skipping",
					zap.String("payment_id", txn.PaymentID),
				)
				return OutcomeSkippedDuplicate, nil
			}
			return "", domain.WrapError(domain.ErrorCodeStorageFailure, "insert transaction", err)
		}
		return OutcomeInserted, nil

	case square.EventKindPaymentUpdated:
		affected, err := r.transactions.Update(ctx, txn)
		if err != nil {
			return "", domain.WrapError(domain.ErrorCodeStorageFailure, "update transaction", err)
		}
		if affected == 0 {
			r.logger.Info("update for unknown payment, skipping",
				zap.String("payment_id", txn.PaymentID),
			)
			return OutcomeSkippedMissing, nil
		}
		return OutcomeUpdated, nil

	default:
		return OutcomeIgnored, nil
	}
}

// ApplyRefund overlays a refund onto its parent transaction. A refund for an
// unknown payment is acknowledged and skipped.
func (r *Reconciler) ApplyRefund(ctx context.Context, refund *square.Refund) (Outcome, error) {
	paymentID := square.Str(refund.PaymentID)
	if paymentID == "" {
		return "", domain.ErrMissingExternalID
	}

	overlay := normalize.RefundOverlay(refund, r.now())
	affected, err := r.transactions.ApplyRefund(ctx, paymentID, overlay)
	if err != nil {
		return "", domain.WrapError(domain.ErrorCodeStorageFailure, "apply refund", err)
	}
	if affected == 0 {
		r.logger.Info("refund for unknown payment, skipping",
			zap.String("payment_id", paymentID),
		)
		return OutcomeSkippedMissing, nil
	}
	return OutcomeUpdated, nil
}

// ApplyCustomer reconciles a normalized customer. Merged events carry the
// surviving record and are treated as updates.
func (r *Reconciler) ApplyCustomer(ctx context.Context, kind square.EventKind, c *models.Customer) (Outcome, error) {
	switch kind {
	case square.EventKindCustomerCreated:
		if err := r.customers.Insert(ctx, c); err != nil {
			if errors.Is(err, domain.ErrDuplicateKey) {
				r.logger.Info("customer already stored, skipping",
					zap.String("square_customer_id", c.SquareCustomerID),
				)
				return OutcomeSkippedDuplicate, nil
			}
			return "", domain.WrapError(domain.ErrorCodeStorageFailure, "insert customer", err)
		}
		return OutcomeInserted, nil

	case square.EventKindCustomerUpdated, square.EventKindCustomerMerged:
		affected, err := r.customers.UpdateBySquareID(ctx, c)
		if err != nil {
			return "", domain.WrapError(domain.ErrorCodeStorageFailure, "update customer", err)
		}
		if affected == 0 {
			r.logger.Info("update for unknown customer, skipping",
				zap.String("square_customer_id", c.SquareCustomerID),
			)
			return OutcomeSkippedMissing, nil
		}
		return OutcomeUpdated, nil

	default:
		return OutcomeIgnored, nil
	}
}

// SoftDeleteCustomer marks a customer deleted without removing the row.
func (r *Reconciler) SoftDeleteCustomer(ctx context.Context, squareCustomerID string) (Outcome, error) {
	if squareCustomerID == "" {
		return "", domain.ErrMissingExternalID
	}

	affected, err := r.customers.SoftDelete(ctx, squareCustomerID)
	if err != nil {
		return "", domain.WrapError(domain.ErrorCodeStorageFailure, "soft delete customer", err)
	}
	if affected == 0 {
		r.logger.Info("delete for unknown customer, skipping",
			zap.String("square_customer_id", squareCustomerID),
		)
		return OutcomeSkippedMissing, nil
	}
	return OutcomeSoftDeleted, nil
}
