// Package ports declares the interfaces the service layer depends on.
// Adapters implement them; services consume them.
package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/splashngo/dashboard-service/internal/domain/models"
)

// TransactionRepository persists and queries canonical transaction rows.
type TransactionRepository interface {
	// Insert stores a new transaction. A unique violation on the payment id
	// surfaces as domain.ErrDuplicateKey.
	Insert(ctx context.Context, txn *models.Transaction) error

	// Update rewrites the row keyed by the external payment id and returns
	// the number of rows affected.
	Update(ctx context.Context, txn *models.Transaction) (int64, error)

	// ExistsByPaymentID reports whether a row with the payment id exists.
	ExistsByPaymentID(ctx context.Context, paymentID string) (bool, error)

	// ApplyRefund overlays refund fields onto the row keyed by the payment
	// id and returns the number of rows affected.
	ApplyRefund(ctx context.Context, paymentID string, overlay models.RefundOverlay) (int64, error)

	// ListBatch pages transactions newest-first, optionally scoped to one
	// store.
	ListBatch(ctx context.Context, storeID *int64, limit, offset int) ([]models.Transaction, error)

	// SumNetTotalBetween totals net_total over a closed date range,
	// optionally scoped to one store. Dates are reporting-offset dates.
	SumNetTotalBetween(ctx context.Context, storeID *int64, fromDate, toDate string) (decimal.Decimal, error)
}

// CustomerRepository persists and queries canonical customer rows.
type CustomerRepository interface {
	// Insert stores a new customer. A unique violation on the provider
	// customer id surfaces as domain.ErrDuplicateKey.
	Insert(ctx context.Context, c *models.Customer) error

	// UpdateBySquareID rewrites the row keyed by the provider customer id
	// and returns the number of rows affected.
	UpdateBySquareID(ctx context.Context, c *models.Customer) (int64, error)

	// SoftDelete marks the row keyed by the provider customer id deleted
	// and returns the number of rows affected.
	SoftDelete(ctx context.Context, squareCustomerID string) (int64, error)

	// BulkUpsert inserts or updates a chunk of customers keyed by the
	// provider customer id.
	BulkUpsert(ctx context.Context, customers []models.Customer) error

	// List pages customers matching an optional search term and reports
	// the total match count alongside the page.
	List(ctx context.Context, search string, limit, offset int) ([]models.Customer, int64, error)

	// GetByID fetches one customer by internal id, domain.ErrNotFound when
	// absent.
	GetByID(ctx context.Context, id int64) (*models.Customer, error)

	// UpdateByID rewrites the row keyed by internal id and returns the
	// number of rows affected.
	UpdateByID(ctx context.Context, c *models.Customer) (int64, error)
}

// StoreRepository reads the store directory.
type StoreRepository interface {
	ListAll(ctx context.Context) ([]models.Store, error)

	// GetByCredentials fetches the store matching a mail/password pair,
	// domain.ErrInvalidCredentials when none matches.
	GetByCredentials(ctx context.Context, mail, password string) (*models.Store, error)
}

// Pinger checks storage liveness before event processing.
type Pinger interface {
	Ping(ctx context.Context) error
}
