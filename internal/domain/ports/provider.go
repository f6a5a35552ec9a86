package ports

import (
	"context"

	"github.com/splashngo/dashboard-service/internal/adapters/square"
)

// ProviderClient is the outbound surface of the payment provider used by the
// enricher and synchronizers.
type ProviderClient interface {
	ListCustomers(ctx context.Context, cursor string) ([]square.Customer, string, error)
	GetCustomerInfo(ctx context.Context, customerID string) (*square.CustomerInfo, error)
	ListPayments(ctx context.Context, params square.ListPaymentsParams) ([]square.Payment, error)
	GetOrderItemNames(ctx context.Context, orderID string) (string, error)
	GetLocationName(ctx context.Context, locationID string) (string, error)
}
