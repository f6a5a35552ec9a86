// Package enrich fetches provider-side context for a payment before
// normalization. Every lookup failure degrades to a fallback instead of
// failing the payment.
package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/splashngo/dashboard-service/internal/adapters/square"
	"github.com/splashngo/dashboard-service/internal/domain/ports"
	"github.com/splashngo/dashboard-service/internal/normalize"
)

// Enricher gathers the order description, live location name and customer
// annotation for one payment.
type Enricher struct {
	provider ports.ProviderClient
	logger   *zap.Logger
}

// NewEnricher creates an enricher.
func NewEnricher(provider ports.ProviderClient, logger *zap.Logger) *Enricher {
	return &Enricher{provider: provider, logger: logger}
}

// Enrich resolves the enrichment inputs for a payment. Lookups are best
// effort: an order fetch failure falls back to the order-id label, a location
// failure to the static table, a customer failure to no annotation.
func (e *Enricher) Enrich(ctx context.Context, p *square.Payment) normalize.PaymentEnrichment {
	var enrichment normalize.PaymentEnrichment

	if orderID := square.Str(p.OrderID); orderID != "" {
		details, err := e.provider.GetOrderItemNames(ctx, orderID)
		if err != nil {
			e.logger.Warn("order lookup failed, using fallback label",
				zap.String("order_id", orderID),
				zap.Error(err),
			)
			details = square.OrderFallbackLabel(orderID)
		}
		enrichment.OrderDetails = details
	}

	if locationID := square.Str(p.LocationID); locationID != "" {
		name, err := e.provider.GetLocationName(ctx, locationID)
		if err != nil {
			e.logger.Warn("location lookup failed, using static table",
				zap.String("location_id", locationID),
				zap.Error(err),
			)
		} else {
			enrichment.LiveLocationName = name
		}
	}

	if customerID := square.Str(p.CustomerID); customerID != "" {
		info, err := e.provider.GetCustomerInfo(ctx, customerID)
		if err != nil {
			e.logger.Warn("customer lookup failed, leaving transaction unannotated",
				zap.String("customer_id", customerID),
				zap.Error(err),
			)
		} else {
			enrichment.Customer = info
		}
	}

	return enrichment
}
