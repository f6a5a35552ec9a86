package square

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const unknownItemName = "商品名不明"

type getOrderResponse struct {
	Order *Order `json:"order"`
}

// OrderFallbackLabel is the description used when order details cannot be
// fetched or the order has no named items.
func OrderFallbackLabel(orderID string) string {
	return fmt.Sprintf("注文ID: %s", orderID)
}

// GetOrderItemNames fetches an order and joins its purchased item names into
// a human-readable description. Items with no usable name are dropped; an
// empty result falls back to the order-id label.
func (c *Client) GetOrderItemNames(ctx context.Context, orderID string) (string, error) {
	endpoint := fmt.Sprintf("%s/v2/orders/%s", c.config.BaseURL, url.PathEscape(orderID))

	var resp getOrderResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return "", err
	}

	if resp.Order == nil || len(resp.Order.LineItems) == 0 {
		return OrderFallbackLabel(orderID), nil
	}

	names := make([]string, 0, len(resp.Order.LineItems))
	for _, item := range resp.Order.LineItems {
		name := str(item.Name)
		if name == "" {
			name = str(item.VariationName)
		}
		if name == "" && item.CatalogObjectID != nil {
			name = fmt.Sprintf("商品ID: %s", *item.CatalogObjectID)
		}
		if name == "" || name == unknownItemName {
			continue
		}
		names = append(names, name)
	}

	if len(names) == 0 {
		return OrderFallbackLabel(orderID), nil
	}

	return strings.Join(names, ", "), nil
}
