package square

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

type listCustomersResponse struct {
	Customers []Customer `json:"customers"`
	Cursor    string     `json:"cursor"`
}

type getCustomerResponse struct {
	Customer *Customer `json:"customer"`
}

// ListCustomers fetches one page of the customer listing. An empty returned
// cursor means the listing is exhausted.
func (c *Client) ListCustomers(ctx context.Context, cursor string) ([]Customer, string, error) {
	endpoint := c.config.BaseURL + "/v2/customers"
	if cursor != "" {
		endpoint += "?cursor=" + url.QueryEscape(cursor)
	}

	var resp listCustomersResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, "", err
	}

	c.logger.Info("fetched customer page",
		zap.Int("count", len(resp.Customers)),
		zap.Bool("has_more", resp.Cursor != ""),
	)

	return resp.Customers, resp.Cursor, nil
}

// CustomerInfo is the subset of a customer record used to annotate
// transactions.
type CustomerInfo struct {
	Name        string
	ReferenceID string
}

// GetCustomerInfo fetches one customer and derives a display name. The name
// falls back to the email address, then to a fixed label.
func (c *Client) GetCustomerInfo(ctx context.Context, customerID string) (*CustomerInfo, error) {
	endpoint := fmt.Sprintf("%s/v2/customers/%s", c.config.BaseURL, url.PathEscape(customerID))

	var resp getCustomerResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Customer == nil {
		return nil, nil
	}

	name := strings.TrimSpace(str(resp.Customer.GivenName) + " " + str(resp.Customer.FamilyName))
	if name == "" {
		name = str(resp.Customer.EmailAddress)
	}
	if name == "" {
		name = "Unknown Customer"
	}

	return &CustomerInfo{
		Name:        name,
		ReferenceID: str(resp.Customer.ReferenceID),
	}, nil
}
