package square

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// defaultWindow is the backfill window applied when no explicit range is given.
const defaultWindow = 30 * 24 * time.Hour

// pageSizeCap is the provider-side maximum page size for the payments listing.
const pageSizeCap = "100"

type listPaymentsResponse struct {
	Payments []Payment `json:"payments"`
}

// ListPaymentsParams filters the payments listing. Zero times default to the
// trailing 30-day window; an empty LocationID means all locations.
type ListPaymentsParams struct {
	LocationID string
	BeginTime  time.Time
	EndTime    time.Time
}

// ListPayments fetches payments in a time window, newest first. This path is
// a single capped page; there is no pagination loop here.
func (c *Client) ListPayments(ctx context.Context, params ListPaymentsParams) ([]Payment, error) {
	end := params.EndTime
	if end.IsZero() {
		end = time.Now().UTC()
	}
	begin := params.BeginTime
	if begin.IsZero() {
		begin = end.Add(-defaultWindow)
	}

	query := url.Values{}
	query.Set("begin_time", begin.Format(time.RFC3339))
	query.Set("end_time", end.Format(time.RFC3339))
	query.Set("sort_order", "DESC")
	query.Set("limit", pageSizeCap)
	if params.LocationID != "" {
		query.Set("location_id", params.LocationID)
	}

	endpoint := c.config.BaseURL + "/v2/payments?" + query.Encode()

	var resp listPaymentsResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	c.logger.Info("fetched payments",
		zap.Int("count", len(resp.Payments)),
		zap.Time("begin", begin),
		zap.Time("end", end),
		zap.String("location_id", params.LocationID),
	)

	return resp.Payments, nil
}
