package square

import (
	"context"
	"fmt"
	"net/url"
)

type getLocationResponse struct {
	Location *Location `json:"location"`
}

// GetLocationName fetches the live display name of a location. An empty name
// with a nil error means the location exists but has no name; callers fall
// back to the static resolver in both the empty and error cases.
func (c *Client) GetLocationName(ctx context.Context, locationID string) (string, error) {
	endpoint := fmt.Sprintf("%s/v2/locations/%s", c.config.BaseURL, url.PathEscape(locationID))

	var resp getLocationResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return "", err
	}
	if resp.Location == nil {
		return "", nil
	}
	return str(resp.Location.Name), nil
}
