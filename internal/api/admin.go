package api

import (
	"context"

	"github.com/minhvu/todopad/internal/model"
)

// AdminStats retrieves the application-wide usage summary. The server
// rejects callers without the admin role.
func (c *Client) AdminStats(ctx context.Context) (model.AdminStats, error) {
	var stats model.AdminStats
	if err := c.get(ctx, "/admin/stats", &stats); err != nil {
		return model.AdminStats{}, err
	}
	return stats, nil
}
