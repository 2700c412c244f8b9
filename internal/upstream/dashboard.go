package upstream

import (
	"context"
	"net/http"

	"study_session_gateway/internal/model"
)

func (c *Client) DashboardSummary(ctx context.Context, token string) (model.DashboardSummary, error) {
	var summary model.DashboardSummary
	if err := c.do(ctx, "dashboard", http.MethodGet, "/api/dashboard/summary", token, nil, &summary); err != nil {
		return model.DashboardSummary{}, err
	}
	return summary, nil
}
