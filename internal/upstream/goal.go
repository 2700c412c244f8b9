package upstream

import (
	"context"
	"fmt"
	"net/http"

	"study_session_gateway/internal/model"
)

func (c *Client) Goals(ctx context.Context, token string) ([]model.Goal, error) {
	var goals []model.Goal
	if err := c.do(ctx, "goals", http.MethodGet, "/api/goals", token, nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

type createGoalRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	TargetDate  string   `json:"targetDate,omitempty"`
	Topics      []string `json:"topics,omitempty"`
}

func (c *Client) CreateGoal(ctx context.Context, token, title, description, targetDate string, topics []string) (model.Goal, error) {
	var goal model.Goal
	err := c.do(ctx, "goals", http.MethodPost, "/api/goals", token, createGoalRequest{
		Title:       title,
		Description: description,
		TargetDate:  targetDate,
		Topics:      topics,
	}, &goal)
	if err != nil {
		return model.Goal{}, err
	}
	return goal, nil
}

func (c *Client) DeleteGoal(ctx context.Context, token string, id int64) error {
	return c.do(ctx, "goals", http.MethodDelete, fmt.Sprintf("/api/goals/%d", id), token, nil, nil)
}
