package service

import (
	"context"

	"study_session_gateway/internal/model"
	"study_session_gateway/internal/upstream"
)

// GoalService 目标的增删查都直连上游，progress/daysLeft只读
type GoalService struct {
	client   *upstream.Client
	progress *ProgressService
}

func NewGoalService(client *upstream.Client, progress *ProgressService) *GoalService {
	return &GoalService{client: client, progress: progress}
}

func (s *GoalService) List(ctx context.Context, token, userKey string) ([]model.Goal, error) {
	goals, err := s.client.Goals(ctx, token)
	if err != nil {
		return nil, err
	}
	s.progress.setGoals(userKey, goals)
	return goals, nil
}

func (s *GoalService) Create(ctx context.Context, token, title, description, targetDate string, topics []string) (model.Goal, error) {
	return s.client.CreateGoal(ctx, token, title, description, targetDate, topics)
}

// Delete 删除后触发一次进度传播，保持目标列表/仪表盘一致
func (s *GoalService) Delete(ctx context.Context, token, userKey string, id int64) error {
	if err := s.client.DeleteGoal(ctx, token, id); err != nil {
		return err
	}
	s.progress.Refresh(ctx, token, userKey)
	return nil
}
