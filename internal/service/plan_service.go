package service

import (
	"context"

	"study_session_gateway/internal/model"
	"study_session_gateway/internal/upstream"
)

// PlanService 学习计划的生成与读取
type PlanService struct {
	client   *upstream.Client
	progress *ProgressService
}

func NewPlanService(client *upstream.Client, progress *ProgressService) *PlanService {
	return &PlanService{client: client, progress: progress}
}

func (s *PlanService) Generate(ctx context.Context, token, goalTitle string, days int, level string) (*model.StudyPlan, error) {
	if days <= 0 {
		days = 4
	}
	if level == "" {
		level = "beginner"
	}
	return s.client.GeneratePlan(ctx, token, goalTitle, days, level)
}

// Progress 进入计划视图时拉取目标完成度
func (s *PlanService) Progress(ctx context.Context, token, userKey, goalTitle string) (model.ModuleProgress, error) {
	return s.progress.LoadModuleProgress(ctx, token, userKey, goalTitle)
}
