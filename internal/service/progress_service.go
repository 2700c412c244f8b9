package service

import (
	"context"
	"sync"

	"study_session_gateway/internal/model"
	"study_session_gateway/internal/upstream"
	"study_session_gateway/pkg/logger"

	"go.uber.org/zap"
)

// ProgressSnapshot 仪表盘/目标列表消费的聚合视图
// RefreshCount 单调递增，仪表盘据此判断是否需要重新拉取
type ProgressSnapshot struct {
	Goals          []model.Goal           `json:"goals"`
	Dashboard      model.DashboardSummary `json:"dashboard"`
	ModuleProgress model.ModuleProgress   `json:"moduleProgress"`
	RefreshCount   uint64                 `json:"refreshCount"`
}

// ProgressService 进度传播：变更后重拉权威聚合，自身不做任何重算
type ProgressService struct {
	mu     sync.RWMutex
	client *upstream.Client

	goals          map[string][]model.Goal
	dashboards     map[string]model.DashboardSummary
	moduleProgress map[string]model.ModuleProgress
	refreshCount   map[string]uint64
}

func NewProgressService(client *upstream.Client) *ProgressService {
	return &ProgressService{
		client:         client,
		goals:          make(map[string][]model.Goal),
		dashboards:     make(map[string]model.DashboardSummary),
		moduleProgress: make(map[string]model.ModuleProgress),
		refreshCount:   make(map[string]uint64),
	}
}

// Refresh 重拉目标列表与仪表盘摘要并递增刷新计数
// 刷新只影响次级视图，失败记日志后吞掉，绝不冒泡给触发它的变更
func (s *ProgressService) Refresh(ctx context.Context, token, userKey string) {
	goals, goalsErr := s.client.Goals(ctx, token)
	summary, dashErr := s.client.DashboardSummary(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()

	if goalsErr != nil {
		logger.Log.Warn("刷新目标列表失败", zap.Error(goalsErr))
	} else {
		s.goals[userKey] = goals
	}
	if dashErr != nil {
		logger.Log.Warn("刷新仪表盘摘要失败", zap.Error(dashErr))
	} else {
		s.dashboards[userKey] = summary
	}
	s.refreshCount[userKey]++
}

// SetModuleProgress 服务端计数整体替换，永不客户端重算
func (s *ProgressService) SetModuleProgress(userKey string, p model.ModuleProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moduleProgress[userKey] = p
}

// LoadModuleProgress 主动拉取目标完成度（进入计划视图时）
func (s *ProgressService) LoadModuleProgress(ctx context.Context, token, userKey, goalTitle string) (model.ModuleProgress, error) {
	p, err := s.client.PlanProgress(ctx, token, goalTitle)
	if err != nil {
		return model.ModuleProgress{}, err
	}
	s.SetModuleProgress(userKey, p)
	return p, nil
}

func (s *ProgressService) setGoals(userKey string, goals []model.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[userKey] = goals
}

// LiveDashboard 仪表盘主动读取：这是主路径，错误要冒泡
func (s *ProgressService) LiveDashboard(ctx context.Context, token, userKey string) (model.DashboardSummary, error) {
	summary, err := s.client.DashboardSummary(ctx, token)
	if err != nil {
		return model.DashboardSummary{}, err
	}
	s.mu.Lock()
	s.dashboards[userKey] = summary
	s.mu.Unlock()
	return summary, nil
}

func (s *ProgressService) Snapshot(userKey string) ProgressSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ProgressSnapshot{
		Goals:          append([]model.Goal(nil), s.goals[userKey]...),
		Dashboard:      s.dashboards[userKey],
		ModuleProgress: s.moduleProgress[userKey],
		RefreshCount:   s.refreshCount[userKey],
	}
}

func (s *ProgressService) RefreshCount(userKey string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshCount[userKey]
}
