package service

import (
	"context"

	"study_session_gateway/internal/model"
	"study_session_gateway/internal/upstream"
	"study_session_gateway/internal/util"
)

// CompletionService 模块完成标记的切换
// 乐观更新本地标志，失败则回滚到切换前的值，不留本地/服务端分歧
type CompletionService struct {
	client   *upstream.Client
	session  *SessionService
	progress *ProgressService
}

func NewCompletionService(client *upstream.Client, session *SessionService, progress *ProgressService) *CompletionService {
	return &CompletionService{client: client, session: session, progress: progress}
}

// Toggle 幂等切换：不去抖，每次调用都发请求
// 成功时整体替换ModuleProgress并触发进度传播
func (s *CompletionService) Toggle(ctx context.Context, token, userKey string, desired bool) (model.ModuleProgress, error) {
	if token == "" {
		// 写端点没有token直接跳过请求
		return model.ModuleProgress{}, util.ErrNoToken
	}

	st := s.session.State(userKey)
	if st.SelectedModule == nil {
		return model.ModuleProgress{}, util.ErrNoActiveModule
	}
	key := model.ModuleKey{GoalTitle: st.SelectedGoalTitle, ModuleTitle: st.SelectedModule.Title}
	moduleID := st.SelectedModule.ID
	previous := st.IsCompleted

	s.session.setCompleted(userKey, desired)

	progress, err := s.client.CompleteModule(ctx, token, key, moduleID, desired)
	if err != nil {
		s.session.setCompleted(userKey, previous)
		return model.ModuleProgress{}, err
	}

	s.progress.SetModuleProgress(userKey, progress)
	s.progress.Refresh(ctx, token, userKey)
	return progress, nil
}
