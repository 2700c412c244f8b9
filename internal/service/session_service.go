package service

import (
	"context"
	"sync"

	"study_session_gateway/internal/model"
	"study_session_gateway/internal/upstream"
)

const tutorSystemPrompt = "You are a friendly AI tutor for a study assistant. Answer concisely and stay on the learner's current topic."

// SessionService 每个用户一份会话聚合，贯穿模块的所有标签页
// 所有修改经过合并式Patch，禁止整体替换，避免标签页互相覆盖
type SessionService struct {
	mu       sync.Mutex
	sessions map[string]*model.SessionState

	content *ContentService
	quiz    *QuizService
	client  *upstream.Client
}

func NewSessionService(client *upstream.Client, content *ContentService, quiz *QuizService) *SessionService {
	return &SessionService{
		sessions: make(map[string]*model.SessionState),
		content:  content,
		quiz:     quiz,
		client:   client,
	}
}

func (s *SessionService) session(userKey string) *model.SessionState {
	st, ok := s.sessions[userKey]
	if !ok {
		st = &model.SessionState{
			ChatMessages: []model.ChatMessage{},
		}
		s.sessions[userKey] = st
	}
	return st
}

func copyState(st *model.SessionState) model.SessionState {
	out := *st
	out.ChatMessages = append([]model.ChatMessage(nil), st.ChatMessages...)
	if st.SelectedModule != nil {
		m := *st.SelectedModule
		out.SelectedModule = &m
	}
	return out
}

// State 当前会话快照
func (s *SessionService) State(userKey string) model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.session(userKey))
}

// StartModule 从计划视图进入一个模块，播种会话
// 笔记与对话记录跨模块保留（会话与应用同生命周期）
func (s *SessionService) StartModule(userKey, goalTitle string, module model.Module) model.SessionState {
	s.mu.Lock()
	st := s.session(userKey)
	st.SelectedGoalTitle = goalTitle
	m := module
	st.SelectedModule = &m
	st.IsCompleted = module.Completed
	snapshot := copyState(st)
	s.mu.Unlock()

	key := model.ModuleKey{GoalTitle: goalTitle, ModuleTitle: module.Title}
	s.content.Invalidate(userKey, key)
	s.quiz.Invalidate(userKey, key)
	return snapshot
}

// ClearModule 显式离开学习流，这是唯一会丢弃选中模块的路径
func (s *SessionService) ClearModule(userKey string) model.SessionState {
	s.mu.Lock()
	st := s.session(userKey)
	st.SelectedModule = nil
	st.SelectedGoalTitle = ""
	snapshot := copyState(st)
	s.mu.Unlock()

	s.content.Invalidate(userKey, model.ModuleKey{})
	s.quiz.Invalidate(userKey, model.ModuleKey{})
	return snapshot
}

// Patch 字段级合并：nil保持原值，给定才覆盖
func (s *SessionService) Patch(userKey string, patch model.SessionPatch) model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.session(userKey)
	if patch.IsCompleted != nil {
		st.IsCompleted = *patch.IsCompleted
	}
	if patch.Notes != nil {
		st.Notes = *patch.Notes
	}
	if patch.ChatInput != nil {
		st.ChatInput = *patch.ChatInput
	}
	if patch.ChatLoading != nil {
		st.ChatLoading = *patch.ChatLoading
	}
	if patch.SelectedGoalTitle != nil {
		st.SelectedGoalTitle = *patch.SelectedGoalTitle
	}
	return copyState(st)
}

// setCompleted 补全切换的乐观更新/回滚入口
func (s *SessionService) setCompleted(userKey string, completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.session(userKey)
	st.IsCompleted = completed
	if st.SelectedModule != nil {
		st.SelectedModule.Completed = completed
	}
}

func (s *SessionService) appendMessage(userKey string, role model.ChatRole, text string) model.ChatMessage {
	st := s.session(userKey)
	msg := model.ChatMessage{
		ID:   len(st.ChatMessages) + 1,
		Role: role,
		Text: text,
	}
	st.ChatMessages = append(st.ChatMessages, msg)
	return msg
}

// SendChat 追加用户消息并取回助教回复
// 对话记录严格追加，ID在会话内递增；失败时用户消息保留
func (s *SessionService) SendChat(ctx context.Context, token, userKey, text string) (model.SessionState, error) {
	s.mu.Lock()
	st := s.session(userKey)
	s.appendMessage(userKey, model.RoleUser, text)
	st.ChatInput = ""
	st.ChatLoading = true
	transcript := append([]model.ChatMessage(nil), st.ChatMessages...)
	s.mu.Unlock()

	reply, err := s.client.TutorReply(ctx, token, transcript, tutorSystemPrompt)

	s.mu.Lock()
	defer s.mu.Unlock()
	st = s.session(userKey)
	st.ChatLoading = false
	if err != nil {
		return copyState(st), err
	}
	s.appendMessage(userKey, model.RoleTutor, reply)
	return copyState(st), nil
}
